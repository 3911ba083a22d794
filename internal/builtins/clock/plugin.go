package clock

import (
	"time"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{
		Name:    "clock",
		Arity:   0,
		Handler: runClock,
	})
}

// runClock returns seconds since the Unix epoch.
func runClock(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	now := time.Now()
	return runtime.Return(object.Number(float64(now.UnixNano()) / float64(time.Second)))
}
