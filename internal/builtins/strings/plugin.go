package stringsbuiltin

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/xirelogy/go-nova/internal/object"
	"github.com/xirelogy/go-nova/internal/runtime"
)

func init() {
	runtime.Register(runtime.Spec{Name: "str", Arity: 1, Handler: runStr})
	runtime.Register(runtime.Spec{Name: "num", Arity: 1, Handler: runNum})
	runtime.Register(runtime.Spec{Name: "len", Arity: 1, Handler: runLen})
	runtime.Register(runtime.Spec{Name: "upper", Arity: 1, Handler: caser("upper", func() cases.Caser { return cases.Upper(language.Und) })})
	runtime.Register(runtime.Spec{Name: "lower", Arity: 1, Handler: caser("lower", func() cases.Caser { return cases.Lower(language.Und) })})
	runtime.Register(runtime.Spec{Name: "title", Arity: 1, Handler: caser("title", func() cases.Caser { return cases.Title(language.Und) })})
}

func runStr(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	return runtime.Return(object.String(object.Text(runtime.Arg(args, 0))))
}

// runNum parses a string as a number; numbers pass through unchanged.
func runNum(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	v := runtime.Arg(args, 0)
	switch v.Kind {
	case object.KindNumber:
		return runtime.Return(v)
	case object.KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil, errors.Errorf("num: cannot convert %q to a number", v.Str)
		}
		return runtime.Return(object.Number(n))
	}
	return nil, errors.Errorf("num expects a string, got %s", object.TypeName(v))
}

// runLen counts characters, not bytes.
func runLen(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
	v := runtime.Arg(args, 0)
	if v.Kind != object.KindString {
		return nil, errors.Errorf("len expects a string, got %s", object.TypeName(v))
	}
	return runtime.Return(object.Number(float64(utf8.RuneCountInString(v.Str))))
}

// caser applies a newly built Caser to the string argument.
func caser(name string, newCaser func() cases.Caser) object.NativeFunc {
	return func(rt object.Runtime, args []*object.Ref) (*object.Ref, error) {
		v := runtime.Arg(args, 0)
		if v.Kind != object.KindString {
			return nil, errors.Errorf("%s expects a string, got %s", name, object.TypeName(v))
		}
		return runtime.Return(object.String(newCaser().String(v.Str)))
	}
}
