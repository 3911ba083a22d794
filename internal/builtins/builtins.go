// Package builtins links every native function plugin into the binary.
package builtins

import (
	_ "github.com/xirelogy/go-nova/internal/builtins/clock"
	_ "github.com/xirelogy/go-nova/internal/builtins/defined"
	_ "github.com/xirelogy/go-nova/internal/builtins/error"
	_ "github.com/xirelogy/go-nova/internal/builtins/exit"
	_ "github.com/xirelogy/go-nova/internal/builtins/get_field"
	_ "github.com/xirelogy/go-nova/internal/builtins/has_field"
	_ "github.com/xirelogy/go-nova/internal/builtins/math"
	_ "github.com/xirelogy/go-nova/internal/builtins/print"
	_ "github.com/xirelogy/go-nova/internal/builtins/strings"
	_ "github.com/xirelogy/go-nova/internal/builtins/typeof"
)
