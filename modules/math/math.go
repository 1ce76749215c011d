// Package mathmod implements the math module.
package mathmod

import (
	"fmt"
	"math"

	"github.com/pyrite-lang/pyrite/modules"
)

func init() {
	modules.Register(&modules.Module{
		Name: "math",
		Funcs: []modules.FuncDef{
			{Name: "sqrt", MinArgs: 1, Impl: unary(math.Sqrt)},
			{Name: "floor", MinArgs: 1, Impl: toIntUnary(math.Floor)},
			{Name: "ceil", MinArgs: 1, Impl: toIntUnary(math.Ceil)},
			{Name: "fabs", MinArgs: 1, Impl: unary(math.Abs)},
			{Name: "exp", MinArgs: 1, Impl: unary(math.Exp)},
			{Name: "log", MinArgs: 1, MaxArgs: 2, Impl: mathLog},
			{Name: "sin", MinArgs: 1, Impl: unary(math.Sin)},
			{Name: "cos", MinArgs: 1, Impl: unary(math.Cos)},
			{Name: "tan", MinArgs: 1, Impl: unary(math.Tan)},
			{Name: "pow", MinArgs: 2, Impl: mathPow},
		},
		Consts: map[string]any{
			"pi":  math.Pi,
			"e":   math.E,
			"tau": 2 * math.Pi,
			"inf": math.Inf(1),
			"nan": math.NaN(),
		},
	})
}

func unary(f func(float64) float64) func([]any) (any, error) {
	return func(args []any) (any, error) {
		x, err := modules.ToFloat(args[0])
		if err != nil {
			return nil, err
		}
		return f(x), nil
	}
}

func toIntUnary(f func(float64) float64) func([]any) (any, error) {
	return func(args []any) (any, error) {
		x, err := modules.ToFloat(args[0])
		if err != nil {
			return nil, err
		}
		return int64(f(x)), nil
	}
}

func mathLog(args []any) (any, error) {
	x, err := modules.ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 2 {
		base, err := modules.ToFloat(args[1])
		if err != nil {
			return nil, err
		}
		return math.Log(x) / math.Log(base), nil
	}
	return math.Log(x), nil
}

func mathPow(args []any) (any, error) {
	x, err := modules.ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	y, err := modules.ToFloat(args[1])
	if err != nil {
		return nil, err
	}
	r := math.Pow(x, y)
	if math.IsNaN(r) {
		return nil, fmt.Errorf("math.pow: domain error for (%v, %v)", x, y)
	}
	return r, nil
}
