// Package mathlib registers math host functions for PawC scripts.
//
// Functions on double: abs, sqrt, pow, floor, ceil, min, max, sin, cos,
// tan, log, exp. Functions on decimal: round, truncate.
package mathlib

import (
	"fmt"
	"math"

	pawc "github.com/phroun/pawc/src"
)

func unary(f func(float64) float64) pawc.HostFunction {
	return pawc.HostFunction{
		ReturnType: pawc.Double,
		Params:     []pawc.Type{pawc.Double},
		Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			return pawc.DoubleValue(f(args[0].Float64())), nil
		},
	}
}

func binary(f func(float64, float64) float64) pawc.HostFunction {
	return pawc.HostFunction{
		ReturnType: pawc.Double,
		Params:     []pawc.Type{pawc.Double, pawc.Double},
		Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			return pawc.DoubleValue(f(args[0].Float64(), args[1].Float64())), nil
		},
	}
}

// domain rejects results a C library would report through errno
func domain(name string, f func(float64) float64, ok func(float64) bool) pawc.HostFunction {
	h := unary(f)
	h.Fn = func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
		x := args[0].Float64()
		if !ok(x) {
			return pawc.Value{}, fmt.Errorf("%v is outside the domain of %s", x, name)
		}
		return pawc.DoubleValue(f(x)), nil
	}
	return h
}

func decimalPlaces(name string, f func(d pawc.Value, places int32) pawc.Value) pawc.HostFunction {
	return pawc.HostFunction{
		ReturnType: pawc.Decimal,
		Params:     []pawc.Type{pawc.Decimal, pawc.Int},
		Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			places := args[1].Int64()
			if places < 0 || places > 28 {
				return pawc.Value{}, fmt.Errorf("%s: %d decimal places is out of range", name, places)
			}
			return f(args[0], int32(places)), nil
		},
	}
}

// Register adds the math functions to pc
func Register(pc *pawc.PawC) error {
	nonNegative := func(x float64) bool { return x >= 0 }
	positive := func(x float64) bool { return x > 0 }

	return pc.RegisterFunctions(map[string]pawc.HostFunction{
		"abs":   unary(math.Abs),
		"sqrt":  domain("sqrt", math.Sqrt, nonNegative),
		"pow":   binary(math.Pow),
		"floor": unary(math.Floor),
		"ceil":  unary(math.Ceil),
		"min":   binary(math.Min),
		"max":   binary(math.Max),
		"sin":   unary(math.Sin),
		"cos":   unary(math.Cos),
		"tan":   unary(math.Tan),
		"log":   domain("log", math.Log, positive),
		"exp":   unary(math.Exp),

		// halves round away from zero
		"round": decimalPlaces("round", func(d pawc.Value, places int32) pawc.Value {
			return pawc.DecimalValue(d.Decimal().Round(places))
		}),
		"truncate": decimalPlaces("truncate", func(d pawc.Value, places int32) pawc.Value {
			return pawc.DecimalValue(d.Decimal().Truncate(places))
		}),
	})
}
