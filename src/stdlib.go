package pawc

import (
	"fmt"
	"unicode/utf8"
)

// RegisterStandardLibrary registers the standard host functions. scriptArgs
// become what argc and argv report.
func (pc *PawC) RegisterStandardLibrary(scriptArgs []string) error {
	pc.args = append([]string(nil), scriptArgs...)

	return pc.RegisterFunctions(map[string]HostFunction{
		// print - writes a value without a newline
		"print": {ReturnType: Void, Params: []Type{AnyValue}, Fn: func(ctx *Context, args []Value) (Value, error) {
			return Value{}, ctx.Print(args[0].String())
		}},

		// println - writes a value followed by a newline
		"println": {ReturnType: Void, Params: []Type{AnyValue}, Fn: func(ctx *Context, args []Value) (Value, error) {
			return Value{}, ctx.Print(args[0].String() + "\n")
		}},

		// strlen - number of characters; the null string has none
		"strlen": {ReturnType: Int, Params: []Type{String}, Fn: func(ctx *Context, args []Value) (Value, error) {
			return IntValue(int32(utf8.RuneCountInString(args[0].Str()))), nil
		}},

		// argc - number of script arguments
		"argc": {ReturnType: Int, Fn: func(ctx *Context, args []Value) (Value, error) {
			return IntValue(int32(len(ctx.Args))), nil
		}},

		// argv - script argument by zero-based index
		"argv": {ReturnType: String, Params: []Type{Int}, Fn: func(ctx *Context, args []Value) (Value, error) {
			i := args[0].Int64()
			if i < 0 || i >= int64(len(ctx.Args)) {
				return Value{}, fmt.Errorf("argument index %d out of range (%d arguments)", i, len(ctx.Args))
			}
			return StringValue(ctx.Args[i]), nil
		}},

		// typeof - keyword naming a value's kind
		"typeof": {ReturnType: String, Params: []Type{AnyValue}, Fn: func(ctx *Context, args []Value) (Value, error) {
			return StringValue(args[0].Type().String()), nil
		}},

		// assert - stops the run with message when the condition is false
		"assert": {ReturnType: Void, Params: []Type{Bool, String}, Fn: func(ctx *Context, args []Value) (Value, error) {
			if !args[0].Bool() {
				return Value{}, fmt.Errorf("assertion failed: %s", args[1].String())
			}
			return Value{}, nil
		}},
	})
}
