package pawc

import (
	"fmt"
)

// eval computes an expression. A non-nil Result is an exit raised inside a
// called function; the value is then meaningless and the caller must pass
// the result up.
func (x *Executor) eval(n Node) (Value, Result, error) {
	switch e := n.(type) {
	case *LiteralNode:
		return e.Value, nil, nil

	case *IdentifierNode:
		v, ok := x.ctx.scope.Get(e.Name)
		if !ok {
			return Value{}, nil, x.missing(e, e.Name)
		}
		return v, nil, nil

	case *AssignmentNode:
		v, exit, err := x.eval(e.Value)
		if err != nil || exit != nil {
			return Value{}, exit, err
		}
		if !x.ctx.scope.Set(e.Name, v) {
			return Value{}, nil, x.missing(e, e.Name)
		}
		return v, nil, nil

	case *BinaryNode:
		return x.binary(e)

	case *UnaryNode:
		v, exit, err := x.eval(e.Operand)
		if err != nil || exit != nil {
			return Value{}, exit, err
		}
		out, err := UnaryOp(e.Op, v)
		if err != nil {
			return Value{}, nil, x.fail(e, err)
		}
		return out, nil, nil

	case *IncDecNode:
		old, ok := x.ctx.scope.Get(e.Name)
		if !ok {
			return Value{}, nil, x.missing(e, e.Name)
		}
		op := OpDec
		if e.Increment {
			op = OpInc
		}
		updated, err := UnaryOp(op, old)
		if err != nil {
			return Value{}, nil, x.fail(e, err)
		}
		x.ctx.scope.Set(e.Name, updated)
		if e.Prefix {
			return updated, nil, nil
		}
		return old, nil, nil

	case *CastNode:
		v, exit, err := x.eval(e.Operand)
		if err != nil || exit != nil {
			return Value{}, exit, err
		}
		out, err := Convert(v, e.Target)
		if err != nil {
			return Value{}, nil, x.fail(e, err)
		}
		return out, nil, nil

	case *TernaryNode:
		cond, exit, err := x.eval(e.Cond)
		if err != nil || exit != nil {
			return Value{}, exit, err
		}
		if cond.Bool() {
			return x.eval(e.True)
		}
		return x.eval(e.False)

	case *CallNode:
		return x.call(e)
	}
	return Value{}, nil, &InternalError{Message: fmt.Sprintf("%T is not an expression", n), Position: n.Pos()}
}

// binary evaluates both operands, except that && and || skip the right
// operand once the left one decides the result.
func (x *Executor) binary(e *BinaryNode) (Value, Result, error) {
	left, exit, err := x.eval(e.Left)
	if err != nil || exit != nil {
		return Value{}, exit, err
	}
	switch {
	case e.Op == OpAnd && !left.Bool():
		return BoolValue(false), nil, nil
	case e.Op == OpOr && left.Bool():
		return BoolValue(true), nil, nil
	}
	right, exit, err := x.eval(e.Right)
	if err != nil || exit != nil {
		return Value{}, exit, err
	}
	out, err := BinaryOp(e.Op, left, right)
	if err != nil {
		return Value{}, nil, x.fail(e, err)
	}
	return out, nil, nil
}

// arguments evaluates the supplied arguments left to right. Blank and
// missing slots stay invalid.
func (x *Executor) arguments(e *CallNode, count int) ([]Value, Result, error) {
	args := make([]Value, count)
	for i, arg := range e.Args {
		if arg == nil || i >= count {
			continue
		}
		v, exit, err := x.eval(arg)
		if err != nil || exit != nil {
			return nil, exit, err
		}
		args[i] = v
	}
	return args, nil, nil
}

func (x *Executor) call(e *CallNode) (Value, Result, error) {
	switch {
	case e.Function != nil:
		return x.callScript(e, e.Function)
	case e.Host != nil:
		return x.callHost(e, e.Host)
	}
	return Value{}, nil, &InternalError{Message: fmt.Sprintf("call to '%s' was never resolved", e.Name), Position: e.Pos()}
}

// callScript binds parameters in a new function frame and runs the body.
// Falling off the end yields the return kind's zero value.
func (x *Executor) callScript(e *CallNode, fn *FunctionDef) (Value, Result, error) {
	args, exit, err := x.arguments(e, len(fn.Params))
	if err != nil || exit != nil {
		return Value{}, exit, err
	}
	if x.depth >= maxCallDepth {
		return Value{}, nil, &RuntimeError{Message: fmt.Sprintf("call stack overflow in '%s'", fn.Name), Position: e.Pos()}
	}

	x.logger.TraceCat(CatCall, "call %s with %d argument(s)", fn.Name, len(e.Args))
	x.depth++
	x.ctx.scope.Push(FunctionFrame)
	defer func() {
		x.ctx.scope.Pop()
		x.depth--
	}()

	for i, p := range fn.Params {
		v := args[i]
		if !v.IsValid() {
			v = p.DefaultValue
		}
		x.ctx.scope.Declare(p.Name, v)
	}

	r, err := x.sequence(fn.Body.Statements, false)
	if err != nil {
		return Value{}, nil, err
	}
	switch r := r.(type) {
	case ReturnResult:
		return r.Value, nil, nil
	case ExitResult:
		return Value{}, r, nil
	}
	if fn.ReturnType == Void {
		return Value{}, nil, nil
	}
	return ZeroValue(fn.ReturnType), nil, nil
}

// callHost invokes a native function and converts its result to the
// declared return kind.
func (x *Executor) callHost(e *CallNode, host *HostFunction) (Value, Result, error) {
	args, exit, err := x.arguments(e, len(host.Params))
	if err != nil || exit != nil {
		return Value{}, exit, err
	}

	x.logger.TraceCat(CatCall, "host call %s with %d argument(s)", host.Name, len(args))
	pos := e.Pos()
	saved := x.ctx.Position
	x.ctx.Position = &pos
	out, err := host.Fn(x.ctx, args)
	x.ctx.Position = saved
	if err != nil {
		return Value{}, nil, &RuntimeError{Message: fmt.Sprintf("%s: %v", host.Name, err), Position: pos, Err: err}
	}

	if host.ReturnType == Void {
		return Value{}, nil, nil
	}
	if !out.IsValid() {
		return Value{}, nil, &RuntimeError{Message: fmt.Sprintf("%s returned no value", host.Name), Position: pos}
	}
	converted, err := Convert(out, host.ReturnType)
	if err != nil {
		return Value{}, nil, x.fail(e, err)
	}
	return converted, nil, nil
}
