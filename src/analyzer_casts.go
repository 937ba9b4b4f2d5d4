package pawc

// expr resolves an expression bottom-up and returns the node to keep in
// its place.
func (a *Analyzer) expr(n Node) (Node, error) {
	switch e := n.(type) {
	case *LiteralNode:
		v, err := literalValue(e.Token, e.Token.LitType)
		if err != nil {
			a.report(Error, CannotConvertLiteral, e.Pos(), e.Token.Text, e.Token.LitType)
		}
		e.Value = v
		e.setType(e.Token.LitType)
		return e, nil

	case *IdentifierNode:
		t, ok := a.scope.Get(e.Name)
		if !ok {
			return nil, a.critical(UndefinedVariable, e.Pos(), e.Name)
		}
		e.setType(t)
		return e, nil

	case *AssignmentNode:
		t, ok := a.scope.Get(e.Name)
		if !ok {
			return nil, a.critical(UndefinedVariable, e.Pos(), e.Name)
		}
		value, err := a.coerce(e.Value, t)
		if err != nil {
			return nil, err
		}
		e.Value = value
		e.setType(t)
		return e, nil

	case *BinaryNode:
		return a.binary(e)

	case *UnaryNode:
		operand, err := a.value(e.Operand)
		if err != nil {
			return nil, err
		}
		e.Operand = operand
		t := operand.ResultType()
		probe, err := UnaryOp(e.Op, SampleValue(t))
		if err != nil {
			return nil, a.critical(OperatorCannotBeApplied1, e.Pos(), e.Op, t)
		}
		e.setType(probe.Type())
		return e, nil

	case *IncDecNode:
		t, ok := a.scope.Get(e.Name)
		if !ok {
			return nil, a.critical(UndefinedVariable, e.Pos(), e.Name)
		}
		op := OpDec
		if e.Increment {
			op = OpInc
		}
		probe, err := UnaryOp(op, SampleValue(t))
		if err != nil {
			return nil, a.critical(OperatorCannotBeApplied1, e.Pos(), op, t)
		}
		e.setType(probe.Type())
		return e, nil

	case *CastNode:
		return a.explicitCast(e)

	case *TernaryNode:
		return a.ternary(e)

	case *CallNode:
		return a.call(e)
	}
	return n, nil
}

// value is expr for places that consume the result. A void call there is
// a critical error.
func (a *Analyzer) value(n Node) (Node, error) {
	out, err := a.expr(n)
	if err != nil {
		return nil, err
	}
	if out.ResultType() == Void {
		name := ""
		if call, ok := out.(*CallNode); ok {
			name = call.Name
		}
		return nil, a.critical(FunctionDoesNotReturnAValue, out.Pos(), name)
	}
	return out, nil
}

// coerce analyzes n and makes it yield kind to, wrapping it in an implicit
// cast when the widening table allows it.
func (a *Analyzer) coerce(n Node, to Type) (Node, error) {
	out, err := a.value(n)
	if err != nil {
		return nil, err
	}
	return a.implicitCast(out, to), nil
}

// implicitCast wraps an analyzed node. A disallowed conversion is reported
// and the node is left as it is.
func (a *Analyzer) implicitCast(n Node, to Type) Node {
	from := n.ResultType()
	if from == to {
		return n
	}
	if !CanWiden(from, to) {
		a.report(Error, NoImplicitConversion, n.Pos(), from, to)
		return n
	}
	if a.logger.tracing(CatType) {
		pos := n.Pos()
		a.logger.TraceCat(CatType, "implicit cast from %s to %s at %d:%d", from, to, pos.Line, pos.Column)
	}
	cast := &CastNode{Target: to, Operand: n, Implicit: true}
	cast.at(n.Pos())
	cast.setType(to)
	return cast
}

// binary probes the operator with one sample value per operand kind; the
// probe's result kind becomes the node's kind.
func (a *Analyzer) binary(e *BinaryNode) (Node, error) {
	left, err := a.value(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.value(e.Right)
	if err != nil {
		return nil, err
	}
	e.Left, e.Right = left, right
	lt, rt := left.ResultType(), right.ResultType()
	probe, err := BinaryOp(e.Op, SampleValue(lt), SampleValue(rt))
	if err != nil {
		return nil, a.critical(OperatorCannotBeApplied2, e.Pos(), e.Op, lt, rt)
	}
	e.setType(probe.Type())
	return e, nil
}

// explicitCast reports casts whose sample conversion fails. A cast to the
// operand's own kind is dropped.
func (a *Analyzer) explicitCast(e *CastNode) (Node, error) {
	operand, err := a.value(e.Operand)
	if err != nil {
		return nil, err
	}
	from := operand.ResultType()
	if from == e.Target {
		return operand, nil
	}
	if _, err := Convert(SampleValue(from), e.Target); err != nil {
		a.report(Error, NoExplicitConversion, e.Pos(), from, e.Target)
	}
	e.Operand = operand
	e.setType(e.Target)
	return e, nil
}

// ternary needs a bool condition and branches of one kind. A branch that
// widens to the other branch's kind is cast.
func (a *Analyzer) ternary(e *TernaryNode) (Node, error) {
	cond, err := a.coerce(e.Cond, Bool)
	if err != nil {
		return nil, err
	}
	whenTrue, err := a.value(e.True)
	if err != nil {
		return nil, err
	}
	whenFalse, err := a.value(e.False)
	if err != nil {
		return nil, err
	}
	e.Cond = cond

	// Both branches must already share a type; neither side is widened.
	lt, rt := whenTrue.ResultType(), whenFalse.ResultType()
	if lt != rt {
		a.report(Error, TernaryBranchTypeMismatch, e.Pos(), lt, rt)
	}
	e.True, e.False = whenTrue, whenFalse
	e.setType(lt)
	return e, nil
}

// call resolves a script function first and a host function second.
// Supplied arguments are cast to the parameter kinds; blank or missing
// arguments need a default.
func (a *Analyzer) call(e *CallNode) (Node, error) {
	if fn, ok := a.functions[e.Name]; ok {
		e.Function = fn
		if len(e.Args) > len(fn.Params) {
			a.report(Error, TooManyParameters, e.Pos(), e.Name)
		} else {
			for i, p := range fn.Params {
				if i >= len(e.Args) || e.Args[i] == nil {
					if p.Default == nil {
						a.report(Error, ParameterIsRequired, e.Pos(), i+1, p.Name, e.Name)
					}
					continue
				}
				arg, err := a.coerce(e.Args[i], p.Type)
				if err != nil {
					return nil, err
				}
				e.Args[i] = arg
			}
		}
		e.setType(fn.ReturnType)
		return e, nil
	}

	if host, ok := a.env.Function(e.Name); ok {
		e.Host = host
		if len(e.Args) > len(host.Params) {
			a.report(Error, TooManyParameters, e.Pos(), e.Name)
		} else {
			for i, t := range host.Params {
				if i >= len(e.Args) || e.Args[i] == nil {
					a.report(Error, ParameterIsRequired, e.Pos(), i+1, t, e.Name)
					continue
				}
				var arg Node
				var err error
				if t == AnyValue {
					arg, err = a.value(e.Args[i])
				} else {
					arg, err = a.coerce(e.Args[i], t)
				}
				if err != nil {
					return nil, err
				}
				e.Args[i] = arg
			}
		}
		e.setType(host.ReturnType)
		return e, nil
	}

	return nil, a.critical(FunctionNotFound, e.Pos(), e.Name)
}
