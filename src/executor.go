package pawc

import (
	"errors"
	"fmt"
)

// maxCallDepth bounds script function recursion
const maxCallDepth = 4096

// Result represents how a statement finished: normally, or by leaving
// through break, continue, return or exit
type Result interface {
	isResult()
}

// Normal is ordinary completion. Expression statements carry their value.
type Normal struct {
	Value Value
}

func (Normal) isResult() {}

// BreakResult leaves the innermost loop or switch
type BreakResult struct{}

func (BreakResult) isResult() {}

// ContinueResult resumes the innermost loop at its next iteration
type ContinueResult struct{}

func (ContinueResult) isResult() {}

// ReturnResult leaves the current function. Value is invalid for a bare
// return.
type ReturnResult struct {
	Value Value
}

func (ReturnResult) isResult() {}

// ExitResult ends the run. Value is invalid for a bare exit.
type ExitResult struct {
	Value Value
}

func (ExitResult) isResult() {}

// Executor walks an analyzed tree against one context
type Executor struct {
	ctx    *Context
	logger *Logger
	depth  int
}

// NewExecutor creates an executor bound to ctx
func NewExecutor(ctx *Context, logger *Logger) *Executor {
	return &Executor{ctx: ctx, logger: logger}
}

func (x *Executor) fail(n Node, err error) error {
	var rt *RuntimeError
	var internal *InternalError
	if errors.As(err, &rt) || errors.As(err, &internal) {
		return err
	}
	return &RuntimeError{Message: err.Error(), Position: n.Pos(), Err: err}
}

func (x *Executor) missing(n Node, name string) error {
	return &InternalError{Message: fmt.Sprintf("variable '%s' is not in scope", name), Position: n.Pos()}
}

// Execute runs a statement and reports how it finished.
func (x *Executor) Execute(n Node) (Result, error) {
	switch s := n.(type) {
	case *SequenceNode:
		return x.sequence(s.Statements, s.OwnScope)

	case *VarDefNode:
		for _, v := range s.Vars {
			value := ZeroValue(s.Type)
			if v.Init != nil {
				init, exit, err := x.eval(v.Init)
				if err != nil || exit != nil {
					return exit, err
				}
				value = init
			}
			if x.logger.tracing(CatVariable) {
				x.logger.TraceCat(CatVariable, "declare %s %s = %s", s.Type, v.Name, value)
			}
			x.ctx.scope.Declare(v.Name, value)
		}
		return Normal{}, nil

	case *IfNode:
		cond, exit, err := x.eval(s.Cond)
		if err != nil || exit != nil {
			return exit, err
		}
		if cond.Bool() {
			return x.Execute(s.Then)
		}
		if s.Else != nil {
			return x.Execute(s.Else)
		}
		return Normal{}, nil

	case *WhileNode:
		return x.loop(nil, s.Cond, nil, s.Body, false)

	case *DoWhileNode:
		return x.loop(nil, s.Cond, nil, s.Body, true)

	case *ForNode:
		x.ctx.scope.Push(BlockFrame)
		defer x.ctx.scope.Pop()
		return x.loop(s.Init, s.Cond, s.Update, s.Body, false)

	case *SwitchNode:
		return x.switchStatement(s)

	case *BreakNode:
		return BreakResult{}, nil

	case *ContinueNode:
		return ContinueResult{}, nil

	case *NopNode:
		return Normal{}, nil

	case *ReturnNode:
		var value Value
		if s.Value != nil {
			v, exit, err := x.eval(s.Value)
			if err != nil || exit != nil {
				return exit, err
			}
			value = v
		}
		return ReturnResult{Value: value}, nil

	case *ExitNode:
		var value Value
		if s.Value != nil {
			v, exit, err := x.eval(s.Value)
			if err != nil || exit != nil {
				return exit, err
			}
			value = v
		}
		x.logger.TraceCat(CatFlow, "exit with %s", value)
		return ExitResult{Value: value}, nil
	}

	v, exit, err := x.eval(n)
	if err != nil || exit != nil {
		return exit, err
	}
	return Normal{Value: v}, nil
}

// sequence runs statements until one leaves abnormally.
func (x *Executor) sequence(list []Node, ownScope bool) (Result, error) {
	if ownScope {
		x.ctx.scope.Push(BlockFrame)
		defer x.ctx.scope.Pop()
	}
	for _, stmt := range list {
		r, err := x.Execute(stmt)
		if err != nil {
			return nil, err
		}
		if _, ok := r.(Normal); !ok {
			return r, nil
		}
	}
	return Normal{}, nil
}

// loop runs every loop form. Break ends the loop without testing the
// condition again; continue goes through the update step.
func (x *Executor) loop(init, cond Node, update []Node, body Node, testAfter bool) (Result, error) {
	if init != nil {
		r, err := x.Execute(init)
		if err != nil {
			return nil, err
		}
		if _, ok := r.(Normal); !ok {
			return r, nil
		}
	}

	first := true
	for {
		if cond != nil && !(testAfter && first) {
			ok, exit, err := x.eval(cond)
			if err != nil || exit != nil {
				return exit, err
			}
			if !ok.Bool() {
				return Normal{}, nil
			}
		}
		first = false

		if body != nil {
			r, err := x.Execute(body)
			if err != nil {
				return nil, err
			}
			switch r.(type) {
			case BreakResult:
				return Normal{}, nil
			case Normal, ContinueResult:
			default:
				return r, nil
			}
		}

		for _, u := range update {
			if _, exit, err := x.eval(u); err != nil || exit != nil {
				return exit, err
			}
		}
	}
}

// switchStatement jumps to the matching label, or to default, and falls
// through from there.
func (x *Executor) switchStatement(sw *SwitchNode) (Result, error) {
	subject, exit, err := x.eval(sw.Subject)
	if err != nil || exit != nil {
		return exit, err
	}

	start := -1
	for _, label := range sw.Labels {
		if label.Value != nil && label.Value.Value.Equal(subject) {
			start = label.Index
			break
		}
	}
	if start < 0 {
		for _, label := range sw.Labels {
			if label.Value == nil {
				start = label.Index
			}
		}
	}
	if start < 0 {
		return Normal{}, nil
	}

	x.ctx.scope.Push(BlockFrame)
	defer x.ctx.scope.Pop()
	x.predeclare(sw.Body[:start])
	r, err := x.sequence(sw.Body[start:], false)
	if err != nil {
		return nil, err
	}
	if _, ok := r.(BreakResult); ok {
		return Normal{}, nil
	}
	return r, nil
}

// predeclare gives the variables defined in skipped switch statements their
// zero values, since statements after the jump target may still use them.
func (x *Executor) predeclare(skipped []Node) {
	for _, stmt := range skipped {
		def, ok := stmt.(*VarDefNode)
		if !ok {
			continue
		}
		for _, v := range def.Vars {
			x.ctx.scope.Declare(v.Name, ZeroValue(def.Type))
		}
	}
}
