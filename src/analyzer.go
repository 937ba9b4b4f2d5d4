package pawc

import (
	"errors"
)

// errStatementAborted unwinds analysis of the statement that raised a
// CriticalError. The nearest statement list catches it and moves on.
var errStatementAborted = errors.New("statement analysis aborted")

// Analyzer resolves the type of every expression, inserts implicit casts
// and collects diagnostics. Expression methods return the node that should
// take the analyzed node's place, which is how casts are spliced in.
type Analyzer struct {
	env       *Environment
	logger    *Logger
	scope     *ScopeStack[Type]
	functions map[string]*FunctionDef
	current   *FunctionDef
	diags     Diagnostics
}

// NewAnalyzer creates an analyzer resolving host names through env.
func NewAnalyzer(env *Environment, logger *Logger) *Analyzer {
	if env == nil {
		env = NewEnvironment()
	}
	return &Analyzer{
		env:    env,
		logger: logger,
		scope:  NewScopeStack[Type](),
	}
}

// Analyze checks the root body and then every function in declaration
// order. The global frame the root declares into stays open while the
// functions are checked, so they resolve script globals. Each call starts
// from a fresh scope stack.
func (a *Analyzer) Analyze(root *SequenceNode, functions, duplicates []*FunctionDef) Diagnostics {
	a.scope.Reset()
	a.diags = nil
	a.current = nil
	a.functions = make(map[string]*FunctionDef, len(functions))
	for _, fn := range functions {
		a.functions[fn.Name] = fn
	}

	names, values := a.env.Variables()
	for i, name := range names {
		a.scope.Declare(name, values[i].Type())
	}

	for _, dup := range duplicates {
		a.report(Error, FunctionAlreadyDefined, dup.Pos(), dup.Name)
	}

	if root != nil {
		root.Statements = a.statements(root.Statements, true)
	}
	for _, fn := range functions {
		a.function(fn)
	}
	return a.diags
}

func (a *Analyzer) report(level DiagnosticLevel, code DiagnosticCode, pos SourcePosition, args ...interface{}) {
	d := Diagnostic{Level: level, Code: code, Position: pos, Args: args}
	a.diags = append(a.diags, d)
	a.logger.DebugCat(CatType, "%s %s: %s", level, code, d.Message())
}

func (a *Analyzer) critical(code DiagnosticCode, pos SourcePosition, args ...interface{}) error {
	a.report(CriticalError, code, pos, args...)
	return errStatementAborted
}

func (a *Analyzer) function(fn *FunctionDef) {
	a.logger.TraceCat(CatType, "analyzing function %s", fn.Name)
	a.scope.Push(FunctionFrame)
	defer a.scope.Pop()

	for i := range fn.Params {
		p := &fn.Params[i]
		if p.Default != nil {
			a.compileDefault(p)
		}
		if !a.scope.Add(p.Name, p.Type) {
			a.report(Error, VariableAlreadyExists, p.Position, p.Name)
		}
	}

	a.current = fn
	defer func() { a.current = nil }()

	if fn.Body == nil {
		return
	}
	fn.Body.Statements = a.statements(fn.Body.Statements, false)
	if fn.ReturnType != Void && !terminates(fn.Body) {
		a.report(Warning, NotAllCodePathsReturnAValue, fn.Pos(), fn.Name)
	}
}

// compileDefault converts a parameter's default literal once, so calls can
// bind it without analysis.
func (a *Analyzer) compileDefault(p *Param) {
	v, err := literalValue(p.Default.Token, p.Type)
	if err != nil {
		switch p.Type {
		case String:
			a.report(Error, BadDefaultForStringParameter, p.Default.Pos(), p.Name)
		case Char:
			a.report(Error, BadDefaultForCharParameter, p.Default.Pos(), p.Name)
		case Bool:
			a.report(Error, BadDefaultForBooleanParameter, p.Default.Pos(), p.Name)
		default:
			a.report(Error, BadDefaultForNumericParameter, p.Default.Pos(), p.Name, p.Type)
		}
		return
	}
	p.DefaultValue = v
	p.Default.Value = v
	p.Default.setType(p.Type)
}

// terminates reports whether every path through n ends in return or exit.
func terminates(n Node) bool {
	switch s := n.(type) {
	case *ReturnNode, *ExitNode:
		return true
	case *SequenceNode:
		for _, stmt := range s.Statements {
			if terminates(stmt) {
				return true
			}
		}
	case *IfNode:
		return s.Else != nil && terminates(s.Then) && terminates(s.Else)
	}
	return false
}

func leavesBlock(n Node) bool {
	switch n.(type) {
	case *ReturnNode, *ExitNode:
		return true
	}
	return false
}

// statements analyzes a statement list. A critical error drops out of one
// statement only. Statements after a return or exit are reported once and
// removed. At the script root a trailing expression becomes the exit value.
func (a *Analyzer) statements(list []Node, root bool) []Node {
	for i := 0; i < len(list); i++ {
		if out, err := a.statement(list[i]); err == nil {
			list[i] = out
		}
		if leavesBlock(list[i]) && i < len(list)-1 {
			a.report(Warning, UnreachableCode, list[i+1].Pos())
			list = list[:i+1]
			break
		}
	}

	if root && len(list) > 0 {
		last := list[len(list)-1]
		if t := last.ResultType(); last.HasResult() && t != Undefined && t != Void {
			exit := &ExitNode{Value: last}
			exit.at(last.Pos())
			list[len(list)-1] = exit
		}
	}
	return list
}

func (a *Analyzer) statement(n Node) (Node, error) {
	switch s := n.(type) {
	case *SequenceNode:
		if s.OwnScope {
			a.scope.Push(BlockFrame)
			defer a.scope.Pop()
		}
		s.Statements = a.statements(s.Statements, false)
		return s, nil

	case *VarDefNode:
		return s, a.varDef(s)

	case *IfNode:
		cond, err := a.coerce(s.Cond, Bool)
		if err != nil {
			return nil, err
		}
		s.Cond = cond
		if s.Then, err = a.statement(s.Then); err != nil {
			return nil, err
		}
		if s.Else != nil {
			if s.Else, err = a.statement(s.Else); err != nil {
				return nil, err
			}
		}
		return s, nil

	case *WhileNode:
		cond, err := a.coerce(s.Cond, Bool)
		if err != nil {
			return nil, err
		}
		s.Cond = cond
		if s.Body, err = a.optionalStatement(s.Body); err != nil {
			return nil, err
		}
		return s, nil

	case *DoWhileNode:
		var err error
		if s.Body, err = a.optionalStatement(s.Body); err != nil {
			return nil, err
		}
		if s.Cond, err = a.coerce(s.Cond, Bool); err != nil {
			return nil, err
		}
		return s, nil

	case *ForNode:
		return s, a.forLoop(s)

	case *SwitchNode:
		return s, a.switchStatement(s)

	case *ReturnNode:
		return a.returnStatement(s)

	case *ExitNode:
		if s.Value != nil {
			value, err := a.value(s.Value)
			if err != nil {
				return nil, err
			}
			s.Value = value
		}
		return s, nil

	case *BreakNode, *ContinueNode, *NopNode:
		return s, nil
	}
	return a.expr(n)
}

func (a *Analyzer) optionalStatement(n Node) (Node, error) {
	if n == nil {
		return nil, nil
	}
	return a.statement(n)
}

// varDef declares each name after analyzing its initializer, so an
// initializer cannot see the variable it initializes.
func (a *Analyzer) varDef(def *VarDefNode) error {
	for i := range def.Vars {
		v := &def.Vars[i]
		var failed error
		if v.Init != nil {
			init, err := a.coerce(v.Init, def.Type)
			if err != nil {
				failed = err
			} else {
				v.Init = init
			}
		}
		if !a.scope.Add(v.Name, def.Type) {
			a.report(Error, VariableAlreadyExists, v.Position, v.Name)
		}
		if failed != nil {
			return failed
		}
	}
	return nil
}

// forLoop analyzes every clause in one shared frame.
func (a *Analyzer) forLoop(loop *ForNode) error {
	a.scope.Push(BlockFrame)
	defer a.scope.Pop()

	if loop.Init != nil {
		init, err := a.statement(loop.Init)
		if err != nil {
			return err
		}
		loop.Init = init
	}
	if loop.Cond != nil {
		cond, err := a.coerce(loop.Cond, Bool)
		if err != nil {
			return err
		}
		loop.Cond = cond
	}
	for i, update := range loop.Update {
		out, err := a.expr(update)
		if err != nil {
			return err
		}
		loop.Update[i] = out
	}
	if loop.Cond == nil && loop.Body == nil {
		a.report(Error, LoopWithNoConditionNorCode, loop.Pos())
	}
	body, err := a.optionalStatement(loop.Body)
	if err != nil {
		return err
	}
	loop.Body = body
	return nil
}

// switchStatement converts each case literal to the subject's kind. The
// body is one frame; a critical error skips only the statement it is in.
func (a *Analyzer) switchStatement(sw *SwitchNode) error {
	subject, err := a.value(sw.Subject)
	if err != nil {
		return err
	}
	sw.Subject = subject
	kind := subject.ResultType()

	var seen []Value
	for _, label := range sw.Labels {
		if label.Value == nil {
			continue
		}
		v, err := literalValue(label.Value.Token, kind)
		if err != nil {
			a.report(Error, CannotConvertLiteral, label.Value.Pos(), label.Value.Token.LitType, kind)
			continue
		}
		for _, prev := range seen {
			if prev.Equal(v) {
				a.report(Error, DuplicateCaseLabel, label.Value.Pos(), label.Value.Token.Text)
				break
			}
		}
		seen = append(seen, v)
		label.Value.Value = v
		label.Value.setType(kind)
	}

	a.scope.Push(BlockFrame)
	defer a.scope.Pop()
	for i, stmt := range sw.Body {
		if out, err := a.statement(stmt); err == nil {
			sw.Body[i] = out
		}
	}
	return nil
}

// returnStatement checks the value against the enclosing function. A
// return at the script root ends the run and is rewritten to exit.
func (a *Analyzer) returnStatement(ret *ReturnNode) (Node, error) {
	if a.current == nil {
		exit := &ExitNode{Value: ret.Value}
		exit.at(ret.Pos())
		return a.statement(exit)
	}

	fn := a.current
	switch {
	case fn.ReturnType == Void && ret.Value != nil:
		a.report(Error, FunctionMustNotReturnAValue, ret.Pos(), fn.Name)
	case fn.ReturnType != Void && ret.Value == nil:
		a.report(Error, FunctionMustReturnAValue, ret.Pos(), fn.Name)
	case ret.Value != nil:
		value, err := a.coerce(ret.Value, fn.ReturnType)
		if err != nil {
			return nil, err
		}
		ret.Value = value
	}
	return ret, nil
}
