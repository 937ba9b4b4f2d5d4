package pawc

// loopBody parses the statement controlled by a loop. An empty statement
// becomes a nil body.
func (p *Parser) loopBody() (Node, error) {
	p.loops++
	p.breakable++
	defer func() {
		p.loops--
		p.breakable--
	}()
	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	if _, empty := body.(*NopNode); empty {
		return nil, nil
	}
	return body, nil
}

// parenthesized reads ( expression ).
func (p *Parser) parenthesized() (Node, error) {
	if _, err := p.expectOperator("("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOperator(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseWhile() (Node, error) {
	loop := &WhileNode{}
	loop.at(p.advance().Position)
	cond, err := p.parenthesized()
	if err != nil {
		return nil, err
	}
	loop.Cond = cond
	if loop.Body, err = p.loopBody(); err != nil {
		return nil, err
	}
	return loop, nil
}

func (p *Parser) parseDoWhile() (Node, error) {
	loop := &DoWhileNode{}
	loop.at(p.advance().Position)
	body, err := p.loopBody()
	if err != nil {
		return nil, err
	}
	loop.Body = body
	if !p.atKeyword("while") {
		return nil, p.expected("'while'")
	}
	p.advance()
	if loop.Cond, err = p.parenthesized(); err != nil {
		return nil, err
	}
	if p.atOperator(";") {
		p.advance()
	}
	return loop, nil
}

func (p *Parser) parseFor() (Node, error) {
	loop := &ForNode{}
	loop.at(p.advance().Position)
	if _, err := p.expectOperator("("); err != nil {
		return nil, err
	}

	// init: a variable definition or a comma separated expression list
	tok := p.current()
	switch t, isType := tok.TypeKeyword(); {
	case isType && t == Void:
		return nil, p.errorAt(tok.Position, "'void' cannot declare a variable")
	case isType:
		init, err := p.parseVarDef()
		if err != nil {
			return nil, err
		}
		loop.Init = init
	case tok.IsOperator(";"):
		p.advance()
	default:
		list, err := p.expressionList(";")
		if err != nil {
			return nil, err
		}
		seq := &SequenceNode{Statements: list, OwnScope: false}
		seq.at(tok.Position)
		loop.Init = seq
	}

	if !p.atOperator(";") {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		loop.Cond = cond
	}
	if _, err := p.expectOperator(";"); err != nil {
		return nil, err
	}

	if p.atOperator(")") {
		p.advance()
	} else {
		update, err := p.expressionList(")")
		if err != nil {
			return nil, err
		}
		loop.Update = update
	}

	body, err := p.loopBody()
	if err != nil {
		return nil, err
	}
	if block, ok := body.(*SequenceNode); ok {
		block.OwnScope = false
	}
	loop.Body = body
	return loop, nil
}

// expressionList reads expr {, expr} and consumes the closing operator.
func (p *Parser) expressionList(closing string) ([]Node, error) {
	var list []Node
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if p.atOperator(",") {
			p.advance()
			continue
		}
		if _, err := p.expectOperator(closing); err != nil {
			return nil, err
		}
		return list, nil
	}
}

func (p *Parser) parseIf() (Node, error) {
	cond := &IfNode{}
	cond.at(p.advance().Position)
	test, err := p.parenthesized()
	if err != nil {
		return nil, err
	}
	cond.Cond = test
	if cond.Then, err = p.parseStatement(false); err != nil {
		return nil, err
	}
	if p.atKeyword("else") {
		p.advance()
		if cond.Else, err = p.parseStatement(false); err != nil {
			return nil, err
		}
	}
	return cond, nil
}

func (p *Parser) parseSwitch() (Node, error) {
	sw := &SwitchNode{}
	sw.at(p.advance().Position)
	subject, err := p.parenthesized()
	if err != nil {
		return nil, err
	}
	sw.Subject = subject
	if _, err := p.expectOperator("{"); err != nil {
		return nil, err
	}

	p.breakable++
	defer func() { p.breakable-- }()

	hasDefault := false
	for !p.atOperator("}") {
		tok, ok := p.peek(0)
		if !ok {
			return nil, p.expected("'}'")
		}
		switch {
		case tok.IsKeyword("case"):
			p.advance()
			lit, ok := p.peek(0)
			if !ok || lit.Kind != TokenLiteral {
				return nil, p.expected("case literal")
			}
			p.advance()
			value := &LiteralNode{Token: lit}
			value.at(lit.Position)
			sw.Labels = append(sw.Labels, SwitchLabel{Value: value, Index: len(sw.Body), Position: tok.Position})
			if _, err := p.expectOperator(":"); err != nil {
				return nil, err
			}
		case tok.IsKeyword("default"):
			if hasDefault {
				return nil, p.errorAt(tok.Position, "switch has more than one default label")
			}
			hasDefault = true
			p.advance()
			sw.Labels = append(sw.Labels, SwitchLabel{Index: len(sw.Body), Position: tok.Position})
			if _, err := p.expectOperator(":"); err != nil {
				return nil, err
			}
		case len(sw.Labels) == 0:
			return nil, p.expected("'case' or 'default'")
		default:
			stmt, err := p.parseStatement(false)
			if err != nil {
				return nil, err
			}
			sw.Body = append(sw.Body, stmt)
		}
	}
	p.advance()
	return sw, nil
}

func (p *Parser) parseLoopControl(n Node) (Node, error) {
	tok := p.advance()
	switch c := n.(type) {
	case *BreakNode:
		c.at(tok.Position)
	case *ContinueNode:
		c.at(tok.Position)
	}
	if _, err := p.expectOperator(";"); err != nil {
		return nil, err
	}
	return n, nil
}

// parseReturn reads return [expr]; or exit [expr];
func (p *Parser) parseReturn() (Node, error) {
	tok := p.advance()
	var value Node
	if !p.atOperator(";") {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	if _, err := p.expectOperator(";"); err != nil {
		return nil, err
	}
	if tok.IsKeyword("exit") {
		n := &ExitNode{Value: value}
		n.at(tok.Position)
		return n, nil
	}
	n := &ReturnNode{Value: value}
	n.at(tok.Position)
	return n, nil
}

// parseVarDef reads type name [= expr] {, name [= expr]} ;
func (p *Parser) parseVarDef() (Node, error) {
	tok := p.advance()
	t, _ := tok.TypeKeyword()
	if t == Void {
		return nil, p.errorAt(tok.Position, "'void' cannot declare a variable")
	}
	def := &VarDefNode{Type: t}
	def.at(tok.Position)
	for {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		decl := VarDecl{Name: name.Text, Position: name.Position}
		if p.atOperator("=") {
			p.advance()
			if decl.Init, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		def.Vars = append(def.Vars, decl)
		if p.atOperator(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectOperator(";"); err != nil {
		return nil, err
	}
	return def, nil
}

// parseFunction reads type name ( params ) block and records the function.
func (p *Parser) parseFunction() error {
	typeTok := p.advance()
	ret, _ := typeTok.TypeKeyword()
	name := p.advance()
	p.advance() // (

	fn := &FunctionDef{Name: name.Text, ReturnType: ret}
	fn.at(name.Position)

	if !p.atOperator(")") {
		for {
			param, err := p.parseParam()
			if err != nil {
				return err
			}
			fn.Params = append(fn.Params, param)
			if p.atOperator(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectOperator(")"); err != nil {
		return err
	}

	loops, breakable := p.loops, p.breakable
	p.loops, p.breakable = 0, 0
	body, err := p.parseBlock()
	p.loops, p.breakable = loops, breakable
	if err != nil {
		return err
	}
	// parameters and body locals live in the same frame
	body.OwnScope = false
	fn.Body = body

	if _, exists := p.byName[fn.Name]; exists {
		p.duplicates = append(p.duplicates, fn)
		return nil
	}
	p.byName[fn.Name] = fn
	p.functions = append(p.functions, fn)
	return nil
}

func (p *Parser) parseParam() (Param, error) {
	tok, ok := p.peek(0)
	if !ok {
		return Param{}, p.expected("parameter type")
	}
	t, isType := tok.TypeKeyword()
	if !isType {
		return Param{}, p.expected("parameter type")
	}
	if t == Void {
		return Param{}, p.errorAt(tok.Position, "parameter cannot be of type 'void'")
	}
	p.advance()
	name, err := p.expectIdentifier()
	if err != nil {
		return Param{}, err
	}
	param := Param{Type: t, Name: name.Text, Position: name.Position}
	if p.atOperator("=") {
		p.advance()
		lit, ok := p.peek(0)
		if !ok || lit.Kind != TokenLiteral {
			return Param{}, p.expected("default value literal")
		}
		p.advance()
		param.Default = &LiteralNode{Token: lit}
		param.Default.at(lit.Position)
	}
	return param, nil
}
