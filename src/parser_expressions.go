package pawc

// binaryLevels lists binary operators from loosest to tightest binding.
// Each level is left associative.
var binaryLevels = [][]string{
	{"||"},
	{"^^"},
	{"&&"},
	{"!=", "=="},
	{"<", ">", "<=", ">="},
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"-", "+"},
	{"*", "/", "%"},
}

var unaryOps = map[string]Op{"!": OpNot, "~": OpInvert, "-": OpNeg, "+": OpPlus}

var assignmentOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// parseExpression reads a full expression.
func (p *Parser) parseExpression() (Node, error) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) (Node, error) {
	if level == len(binaryLevels) {
		return p.parseTernary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek(0)
		if !ok || tok.Kind != TokenOperator || !inLevel(binaryLevels[level], tok.Text) {
			return left, nil
		}
		p.advance()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		bin := &BinaryNode{Op: binaryOps[tok.Text], Left: left, Right: right}
		bin.at(tok.Position)
		left = bin
	}
}

func inLevel(level []string, op string) bool {
	for _, candidate := range level {
		if candidate == op {
			return true
		}
	}
	return false
}

// parseTernary reads (assignment | factor) [? expr : expr]. Both branches
// are full expressions.
func (p *Parser) parseTernary() (Node, error) {
	cond, err := p.parseAssignmentOrFactor()
	if err != nil {
		return nil, err
	}
	if !p.atOperator("?") {
		return cond, nil
	}
	q := p.advance()
	whenTrue, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOperator(":"); err != nil {
		return nil, err
	}
	whenFalse, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	n := &TernaryNode{Cond: cond, True: whenTrue, False: whenFalse}
	n.at(q.Position)
	return n, nil
}

// parseAssignmentOrFactor recognizes name = expr and the compound forms,
// which expand to name = name OP expr.
func (p *Parser) parseAssignmentOrFactor() (Node, error) {
	name, ok := p.peek(0)
	op, hasOp := p.peek(1)
	if !ok || !hasOp || name.Kind != TokenIdentifier || op.Kind != TokenOperator || !assignmentOps[op.Text] {
		return p.parseFactor()
	}
	p.advance()
	p.advance()
	rhs, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if op.Text != "=" {
		target := &IdentifierNode{Name: name.Text}
		target.at(name.Position)
		bin := &BinaryNode{Op: binaryOps[op.Text], Left: target, Right: rhs}
		bin.at(op.Position)
		rhs = bin
	}
	assign := &AssignmentNode{Name: name.Text, Value: rhs}
	assign.at(name.Position)
	return assign, nil
}

func (p *Parser) parseFactor() (Node, error) {
	tok, ok := p.peek(0)
	if !ok {
		return nil, p.unexpected()
	}

	switch {
	case tok.Kind == TokenLiteral:
		p.advance()
		lit := &LiteralNode{Token: tok}
		lit.at(tok.Position)
		return lit, nil

	case tok.IsOperator("++"), tok.IsOperator("--"):
		p.advance()
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		n := &IncDecNode{Name: name.Text, Increment: tok.Text == "++", Prefix: true}
		n.at(tok.Position)
		return n, nil

	case tok.IsOperator("("):
		return p.parseParenthesizedFactor()

	case tok.IsOperator("!"), tok.IsOperator("~"), tok.IsOperator("-"), tok.IsOperator("+"):
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		n := &UnaryNode{Op: unaryOps[tok.Text], Operand: operand}
		n.at(tok.Position)
		return n, nil

	case tok.Kind == TokenIdentifier:
		p.advance()
		next, _ := p.peek(0)
		switch {
		case next.IsOperator("++"), next.IsOperator("--"):
			p.advance()
			n := &IncDecNode{Name: tok.Text, Increment: next.Text == "++"}
			n.at(tok.Position)
			return n, nil
		case next.IsOperator("("):
			return p.parseCall(tok)
		}
		id := &IdentifierNode{Name: tok.Text}
		id.at(tok.Position)
		return id, nil
	}
	return nil, p.unexpected()
}

// parseParenthesizedFactor reads (type) factor or ( expression ).
func (p *Parser) parseParenthesizedFactor() (Node, error) {
	open := p.advance()
	typeTok, _ := p.peek(0)
	closing, _ := p.peek(1)
	if t, isType := typeTok.TypeKeyword(); isType && closing.IsOperator(")") {
		if t == Void {
			return nil, p.errorAt(typeTok.Position, "cannot cast to 'void'")
		}
		p.advance()
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		cast := &CastNode{Target: t, Operand: operand}
		cast.at(open.Position)
		return cast, nil
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

// parseCall reads the argument list after a function name. Empty slots
// between commas are kept as nil so the callee's default applies.
func (p *Parser) parseCall(name Token) (Node, error) {
	p.advance() // (
	call := &CallNode{Name: name.Text}
	call.at(name.Position)
	if !p.atOperator(")") {
		for {
			var arg Node
			if !p.atOperator(",") && !p.atOperator(")") {
				expr, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				arg = expr
			}
			call.Args = append(call.Args, arg)
			if p.atOperator(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectOperator(")"); err != nil {
		return nil, err
	}
	return call, nil
}
