package pawc

import (
	"fmt"
)

// Parser builds an execution tree from a token stream by recursive descent.
// Any grammar violation stops parsing with a *PawCError; there is no error
// recovery and no partial tree.
type Parser struct {
	tokens   []Token
	pos      int
	filename string

	// loops counts enclosing loops, breakable counts loops and switches
	loops     int
	breakable int

	functions  []*FunctionDef
	duplicates []*FunctionDef
	byName     map[string]*FunctionDef
}

// NewParser creates a parser over tokens
func NewParser(tokens []Token, filename string) *Parser {
	return &Parser{
		tokens:   tokens,
		filename: filename,
		byName:   make(map[string]*FunctionDef),
	}
}

// Parse reads the whole script: the root statement sequence plus the
// function definitions found at its top level. Functions are returned in
// declaration order; redefinitions are returned separately so analysis can
// report them.
func (p *Parser) Parse() (root *SequenceNode, functions, duplicates []*FunctionDef, err error) {
	root = &SequenceNode{Root: true}
	if len(p.tokens) > 0 {
		root.at(p.tokens[0].Position)
	} else {
		root.at(SourcePosition{Line: 1, Column: 1, Filename: p.filename})
	}

	for !p.atEnd() {
		if p.atOperator("}") {
			return nil, nil, nil, p.unexpected()
		}
		stmt, err := p.parseStatement(true)
		if err != nil {
			return nil, nil, nil, err
		}
		if stmt != nil {
			root.Statements = append(root.Statements, stmt)
		}
	}
	return root, p.functions, p.duplicates, nil
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek(offset int) (Token, bool) {
	if p.pos+offset >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos+offset], true
}

func (p *Parser) current() Token {
	tok, _ := p.peek(0)
	return tok
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *Parser) atOperator(text string) bool {
	tok, ok := p.peek(0)
	return ok && tok.IsOperator(text)
}

func (p *Parser) atKeyword(text string) bool {
	tok, ok := p.peek(0)
	return ok && tok.IsKeyword(text)
}

// endPosition points just past the last token, for errors at end of input.
func (p *Parser) endPosition() SourcePosition {
	if len(p.tokens) == 0 {
		return SourcePosition{Line: 1, Column: 1, Length: 1, Filename: p.filename}
	}
	last := p.tokens[len(p.tokens)-1].Position
	last.Column += last.Length
	last.Length = 1
	last.OriginalText = ""
	return last
}

func (p *Parser) errorAt(pos SourcePosition, format string, args ...interface{}) error {
	if pos.Length == 0 {
		pos.Length = 1
	}
	return &PawCError{Message: fmt.Sprintf(format, args...), Position: &pos}
}

// unexpected reports the current token, or the end of the script.
func (p *Parser) unexpected() error {
	tok, ok := p.peek(0)
	if !ok {
		return p.errorAt(p.endPosition(), "unexpected end of script")
	}
	return p.errorAt(tok.Position, "unexpected '%s'", tok.Text)
}

// expected reports that what was required is missing at the current token.
func (p *Parser) expected(what string) error {
	tok, ok := p.peek(0)
	if !ok {
		return p.errorAt(p.endPosition(), "%s is expected but the script ended", what)
	}
	return p.errorAt(tok.Position, "%s is expected, found '%s'", what, tok.Text)
}

func (p *Parser) expectOperator(text string) (Token, error) {
	if !p.atOperator(text) {
		return Token{}, p.expected("'" + text + "'")
	}
	return p.advance(), nil
}

func (p *Parser) expectIdentifier() (Token, error) {
	tok, ok := p.peek(0)
	if !ok || tok.Kind != TokenIdentifier {
		return Token{}, p.expected("identifier")
	}
	return p.advance(), nil
}

// parseBlock reads { statements }. The block opens its own frame.
func (p *Parser) parseBlock() (*SequenceNode, error) {
	open, err := p.expectOperator("{")
	if err != nil {
		return nil, err
	}
	block := &SequenceNode{OwnScope: true}
	block.at(open.Position)
	for !p.atOperator("}") {
		if p.atEnd() {
			return nil, p.expected("'}'")
		}
		stmt, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.advance()
	return block, nil
}

// parseStatement dispatches on the leading token. Function definitions are
// only recognized at the script's top level.
func (p *Parser) parseStatement(topLevel bool) (Node, error) {
	tok := p.current()

	switch {
	case tok.IsOperator("{"):
		return p.parseBlock()
	case tok.IsOperator(";"):
		p.advance()
		nop := &NopNode{}
		nop.at(tok.Position)
		return nop, nil
	case tok.IsKeyword("do"):
		return p.parseDoWhile()
	case tok.IsKeyword("while"):
		return p.parseWhile()
	case tok.IsKeyword("for"):
		return p.parseFor()
	case tok.IsKeyword("if"):
		return p.parseIf()
	case tok.IsKeyword("switch"):
		return p.parseSwitch()
	case tok.IsKeyword("break") && p.breakable > 0:
		return p.parseLoopControl(&BreakNode{})
	case tok.IsKeyword("continue") && p.loops > 0:
		return p.parseLoopControl(&ContinueNode{})
	case tok.IsKeyword("return"), tok.IsKeyword("exit"):
		return p.parseReturn()
	}

	if _, isType := tok.TypeKeyword(); isType {
		if p.looksLikeFunction() {
			if !topLevel {
				return nil, p.errorAt(tok.Position, "functions can only be defined at the top level of a script")
			}
			return nil, p.parseFunction()
		}
		if tok.IsKeyword("void") {
			return nil, p.errorAt(tok.Position, "function definition is expected after 'void'")
		}
		return p.parseVarDef()
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOperator(";"); err != nil {
		return nil, err
	}
	return expr, nil
}

// looksLikeFunction tentatively matches "type name (" without consuming it.
func (p *Parser) looksLikeFunction() bool {
	name, ok := p.peek(1)
	if !ok || name.Kind != TokenIdentifier {
		return false
	}
	open, ok := p.peek(2)
	return ok && open.IsOperator("(")
}
