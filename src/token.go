package pawc

import "fmt"

// TokenKind classifies a lexed token
type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenLiteral
	TokenKeyword
	TokenOperator
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdentifier:
		return "identifier"
	case TokenLiteral:
		return "literal"
	case TokenKeyword:
		return "keyword"
	case TokenOperator:
		return "operator"
	}
	return "token"
}

// LiteralKind is the lexical form of a literal, used before its value type
// is settled by analysis.
type LiteralKind int

const (
	LitNone LiteralKind = iota
	LitNull
	LitBoolean
	LitChar
	LitString
	LitNumber
)

// Token is one lexical unit. Literal tokens carry their decoded text (escape
// sequences resolved, numeric prefix and suffix stripped), the number base,
// and the type implied by their shape and suffix.
type Token struct {
	Kind     TokenKind
	Text     string
	Literal  LiteralKind
	Base     int
	LitType  Type
	Position SourcePosition
}

// IsOperator reports whether the token is the operator text.
func (t Token) IsOperator(text string) bool {
	return t.Kind == TokenOperator && t.Text == text
}

// IsKeyword reports whether the token is the keyword text.
func (t Token) IsKeyword(text string) bool {
	return t.Kind == TokenKeyword && t.Text == text
}

// TypeKeyword returns the kind named by a type keyword token.
func (t Token) TypeKeyword() (Type, bool) {
	if t.Kind != TokenKeyword {
		return Undefined, false
	}
	return TypeFromKeyword(t.Text)
}

func (t Token) String() string {
	switch {
	case t.Kind == TokenLiteral && t.Literal == LitString:
		return fmt.Sprintf("%s %q", t.LitType, t.Text)
	case t.Kind == TokenLiteral && t.Literal == LitChar:
		return fmt.Sprintf("char '%s'", t.Text)
	case t.Kind == TokenLiteral && t.Literal == LitNumber && t.Base != 10:
		return fmt.Sprintf("%s %s (base %d)", t.LitType, t.Text, t.Base)
	case t.Kind == TokenLiteral:
		return fmt.Sprintf("%s %s", t.LitType, t.Text)
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Text)
}

var keywords = map[string]bool{
	"do": true, "while": true, "for": true,
	"void": true, "bool": true, "char": true, "byte": true, "sbyte": true,
	"short": true, "ushort": true, "int": true, "uint": true,
	"long": true, "ulong": true, "float": true, "double": true,
	"decimal": true, "string": true,
	"continue": true, "break": true, "return": true, "exit": true,
	"if": true, "else": true, "switch": true, "case": true, "default": true,
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	return keywords[word]
}
