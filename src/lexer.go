package pawc

import (
	"fmt"
	"strconv"
	"strings"
)

// Lexer turns source text into tokens on demand. At each position it skips
// whitespace and comments, then tries a literal, an identifier or keyword,
// and finally an operator; the first form that matches wins.
type Lexer struct {
	src      []rune
	filename string
	pos      int
	line     int
	column   int
	// signOK is true where a leading + or - belongs to a numeric literal
	// rather than being a binary operator.
	signOK bool
}

// NewLexer creates a lexer over source
func NewLexer(source, filename string) *Lexer {
	l := &Lexer{src: []rune(source), filename: filename}
	l.Rewind()
	return l
}

// Rewind restarts the token stream from the beginning of the source.
func (l *Lexer) Rewind() {
	l.pos = 0
	l.line = 1
	l.column = 1
	l.signOK = true
}

// Tokenize lexes the whole source.
func Tokenize(source, filename string) ([]Token, error) {
	l := NewLexer(source, filename)
	var tokens []Token
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. ok is false at the end of input.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	if err := l.skipIgnored(); err != nil {
		return Token{}, false, err
	}
	if l.pos >= len(l.src) {
		return Token{}, false, nil
	}

	start := l.mark()
	if tok, ok, err = l.literal(); !ok && err == nil {
		if tok, ok, err = l.identifier(); !ok && err == nil {
			tok, ok, err = l.operator()
		}
	}
	if err != nil {
		return Token{}, false, err
	}
	if !ok {
		return Token{}, false, l.errorAt(start, fmt.Sprintf("unexpected character '%c'", l.src[l.pos]))
	}

	tok.Position = start
	tok.Position.Length = l.pos - start.Length
	tok.Position.OriginalText = string(l.src[start.Length:l.pos])
	l.signOK = !(tok.Kind == TokenIdentifier || tok.Kind == TokenLiteral ||
		tok.IsOperator(")") || tok.IsOperator("]") || tok.IsOperator("++") || tok.IsOperator("--"))
	return tok, true, nil
}

// mark records the current position. Length temporarily holds the rune
// offset so the token text can be sliced once the token ends.
func (l *Lexer) mark() SourcePosition {
	return SourcePosition{Line: l.line, Column: l.column, Length: l.pos, Filename: l.filename}
}

func (l *Lexer) errorAt(pos SourcePosition, message string) error {
	pos.Length = 1
	return &PawCError{Message: message, Position: &pos}
}

func (l *Lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	switch r {
	case '\n':
		l.line++
		l.column = 1
	case '\r':
	default:
		l.column++
	}
	return r
}

func (l *Lexer) skipIgnored() error {
	for l.pos < len(l.src) {
		switch r := l.peek(0); {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f' || r == '\v':
			l.advance()
		case r == '/' && l.peek(1) == '/':
			for l.pos < len(l.src) && l.peek(0) != '\n' {
				l.advance()
			}
		case r == '/' && l.peek(1) == '*':
			start := l.mark()
			l.advance()
			l.advance()
			for !(l.peek(0) == '*' && l.peek(1) == '/') {
				if l.pos >= len(l.src) {
					return l.errorAt(start, "unterminated block comment")
				}
				l.advance()
			}
			l.advance()
			l.advance()
		default:
			return nil
		}
	}
	return nil
}

func isDigit(r rune) bool    { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool { return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') }
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }

// word reports whether the source at the current position spells w as a
// whole word.
func (l *Lexer) word(w string) bool {
	for i, r := range w {
		if l.peek(i) != r {
			return false
		}
	}
	return !isIdentPart(l.peek(len(w)))
}

func (l *Lexer) skip(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) literal() (Token, bool, error) {
	tok := Token{Kind: TokenLiteral, Base: 10}
	r := l.peek(0)

	switch {
	case l.word("null"):
		l.skip(4)
		tok.Literal, tok.LitType, tok.Text = LitNull, String, "null"
		return tok, true, nil
	case l.word("true"), l.word("false"):
		tok.Literal, tok.LitType = LitBoolean, Bool
		tok.Text = "true"
		if r == 'f' {
			tok.Text = "false"
		}
		l.skip(len(tok.Text))
		return tok, true, nil
	case r == '\'':
		return l.charLiteral(tok)
	case r == '"':
		return l.stringLiteral(tok)
	case r == '@' && l.peek(1) == '"':
		return l.verbatimLiteral(tok)
	case isDigit(r),
		r == '.' && isDigit(l.peek(1)),
		l.signOK && (r == '-' || r == '+') && (isDigit(l.peek(1)) || l.peek(1) == '.' && isDigit(l.peek(2))):
		return l.numberLiteral(tok)
	}
	return Token{}, false, nil
}

// escape decodes the sequence after a backslash. \u takes up to four hex
// digits and \x up to two; any other character stands for itself.
func (l *Lexer) escape(out *strings.Builder) {
	r := l.advance()
	switch r {
	case '0':
		out.WriteRune(0)
	case 't':
		out.WriteRune('\t')
	case 'r':
		out.WriteRune('\r')
	case 'n':
		out.WriteRune('\n')
	case 'u', 'x':
		limit := 4
		if r == 'x' {
			limit = 2
		}
		var digits strings.Builder
		for digits.Len() < limit && isHexDigit(l.peek(0)) {
			digits.WriteRune(l.advance())
		}
		if digits.Len() == 0 {
			out.WriteRune(r)
			return
		}
		code, _ := strconv.ParseUint(digits.String(), 16, 32)
		out.WriteRune(rune(code))
	default:
		out.WriteRune(r)
	}
}

func (l *Lexer) charLiteral(tok Token) (Token, bool, error) {
	start := l.mark()
	l.advance()
	var text strings.Builder
	switch {
	case l.pos >= len(l.src), l.peek(0) == '\n':
		return Token{}, false, l.errorAt(start, "unterminated char literal")
	case l.peek(0) == '\\':
		l.advance()
		if l.pos >= len(l.src) {
			return Token{}, false, l.errorAt(start, "unterminated char literal")
		}
		l.escape(&text)
	default:
		text.WriteRune(l.advance())
	}
	if l.peek(0) != '\'' {
		return Token{}, false, l.errorAt(start, "char literal must hold exactly one character")
	}
	l.advance()
	tok.Literal, tok.LitType, tok.Text = LitChar, Char, text.String()
	return tok, true, nil
}

func (l *Lexer) stringLiteral(tok Token) (Token, bool, error) {
	start := l.mark()
	l.advance()
	var text strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, false, l.errorAt(start, "unterminated string literal")
		}
		r := l.peek(0)
		switch r {
		case '"':
			l.advance()
			tok.Literal, tok.LitType, tok.Text = LitString, String, text.String()
			return tok, true, nil
		case '\r', '\n':
			return Token{}, false, l.errorAt(start, "newline in string literal")
		case '\\':
			l.advance()
			if l.pos >= len(l.src) {
				return Token{}, false, l.errorAt(start, "unterminated string literal")
			}
			l.escape(&text)
		default:
			text.WriteRune(l.advance())
		}
	}
}

// verbatimLiteral reads @"..." where only a doubled quote is special.
func (l *Lexer) verbatimLiteral(tok Token) (Token, bool, error) {
	start := l.mark()
	l.skip(2)
	var text strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, false, l.errorAt(start, "unterminated verbatim string literal")
		}
		r := l.advance()
		if r == '"' {
			if l.peek(0) != '"' {
				break
			}
			l.advance()
		}
		text.WriteRune(r)
	}
	tok.Literal, tok.LitType, tok.Text = LitString, String, text.String()
	return tok, true, nil
}

func (l *Lexer) digits(accept func(rune) bool) string {
	var b strings.Builder
	for accept(l.peek(0)) {
		b.WriteRune(l.advance())
	}
	return b.String()
}

func (l *Lexer) numberLiteral(tok Token) (Token, bool, error) {
	start := l.mark()
	tok.Literal = LitNumber
	tok.LitType = Int

	sign := ""
	if r := l.peek(0); r == '-' || r == '+' {
		l.advance()
		if r == '-' {
			sign = "-"
		}
	}

	var text string
	isFloat := false
	switch first, second := l.peek(0), l.peek(1); {
	case first == '0' && (second == 'x' || second == 'X') && isHexDigit(l.peek(2)):
		l.skip(2)
		tok.Base = 16
		text = l.digits(isHexDigit)
	case first == '0' && (second == 'b' || second == 'B') && (l.peek(2) == '0' || l.peek(2) == '1'):
		l.skip(2)
		tok.Base = 2
		text = l.digits(func(r rune) bool { return r == '0' || r == '1' })
	default:
		text = l.digits(isDigit)
		if l.peek(0) == '.' && isDigit(l.peek(1)) {
			l.advance()
			text += "." + l.digits(isDigit)
			isFloat = true
		}
		// a leading zero means octal unless 8, 9 or a fraction says otherwise
		if len(text) > 1 && text[0] == '0' && !isFloat && !strings.ContainsAny(text, "89") {
			tok.Base = 8
			text = strings.TrimLeft(text[1:], "0")
			if text == "" {
				text = "0"
			}
		}
		if strings.HasPrefix(text, ".") {
			text = "0" + text
		}
	}
	if isFloat {
		tok.LitType = Double
	}

	suffix := l.digits(func(r rune) bool { return strings.ContainsRune("fFdDmMlLuU", r) })
	switch strings.ToLower(suffix) {
	case "":
	case "f":
		tok.LitType = Float
	case "d":
		tok.LitType = Double
	case "m":
		tok.LitType = Decimal
	case "l":
		tok.LitType = Long
	case "u":
		tok.LitType = UInt
	case "ul", "lu":
		tok.LitType = ULong
	default:
		return Token{}, false, l.errorAt(start, fmt.Sprintf("invalid numeric suffix '%s'", suffix))
	}
	if tok.Base != 10 && tok.LitType.Is(AnyFloat) {
		return Token{}, false, l.errorAt(start, fmt.Sprintf("suffix '%s' is not allowed on a base %d literal", suffix, tok.Base))
	}
	if isFloat && tok.LitType.Is(AnyInteger) {
		return Token{}, false, l.errorAt(start, fmt.Sprintf("suffix '%s' is not allowed on a fractional literal", suffix))
	}
	if isIdentPart(l.peek(0)) {
		return Token{}, false, l.errorAt(start, "invalid numeric literal")
	}

	tok.Text = sign + text
	return tok, true, nil
}

func (l *Lexer) identifier() (Token, bool, error) {
	forced := false
	if l.peek(0) == '@' && isIdentStart(l.peek(1)) {
		l.advance()
		forced = true
	}
	if !isIdentStart(l.peek(0)) {
		return Token{}, false, nil
	}
	name := l.digits(isIdentPart)
	if !forced && keywords[name] {
		return Token{Kind: TokenKeyword, Text: name}, true, nil
	}
	return Token{Kind: TokenIdentifier, Text: name}, true, nil
}

// operators lists every operator, longest first so the first prefix match
// is the longest match.
var operators = []string{
	"<<=", ">>=",
	"++", "--", "??", "<<", ">>", "&&", "||", "^^",
	"!=", "*=", "/=", "%=", "==", "<=", ">=", "+=", "-=", "&=", "|=", "^=",
	"~", ":", ";", ",", ".", "(", ")", "[", "]", "{", "}",
	"!", "*", "/", "%", "=", "<", ">", "+", "-", "&", "|", "^", "?",
}

func (l *Lexer) operator() (Token, bool, error) {
	for _, op := range operators {
		if l.hasPrefix(op) {
			l.skip(len(op))
			return Token{Kind: TokenOperator, Text: op}, true, nil
		}
	}
	return Token{}, false, nil
}

func (l *Lexer) hasPrefix(s string) bool {
	i := 0
	for _, r := range s {
		if l.peek(i) != r {
			return false
		}
		i++
	}
	return true
}
