package pawc

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func parseScript(t *testing.T, source string) (*SequenceNode, []*FunctionDef, []*FunctionDef) {
	t.Helper()
	tokens, err := Tokenize(source, "")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	root, functions, duplicates, err := NewParser(tokens, "").Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return root, functions, duplicates
}

func parseError(t *testing.T, source string) *PawCError {
	t.Helper()
	tokens, err := Tokenize(source, "")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	_, _, _, err = NewParser(tokens, "").Parse()
	if err == nil {
		t.Fatalf("Expected a parse error for %q", source)
	}
	var pe *PawCError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *PawCError, got %T", err)
	}
	return pe
}

func TestParseVarDef(t *testing.T) {
	root, _, _ := parseScript(t, "int a = 1, b, c = a;")
	if len(root.Statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(root.Statements))
	}
	def, ok := root.Statements[0].(*VarDefNode)
	if !ok {
		t.Fatalf("Expected *VarDefNode, got %T", root.Statements[0])
	}
	if def.Type != Int || len(def.Vars) != 3 {
		t.Fatalf("Expected 3 int variables, got %s with %d", def.Type, len(def.Vars))
	}
	if def.Vars[1].Name != "b" || def.Vars[1].Init != nil {
		t.Errorf("Expected b without initializer, got %+v", def.Vars[1])
	}
	if id, ok := def.Vars[2].Init.(*IdentifierNode); !ok || id.Name != "a" {
		t.Errorf("Expected c to be initialized from a, got %T", def.Vars[2].Init)
	}
}

func TestParsePrecedence(t *testing.T) {
	root, _, _ := parseScript(t, "x = 1 + 2 * 3 == 7 || y;")
	assign, ok := root.Statements[0].(*AssignmentNode)
	if !ok {
		t.Fatalf("Expected *AssignmentNode, got %T", root.Statements[0])
	}
	or, ok := assign.Value.(*BinaryNode)
	if !ok || or.Op != OpOr {
		t.Fatalf("Expected || at the top, got %T", assign.Value)
	}
	eq, ok := or.Left.(*BinaryNode)
	if !ok || eq.Op != OpEq {
		t.Fatalf("Expected == under ||, got %T", or.Left)
	}
	sum, ok := eq.Left.(*BinaryNode)
	if !ok || sum.Op != OpAdd {
		t.Fatalf("Expected + under ==, got %T", eq.Left)
	}
	if mul, ok := sum.Right.(*BinaryNode); !ok || mul.Op != OpMul {
		t.Errorf("Expected * to bind tighter than +, got %T", sum.Right)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	root, _, _ := parseScript(t, "10 - 4 - 3;")
	outer := root.Statements[0].(*BinaryNode)
	inner, ok := outer.Left.(*BinaryNode)
	if !ok || inner.Op != OpSub {
		t.Fatalf("Expected (10 - 4) - 3, got %T on the left", outer.Left)
	}
	if lit := outer.Right.(*LiteralNode); lit.Token.Text != "3" {
		t.Errorf("Expected 3 on the right, got %s", lit.Token.Text)
	}
}

func TestParseCompoundAssignment(t *testing.T) {
	root, _, _ := parseScript(t, "a <<= 2;")
	assign := root.Statements[0].(*AssignmentNode)
	bin, ok := assign.Value.(*BinaryNode)
	if !ok || bin.Op != OpShl {
		t.Fatalf("Expected a <<= 2 to expand to a = a << 2, got %T", assign.Value)
	}
	if id := bin.Left.(*IdentifierNode); id.Name != "a" {
		t.Errorf("Expected a on the left, got %s", id.Name)
	}
}

func TestParseCastAndIncrement(t *testing.T) {
	root, _, _ := parseScript(t, "(long)x; ++i; j--; (x);")
	if cast, ok := root.Statements[0].(*CastNode); !ok || cast.Target != Long || cast.Implicit {
		t.Errorf("Expected an explicit cast to long, got %T", root.Statements[0])
	}
	if inc, ok := root.Statements[1].(*IncDecNode); !ok || !inc.Increment || !inc.Prefix {
		t.Errorf("Expected prefix increment, got %T", root.Statements[1])
	}
	if dec, ok := root.Statements[2].(*IncDecNode); !ok || dec.Increment || dec.Prefix {
		t.Errorf("Expected postfix decrement, got %T", root.Statements[2])
	}
	if _, ok := root.Statements[3].(*IdentifierNode); !ok {
		t.Errorf("Expected a parenthesized identifier, got %T", root.Statements[3])
	}
}

func TestParseCallBlankArguments(t *testing.T) {
	root, _, _ := parseScript(t, "f(1, , 3); g();")
	call := root.Statements[0].(*CallNode)
	if len(call.Args) != 3 {
		t.Fatalf("Expected 3 argument slots, got %d", len(call.Args))
	}
	if call.Args[1] != nil {
		t.Errorf("Expected a blank second argument, got %T", call.Args[1])
	}
	if g := root.Statements[1].(*CallNode); len(g.Args) != 0 {
		t.Errorf("Expected no arguments, got %d", len(g.Args))
	}
}

func TestParseFor(t *testing.T) {
	root, _, _ := parseScript(t, "for (int i = 0; i < 3; i++, j--) { x; }")
	loop, ok := root.Statements[0].(*ForNode)
	if !ok {
		t.Fatalf("Expected *ForNode, got %T", root.Statements[0])
	}
	if _, ok := loop.Init.(*VarDefNode); !ok {
		t.Errorf("Expected a variable definition as init, got %T", loop.Init)
	}
	if len(loop.Update) != 2 {
		t.Errorf("Expected 2 update expressions, got %d", len(loop.Update))
	}
	body, ok := loop.Body.(*SequenceNode)
	if !ok || body.OwnScope {
		t.Errorf("Expected the body block to share the loop frame, got %T", loop.Body)
	}

	root, _, _ = parseScript(t, "for (;;) ;")
	empty := root.Statements[0].(*ForNode)
	if empty.Init != nil || empty.Cond != nil || empty.Update != nil || empty.Body != nil {
		t.Errorf("Expected every clause to be empty, got %+v", empty)
	}
}

func TestParseSwitchLabels(t *testing.T) {
	source := `switch (n) {
case 1:
case 2:
    a;
    break;
default:
    b;
}`
	root, _, _ := parseScript(t, source)
	sw := root.Statements[0].(*SwitchNode)
	if len(sw.Labels) != 3 {
		t.Fatalf("Expected 3 labels, got %d", len(sw.Labels))
	}
	indexes := []int{sw.Labels[0].Index, sw.Labels[1].Index, sw.Labels[2].Index}
	if indexes[0] != 0 || indexes[1] != 0 || indexes[2] != 2 {
		t.Errorf("Expected label indexes 0 0 2, got %v", indexes)
	}
	if sw.Labels[2].Value != nil {
		t.Error("Expected the last label to be default")
	}
	if len(sw.Body) != 3 {
		t.Errorf("Expected 3 body statements, got %d", len(sw.Body))
	}
}

func TestParseFunctions(t *testing.T) {
	source := `int add(int a, int b = 2) { return a + b; }
void hello() { }
int add(int x) { return x; }
add(1);`
	root, functions, duplicates := parseScript(t, source)

	if len(root.Statements) != 1 {
		t.Errorf("Expected function definitions to stay out of the root body, got %d statements", len(root.Statements))
	}
	if len(functions) != 2 || functions[0].Name != "add" || functions[1].Name != "hello" {
		t.Fatalf("Expected add and hello in order, got %d functions", len(functions))
	}
	if len(duplicates) != 1 || duplicates[0].Name != "add" {
		t.Errorf("Expected the second add as a duplicate, got %d", len(duplicates))
	}

	add := functions[0]
	if add.ReturnType != Int || len(add.Params) != 2 {
		t.Fatalf("Expected int add with 2 parameters, got %s with %d", add.ReturnType, len(add.Params))
	}
	if add.Params[0].Default != nil {
		t.Error("Expected a to have no default")
	}
	if add.Params[1].Default == nil || add.Params[1].Default.Token.Text != "2" {
		t.Error("Expected b to default to 2")
	}
	if add.Body.OwnScope {
		t.Error("Expected the body to share the parameter frame")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"break outside loop", "break;", "unexpected 'break'"},
		{"continue in switch", "switch (x) { case 1: continue; }", "unexpected 'continue'"},
		{"nested function", "{ int f() { return 1; } }", "functions can only be defined at the top level"},
		{"function in loop body", "while (true) { int f() { return 1; } }", "functions can only be defined at the top level"},
		{"missing semicolon", "int a = 1", "';' is expected but the script ended"},
		{"unexpected end", "a = ", "unexpected end of script"},
		{"stray brace", "}", "unexpected '}'"},
		{"unclosed block", "{ a;", "'}' is expected but the script ended"},
		{"void variable", "void x;", "function definition is expected after 'void'"},
		{"void parameter", "int f(void v) { return 1; }", "parameter cannot be of type 'void'"},
		{"void cast", "(void)x;", "cannot cast to 'void'"},
		{"non-literal default", "int f(int a = b) { return a; }", "default value literal is expected"},
		{"two defaults", "switch (x) { default: a; default: b; }", "switch has more than one default label"},
		{"statement before label", "switch (x) { a; }", "'case' or 'default' is expected"},
		{"non-literal case", "switch (x) { case y: a; }", "case literal is expected"},
		{"do without while", "do { a; } b;", "'while' is expected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := parseError(t, tt.source)
			if !strings.Contains(pe.Message, tt.message) {
				t.Errorf("Expected message containing '%s', got '%s'", tt.message, pe.Message)
			}
			if pe.Position == nil || pe.Position.Line < 1 {
				t.Errorf("Expected a position, got %v", pe.Position)
			}
		})
	}
}

func TestParseBreakInsideLoops(t *testing.T) {
	root, _, _ := parseScript(t, "while (true) { if (x) break; continue; } switch (y) { case 1: break; }")
	if len(root.Statements) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(root.Statements))
	}
}

func TestParseErrorPosition(t *testing.T) {
	pe := parseError(t, "int a = 1;\nint b = ;")
	if pe.Position.Line != 2 || pe.Position.Column != 9 {
		t.Errorf("Expected error at 2:9, got %d:%d", pe.Position.Line, pe.Position.Column)
	}
}

func TestDumpTree(t *testing.T) {
	root, _, _ := parseScript(t, "int a = 1 + 2;")
	var buf bytes.Buffer
	if err := DumpTree(&buf, root); err != nil {
		t.Fatalf("DumpTree failed: %v", err)
	}
	expected := "Script [1:1]\n  VarDef int a [1:1]\n    Binary + [1:11]\n      Literal int 1 [1:9]\n      Literal int 2 [1:13]\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, buf.String())
	}
}
