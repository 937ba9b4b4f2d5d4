package pawc

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

// newTestPawC returns an interpreter with the standard library whose
// script output and log output are captured.
func newTestPawC(t *testing.T, args ...string) (*PawC, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	config := DefaultConfig()
	config.Output = out
	pc := New(config)
	pc.SetLogger(NewLoggerWithWriters(false, logs, logs))
	if err := pc.RegisterStandardLibrary(args); err != nil {
		t.Fatalf("RegisterStandardLibrary failed: %v", err)
	}
	return pc, out, logs
}

func TestExitValues(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		typ      Type
		expected string
	}{
		{"compound assignment", "int a = 1; a += 2; exit a;", Int, "3"},
		{"default parameter", "int f(int a, int b=2){ return a+b; } exit f(5);", Int, "7"},
		{"blank argument", "int f(int a = 1, int b = 2) { return a * 10 + b; } exit f(, 5);", Int, "15"},
		{"recursion", "int fact(int n) { if (n <= 1) return 1; return n * fact(n - 1); } exit fact(10);", Int, "3628800"},
		{"trailing expression", "int a = 6; a * 7;", Int, "42"},
		{"root return", "return 5; exit 6;", Int, "5"},
		{"ternary", "int a = 5; exit (a > 3) ? 1 : 2;", Int, "1"},
		{"widening", "long big = 2147483647; big = big + 1; exit big;", Long, "2147483648"},
		{"int wraps", "int m = 2147483647; m++; exit m;", Int, "-2147483648"},
		{"cast truncates", "exit (int)3.99;", Int, "3"},
		{"cast wraps", "exit (byte)300;", Byte, "44"},
		{"string concat", "string s = \"n=\" + 4 + true; exit s;", String, "n=4true"},
		{"decimal", "decimal d = 0.1m + 0.2m; exit d;", Decimal, "0.3"},
		{"prefix and postfix", "int i = 1; int a = i++; int b = ++i; exit a * 10 + b;", Int, "13"},
		{"char arithmetic", "char c = 'a'; exit c + 1;", Int, "98"},
		{"hex literal", "exit 0xFF & 0x0F;", Int, "15"},
		{"null concatenates empty", "string s; exit s + \"x\";", String, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, _, logs := newTestPawC(t)
			v, err := pc.Execute(tt.source)
			if err != nil {
				t.Fatalf("Execute failed: %v\n%s", err, logs.String())
			}
			if v.Type() != tt.typ {
				t.Errorf("Expected type %s, got %s", tt.typ, v.Type())
			}
			if v.String() != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, v.String())
			}
		})
	}
}

func TestNoExitValue(t *testing.T) {
	sources := []string{
		"while(true){ break; }",
		"int a = 1;",
		"exit;",
		"",
	}
	for _, source := range sources {
		pc, _, _ := newTestPawC(t)
		v, err := pc.Execute(source)
		if err != nil {
			t.Errorf("Execute(%q) failed: %v", source, err)
			continue
		}
		if v.IsValid() {
			t.Errorf("Expected no exit value for %q, got %s", source, v)
		}
	}
}

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected int64
	}{
		{"switch falls through", "int n = 1; int r = 0; switch (n) { case 1: r += 1; case 2: r += 10; break; case 3: r += 100; } exit r;", 11},
		{"switch default in the middle", "int n = 9; int r = 0; switch (n) { case 1: r = 1; default: r += 5; case 2: r += 10; } exit r;", 15},
		{"switch without match", "int n = 4; int r = 0; switch (n) { case 1: r = 1; } exit r;", 0},
		{"switch on char", "char c = 'b'; int r = 0; switch (c) { case 'a': r = 1; break; case 'b': r = 2; break; } exit r;", 2},
		{"switch skips a declaration", "int x = 2; switch (x) { case 1: int y = 1; case 2: y = 5; exit y; } exit 0;", 5},
		{"skipped declaration is zero", "int x = 2; switch (x) { case 1: int y = 7; case 2: y++; exit y; } exit 0;", 1},
		{"switch declarations stay local", "int y = 3; int x = 2; switch (x) { case 1: int y = 1; case 2: y = 9; } exit y;", 3},
		{"continue", "int s = 0; for (int i = 0; i < 10; i++) { if (i % 2 == 0) continue; s += i; } exit s;", 25},
		{"continue in while", "int i = 0; int s = 0; while (i < 5) { i++; if (i == 3) continue; s += i; } exit s;", 12},
		{"break inner loop only", "int c = 0; for (int i = 0; i < 3; i++) { for (int j = 0; j < 3; j++) { if (j == 1) break; c++; } } exit c;", 3},
		{"do while runs once", "int n = 0; do n++; while (false); exit n;", 1},
		{"break inside switch inside loop", "int c = 0; for (int i = 0; i < 4; i++) { switch (i) { case 2: break; default: c++; } } exit c;", 3},
		{"exit from function", "void f() { exit 42; } f(); exit 0;", 42},
		{"exit from nested call", "int g() { exit 9; } int f() { return g() + 1; } exit f();", 9},
		{"short circuit and", "int n = 0; bool b = false && (n++ > 0); exit n;", 0},
		{"short circuit or", "int n = 0; bool b = true || (n++ > 0); exit n;", 0},
		{"falling off returns zero", "int f() { int x = 1; if (x > 5) return 1; } exit f();", 0},
		{"function sees globals", "int counter = 0; void bump() { counter++; } bump(); bump(); exit counter;", 2},
		{"function frame hides caller locals", "int x = 1; int f() { return x; } { int x = 2; exit f(); }", 1},
		{"block shadowing", "int x = 1; { int x = 2; x = 3; } exit x;", 1},
		{"loop variable per run", "int s = 0; for (int i = 0; i < 2; i++) { int t = 0; t++; s += t; } exit s;", 2},
		{"arguments left to right", "int log = 0; int f(int v) { log = log * 10 + v; return v; } int g(int a, int b) { return a; } g(f(1), f(2)); exit log;", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, _, logs := newTestPawC(t)
			v, err := pc.Execute(tt.source)
			if err != nil {
				t.Fatalf("Execute failed: %v\n%s", err, logs.String())
			}
			if v.Int64() != tt.expected {
				t.Errorf("Expected %d, got %s", tt.expected, v)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
		line    int
		column  int
	}{
		{"division by zero", "int z = 0;\nexit 10 / z;", "division by zero", 2, 9},
		{"modulo by zero", "long z = 0; exit 1 % z;", "division by zero", 1, 20},
		{"argv out of range", "exit argv(3);", "argv: argument index 3 out of range (0 arguments)", 1, 6},
		{"assert", "assert(1 > 2, \"boom\");", "assert: assertion failed: boom", 1, 1},
		{"bad parse", "string s = \"abc\"; exit (int)s;", "cannot convert string \"abc\" to int", 1, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, _, logs := newTestPawC(t)
			_, err := pc.Execute(tt.source)
			var re *RuntimeError
			if !errors.As(err, &re) {
				t.Fatalf("Expected *RuntimeError, got %v", err)
			}
			if re.Message != tt.message {
				t.Errorf("Expected message '%s', got '%s'", tt.message, re.Message)
			}
			if re.Position.Line != tt.line || re.Position.Column != tt.column {
				t.Errorf("Expected position %d:%d, got %d:%d", tt.line, tt.column, re.Position.Line, re.Position.Column)
			}
			if !strings.Contains(logs.String(), "Runtime error: "+tt.message) {
				t.Errorf("Expected the error to be logged, got:\n%s", logs.String())
			}
		})
	}
}

func TestDivideByZeroUnwraps(t *testing.T) {
	pc, _, _ := newTestPawC(t)
	_, err := pc.Execute("int z = 0; exit 1 / z;")
	if !errors.Is(err, ErrDivideByZero) {
		t.Errorf("Expected errors.Is(err, ErrDivideByZero), got %v", err)
	}
}

func TestCallStackOverflow(t *testing.T) {
	pc, _, _ := newTestPawC(t)
	_, err := pc.Execute("int f(int n) { return f(n + 1); } exit f(0);")
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("Expected *RuntimeError, got %v", err)
	}
	if !strings.Contains(re.Message, "call stack overflow in 'f'") {
		t.Errorf("Expected a stack overflow message, got '%s'", re.Message)
	}
}

func TestPrintOutput(t *testing.T) {
	pc, out, _ := newTestPawC(t)
	_, err := pc.Execute(`print("a"); println(1 + 2); print('c'); println(null); println(1.5);`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	expected := "a3\ncnull\n1.5\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestSharedScriptConcurrentRuns(t *testing.T) {
	script, diags, err := Compile("long s = 0; for (int i = 1; i <= 100; i++) s += i; exit s;", "", nil, nil)
	if err != nil || diags.HasErrors() {
		t.Fatalf("Compile failed: %v %v", err, diags)
	}

	var wg sync.WaitGroup
	results := make([]Value, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = script.Run(script.NewContext())
		}(i)
	}
	wg.Wait()

	for i, v := range results {
		if errs[i] != nil {
			t.Errorf("Run %d failed: %v", i, errs[i])
			continue
		}
		if v.Int64() != 5050 {
			t.Errorf("Run %d: expected 5050, got %s", i, v)
		}
	}
}

func TestRunResetsContext(t *testing.T) {
	pc, _, _ := newTestPawC(t)
	pc.DefineVariable("limit", IntValue(5))
	script, diags, err := pc.Compile("limit = limit * 2; exit limit;")
	if err != nil || diags.HasErrors() {
		t.Fatalf("Compile failed: %v %v", err, diags)
	}

	ctx := pc.NewContext()
	for run := 1; run <= 2; run++ {
		v, err := script.Run(ctx)
		if err != nil {
			t.Fatalf("Run %d failed: %v", run, err)
		}
		if v.Int64() != 10 {
			t.Errorf("Run %d: expected 10, got %s", run, v)
		}
	}
}

func TestUnresolvedCallIsInternal(t *testing.T) {
	call := &CallNode{Name: "ghost"}
	call.at(SourcePosition{Line: 3, Column: 4})
	ctx := NewContext(nil, nil)
	_, err := NewExecutor(ctx, ctx.Logger()).Execute(call)
	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected *InternalError, got %v", err)
	}
	if ie.Position.Line != 3 {
		t.Errorf("Expected line 3, got %d", ie.Position.Line)
	}
}
