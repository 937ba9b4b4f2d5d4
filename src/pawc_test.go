package pawc

import (
	"errors"
	"strings"
	"testing"
)

func TestStandardLibrary(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"argc", "exit argc();", "2"},
		{"argv", "exit argv(1) + argv(0);", "yx"},
		{"strlen", "exit strlen(\"héllo\");", "5"},
		{"strlen of null", "exit strlen(null);", "0"},
		{"typeof int", "exit typeof(1);", "int"},
		{"typeof decimal", "exit typeof(1.5m);", "decimal"},
		{"typeof widened", "long l = 1; exit typeof(l + 1);", "long"},
		{"assert passes", "assert(true, \"never\"); exit 1;", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, _, logs := newTestPawC(t, "x", "y")
			v, err := pc.Execute(tt.source)
			if err != nil {
				t.Fatalf("Execute failed: %v\n%s", err, logs.String())
			}
			if v.String() != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, v.String())
			}
		})
	}
}

func TestCompileErrorsBlockRunning(t *testing.T) {
	pc, out, logs := newTestPawC(t)
	_, err := pc.Execute(`println("side effect"); int x = true;`)
	if !errors.Is(err, ErrNotRunnable) {
		t.Fatalf("Expected ErrNotRunnable, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected nothing to run, got output %q", out.String())
	}
	if !strings.Contains(logs.String(), "NoImplicitConversion: Cannot implicitly convert from 'bool' to 'int'") {
		t.Errorf("Expected the diagnostic to be logged, got:\n%s", logs.String())
	}
}

func TestWarningsAsErrors(t *testing.T) {
	source := "exit 1; int a;"

	pc, _, _ := newTestPawC(t)
	if v, err := pc.Execute(source); err != nil || v.Int64() != 1 {
		t.Errorf("Expected warnings to be allowed by default, got %v %v", v, err)
	}

	pc, _, _ = newTestPawC(t)
	config := pc.GetConfig()
	config.WarningsAsErrors = true
	pc.Configure(config)
	_, err := pc.Execute(source)
	if !errors.Is(err, ErrNotRunnable) {
		t.Errorf("Expected ErrNotRunnable with warnings as errors, got %v", err)
	}
}

func TestParseErrorReporting(t *testing.T) {
	pc, _, logs := newTestPawC(t)
	_, err := pc.ExecuteFile("int a = 1;\nint b = ;\nint c;", "broken.pawc")

	var pe *PawCError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *PawCError, got %v", err)
	}
	if pe.Position.Filename != "broken.pawc" {
		t.Errorf("Expected filename 'broken.pawc', got '%s'", pe.Position.Filename)
	}
	if len(pe.Context) != 3 {
		t.Errorf("Expected the source lines as context, got %d", len(pe.Context))
	}

	logged := logs.String()
	for _, want := range []string{
		"[PawC:parse ERROR] Parse error: unexpected ';'",
		"at line 2, column 9 in broken.pawc",
		">   2 | int b = ;",
		"        ^",
	} {
		if !strings.Contains(logged, want) {
			t.Errorf("Expected log to contain %q, got:\n%s", want, logged)
		}
	}
}

func TestErrorContextDisabled(t *testing.T) {
	pc, _, logs := newTestPawC(t)
	pc.SetErrorContextEnabled(false)
	pc.Execute("exit nope;")
	if strings.Contains(logs.String(), "|") {
		t.Errorf("Expected no source context, got:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "UndefinedVariable") {
		t.Errorf("Expected the diagnostic, got:\n%s", logs.String())
	}
}

func TestHostFunctionsAndVariables(t *testing.T) {
	pc, _, logs := newTestPawC(t)
	err := pc.RegisterFunctions(map[string]HostFunction{
		"twice": {ReturnType: Long, Params: []Type{Long}, Fn: func(ctx *Context, args []Value) (Value, error) {
			return LongValue(args[0].Int64() * 2), nil
		}},
		"set_total": {ReturnType: Void, Params: []Type{Int}, Fn: func(ctx *Context, args []Value) (Value, error) {
			return Value{}, ctx.SetVariable("total", args[0])
		}},
		"where": {ReturnType: Int, Fn: func(ctx *Context, args []Value) (Value, error) {
			return IntValue(int32(ctx.Position.Line)), nil
		}},
		"answer": {ReturnType: Int, Fn: func(ctx *Context, args []Value) (Value, error) {
			return LongValue(42), nil
		}},
	})
	if err != nil {
		t.Fatalf("RegisterFunctions failed: %v", err)
	}
	if err := pc.DefineVariable("base", IntValue(100)); err != nil {
		t.Fatalf("DefineVariable failed: %v", err)
	}

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"argument widened", "exit twice(21);", "42"},
		{"host variable", "exit base + 1;", "101"},
		{"set variable", "long total = 0; set_total(7); exit total;", "7"},
		{"call position", "int a;\n\nexit where();", "3"},
		{"result converted", "exit typeof(answer());", "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := pc.Execute(tt.source)
			if err != nil {
				t.Fatalf("Execute failed: %v\n%s", err, logs.String())
			}
			if v.String() != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, v.String())
			}
		})
	}
}

func TestHostFunctionWithoutResult(t *testing.T) {
	pc, _, _ := newTestPawC(t)
	pc.RegisterFunction("broken", Int, nil, func(ctx *Context, args []Value) (Value, error) {
		return Value{}, nil
	})
	_, err := pc.Execute("exit broken();")
	var re *RuntimeError
	if !errors.As(err, &re) || re.Message != "broken returned no value" {
		t.Errorf("Expected 'broken returned no value', got %v", err)
	}
}

func TestConfigure(t *testing.T) {
	pc, _, _ := newTestPawC(t)
	pc.SetContextLines(50)
	if got := pc.GetConfig().ContextLines; got != 10 {
		t.Errorf("Expected context lines clamped to 10, got %d", got)
	}

	config := pc.GetConfig()
	config.Debug = true
	pc.Configure(config)
	if !pc.Logger().IsEnabled() || !pc.Logger().IsCategoryEnabled(CatType) {
		t.Error("Expected debug configuration to enable the logger and its categories")
	}
}

func TestDebugLogging(t *testing.T) {
	pc, _, logs := newTestPawC(t)
	logger := pc.Logger()
	logger.SetEnabled(true)
	logger.EnableCategory(CatCall)

	if _, err := pc.Execute("int f() { return 1; } exit f();"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(logs.String(), "[TRACE:call] call f with 0 argument(s)") {
		t.Errorf("Expected a call trace, got:\n%s", logs.String())
	}
	if strings.Contains(logs.String(), "[DEBUG:parse]") {
		t.Errorf("Expected disabled categories to stay quiet, got:\n%s", logs.String())
	}
}
