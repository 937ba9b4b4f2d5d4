package mathlib

import (
	"bytes"
	"testing"

	pawc "github.com/phroun/pawc/src"
)

func newInterpreter(t *testing.T, out *bytes.Buffer) *pawc.PawC {
	t.Helper()
	config := pawc.DefaultConfig()
	config.Output = out
	pc := pawc.New(config)
	pc.SetLogger(pawc.NewLoggerWithWriters(false, &bytes.Buffer{}, &bytes.Buffer{}))
	if err := pc.RegisterStandardLibrary(nil); err != nil {
		t.Fatalf("RegisterStandardLibrary failed: %v", err)
	}
	if err := Register(pc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return pc
}

func TestDoubleFunctions(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected float64
	}{
		{"sqrt", "exit sqrt(16);", 4},
		{"pow", "exit pow(2, 10);", 1024},
		{"abs", "exit abs(-2.5);", 2.5},
		{"floor", "exit floor(2.7);", 2},
		{"ceil", "exit ceil(2.1);", 3},
		{"min", "exit min(3, 7);", 3},
		{"max", "exit max(3, 7);", 7},
		{"exp of zero", "exit exp(0);", 1},
		{"nested", "exit sqrt(pow(3, 2) + pow(4, 2));", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := newInterpreter(t, &bytes.Buffer{})
			v, err := pc.Execute(tt.script)
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if v.Type() != pawc.Double {
				t.Fatalf("Expected a double result, got %v", v.Type())
			}
			if v.Float64() != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, v.Float64())
			}
		})
	}
}

func TestDomainErrors(t *testing.T) {
	for _, script := range []string{"sqrt(-1);", "log(0);"} {
		pc := newInterpreter(t, &bytes.Buffer{})
		if _, err := pc.Execute(script); err == nil {
			t.Errorf("Expected a runtime error for %q", script)
		}
	}
}

func TestDecimalFunctions(t *testing.T) {
	var out bytes.Buffer
	pc := newInterpreter(t, &out)
	script := `print(round(2.345m, 2)); print(" "); print(truncate(2.349m, 2));`
	if _, err := pc.Execute(script); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.String() != "2.35 2.34" {
		t.Errorf("Expected '2.35 2.34', got '%s'", out.String())
	}

	if _, err := pc.Execute("round(1m, 40);"); err == nil {
		t.Error("Expected an error for too many decimal places")
	}
}
