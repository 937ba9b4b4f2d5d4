package pawc

import (
	"strings"
	"testing"
)

func TestScopeShadowing(t *testing.T) {
	s := NewScopeStack[int]()
	s.Add("x", 1)

	s.Push(BlockFrame)
	if !s.Add("x", 2) {
		t.Fatal("Expected an inner frame to shadow x")
	}
	if v, _ := s.Get("x"); v != 2 {
		t.Errorf("Expected inner x = 2, got %d", v)
	}
	if s.Add("x", 3) {
		t.Error("Expected a second x in the same frame to be rejected")
	}
	s.Pop()

	if v, _ := s.Get("x"); v != 1 {
		t.Errorf("Expected outer x = 1 after pop, got %d", v)
	}
}

func TestScopeFunctionBoundary(t *testing.T) {
	s := NewScopeStack[string]()
	s.Add("global", "g")

	s.Push(BlockFrame)
	s.Add("local", "l")

	s.Push(FunctionFrame)
	s.Add("param", "p")

	if _, ok := s.Get("local"); ok {
		t.Error("Expected the caller's locals to be hidden inside a function frame")
	}
	if v, ok := s.Get("global"); !ok || v != "g" {
		t.Errorf("Expected globals to stay visible, got '%s' %v", v, ok)
	}
	if s.Set("local", "changed") {
		t.Error("Expected Set to fail for a hidden name")
	}

	s.Push(BlockFrame)
	if v, ok := s.Get("param"); !ok || v != "p" {
		t.Errorf("Expected the parameter from an inner block, got '%s' %v", v, ok)
	}
	s.Pop()
	s.Pop()

	if v, _ := s.Get("local"); v != "l" {
		t.Errorf("Expected local to be unchanged, got '%s'", v)
	}
}

func TestScopeGlobalFrameSurvivesPop(t *testing.T) {
	s := NewScopeStack[int]()
	s.Add("a", 1)
	s.Pop()
	s.Pop()

	if s.Depth() != 1 {
		t.Errorf("Expected depth 1, got %d", s.Depth())
	}
	if _, ok := s.Get("a"); !ok {
		t.Error("Expected the global frame to outlive Pop")
	}

	s.Reset()
	if _, ok := s.Get("a"); ok {
		t.Error("Expected Reset to clear globals")
	}
}

func TestScopeDeclareAndSet(t *testing.T) {
	s := NewScopeStack[int]()
	s.Declare("n", 1)
	s.Declare("n", 2)
	if v, _ := s.Get("n"); v != 2 {
		t.Errorf("Expected Declare to replace, got %d", v)
	}

	s.Push(BlockFrame)
	if !s.Set("n", 5) {
		t.Fatal("Expected Set to reach the global frame")
	}
	s.Pop()
	if v, _ := s.Get("n"); v != 5 {
		t.Errorf("Expected 5, got %d", v)
	}
	if s.Set("missing", 1) {
		t.Error("Expected Set of an undeclared name to fail")
	}
}

func TestScopeGlobalsOrder(t *testing.T) {
	s := NewScopeStack[int]()
	for i, name := range []string{"c", "a", "b"} {
		s.Add(name, i)
	}
	s.Push(BlockFrame)
	s.Add("inner", 9)

	names, entries := s.Globals()
	if strings.Join(names, ",") != "c,a,b" {
		t.Errorf("Expected declaration order c,a,b, got %v", names)
	}
	if _, ok := entries["inner"]; ok {
		t.Error("Expected block locals to be excluded from globals")
	}
	if entries["b"] != 2 {
		t.Errorf("Expected b = 2, got %d", entries["b"])
	}
}
