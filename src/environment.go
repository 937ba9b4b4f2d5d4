package pawc

import (
	"fmt"
	"sort"
	"sync"
)

// HostFunc is the native entry point of a host function. args holds one
// value per declared parameter, already converted to the parameter type
// (or passed through unchanged for AnyValue parameters). The returned value
// is converted to the declared return type; it is ignored for Void.
type HostFunc func(ctx *Context, args []Value) (Value, error)

// HostFunction is a host function together with its signature
type HostFunction struct {
	Name       string
	ReturnType Type
	Params     []Type
	Fn         HostFunc
}

// hostVariable is a global the host exposes to every script
type hostVariable struct {
	name  string
	value Value
}

// Environment holds what the host makes available to scripts: native
// functions and exposed variables. It is read during compile and run and
// may be shared by many scripts.
type Environment struct {
	mu        sync.RWMutex
	functions map[string]*HostFunction
	variables []hostVariable
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{functions: make(map[string]*HostFunction)}
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	for i, r := range name {
		if !(isIdentStart(r) || i > 0 && isDigit(r)) {
			return fmt.Errorf("%q is not a valid identifier", name)
		}
	}
	if keywords[name] {
		return fmt.Errorf("%q is a reserved keyword", name)
	}
	return nil
}

// RegisterFunction adds a host function. The return type must be Void or a
// single primitive kind, and each parameter a primitive kind or AnyValue.
func (e *Environment) RegisterFunction(name string, ret Type, params []Type, fn HostFunc) error {
	if err := validName(name); err != nil {
		return fmt.Errorf("register function: %w", err)
	}
	if fn == nil {
		return fmt.Errorf("register function %s: nil entry point", name)
	}
	if ret != Void && !ret.IsPrimitive() {
		return fmt.Errorf("register function %s: return type %s is not void or a primitive type", name, ret)
	}
	for i, t := range params {
		if t != AnyValue && !t.IsPrimitive() {
			return fmt.Errorf("register function %s: parameter %d has type %s, which is not a primitive type", name, i+1, t)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.functions[name]; exists {
		return fmt.Errorf("register function %s: already registered", name)
	}
	e.functions[name] = &HostFunction{
		Name:       name,
		ReturnType: ret,
		Params:     append([]Type(nil), params...),
		Fn:         fn,
	}
	return nil
}

// RegisterFunctions adds several host functions, stopping at the first
// invalid one.
func (e *Environment) RegisterFunctions(functions map[string]HostFunction) error {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := functions[name]
		if err := e.RegisterFunction(name, f.ReturnType, f.Params, f.Fn); err != nil {
			return err
		}
	}
	return nil
}

// Function looks up a host function by name.
func (e *Environment) Function(name string) (*HostFunction, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f, ok := e.functions[name]
	return f, ok
}

// FunctionNames lists registered host functions in sorted order.
func (e *Environment) FunctionNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.functions))
	for name := range e.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefineVariable exposes a global variable to scripts. Its declared type is
// the type of value. Redefining a name replaces its value and type.
func (e *Environment) DefineVariable(name string, value Value) error {
	if err := validName(name); err != nil {
		return fmt.Errorf("define variable: %w", err)
	}
	if !value.IsValid() {
		return fmt.Errorf("define variable %s: no value", name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.variables {
		if e.variables[i].name == name {
			e.variables[i].value = value
			return nil
		}
	}
	e.variables = append(e.variables, hostVariable{name: name, value: value})
	return nil
}

// Variables returns the exposed variables in definition order.
func (e *Environment) Variables() ([]string, []Value) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.variables))
	values := make([]Value, len(e.variables))
	for i, v := range e.variables {
		names[i] = v.name
		values[i] = v.value
	}
	return names, values
}

// Clone returns an independent environment with the same functions and
// variables. Host function entries are shared.
func (e *Environment) Clone() *Environment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c := &Environment{
		functions: make(map[string]*HostFunction, len(e.functions)),
		variables: append([]hostVariable(nil), e.variables...),
	}
	for name, f := range e.functions {
		c.functions[name] = f
	}
	return c
}
