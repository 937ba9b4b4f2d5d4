package pawc

import (
	"fmt"
	"io"
	"os"
)

// Context is the per-run state of a script: its variables, arguments and
// output. Host functions receive it. A context must not be shared by runs
// that are in flight at the same time.
type Context struct {
	// Args are the script arguments exposed through argc/argv
	Args []string
	// Output receives print and println
	Output io.Writer
	// Position is the call site while a host function runs
	Position *SourcePosition

	env    *Environment
	logger *Logger
	scope  *ScopeStack[Value]
}

// NewContext creates a context seeded from env's host variables
func NewContext(env *Environment, logger *Logger) *Context {
	if logger == nil {
		logger = NewLogger(false)
	}
	c := &Context{
		Output: os.Stdout,
		env:    env,
		logger: logger,
		scope:  NewScopeStack[Value](),
	}
	c.Reset()
	return c
}

// Reset drops every variable and declares the host variables again with
// their defined values.
func (c *Context) Reset() {
	c.scope.Reset()
	if c.env == nil {
		return
	}
	names, values := c.env.Variables()
	for i, name := range names {
		c.scope.Declare(name, values[i])
	}
}

// Environment returns the environment the context was created for
func (c *Context) Environment() *Environment {
	return c.env
}

// Logger returns the logger used for this run
func (c *Context) Logger() *Logger {
	return c.logger
}

// Variable reads a variable visible from the current scope
func (c *Context) Variable(name string) (Value, bool) {
	return c.scope.Get(name)
}

// SetVariable assigns a visible variable. The value converts to the
// variable's declared kind the way an explicit cast does.
func (c *Context) SetVariable(name string, v Value) error {
	current, ok := c.scope.Get(name)
	if !ok {
		return fmt.Errorf("undefined variable '%s'", name)
	}
	converted, err := Convert(v, current.Type())
	if err != nil {
		return fmt.Errorf("set variable '%s': %w", name, err)
	}
	c.scope.Set(name, converted)
	return nil
}

// Globals returns the root frame's names in declaration order and their
// values. After a run it holds the script's top-level variables.
func (c *Context) Globals() ([]string, map[string]Value) {
	return c.scope.Globals()
}

// LogError logs a host function failure at the current call site
func (c *Context) LogError(cat LogCategory, message string) {
	c.logger.Log(LevelError, cat, message, c.Position, nil)
}

// Print writes text to the context output
func (c *Context) Print(text string) error {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}
	_, err := io.WriteString(out, text)
	return err
}
