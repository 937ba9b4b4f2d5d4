package pawc

import (
	"errors"
	"fmt"
)

// PawC is the main PawC interpreter: an environment of host functions and
// variables plus the configuration used to compile and run scripts
type PawC struct {
	config *Config
	logger *Logger
	env    *Environment
	args   []string
}

// New creates a new PawC interpreter
func New(config *Config) *PawC {
	if config == nil {
		config = DefaultConfig()
	}

	logger := NewLogger(config.Debug)
	if config.Debug {
		logger.EnableAllCategories()
	}
	logger.SetContextLines(config.ContextLines)

	return &PawC{
		config: config,
		logger: logger,
		env:    NewEnvironment(),
	}
}

// Configure updates the configuration
func (pc *PawC) Configure(config *Config) {
	pc.config = config
	pc.logger.SetEnabled(config.Debug)
	if config.Debug {
		pc.logger.EnableAllCategories()
	}
	pc.logger.SetContextLines(config.ContextLines)
}

// RegisterFunction registers a host function
func (pc *PawC) RegisterFunction(name string, ret Type, params []Type, fn HostFunc) error {
	if err := pc.env.RegisterFunction(name, ret, params, fn); err != nil {
		return err
	}
	pc.logger.DebugCat(CatHost, "Registered function: %s", name)
	return nil
}

// RegisterFunctions registers multiple host functions
func (pc *PawC) RegisterFunctions(functions map[string]HostFunction) error {
	return pc.env.RegisterFunctions(functions)
}

// DefineVariable exposes a host variable to every script
func (pc *PawC) DefineVariable(name string, value Value) error {
	return pc.env.DefineVariable(name, value)
}

// Environment returns the interpreter's host environment
func (pc *PawC) Environment() *Environment {
	return pc.env
}

// Compile compiles source without a filename
func (pc *PawC) Compile(source string) (*Script, Diagnostics, error) {
	return pc.CompileFile(source, "")
}

// CompileFile compiles source with filename used in positions
func (pc *PawC) CompileFile(source, filename string) (*Script, Diagnostics, error) {
	return Compile(source, filename, pc.env, pc.logger)
}

// NewContext creates a run context carrying the script arguments and the
// configured output
func (pc *PawC) NewContext() *Context {
	ctx := NewContext(pc.env, pc.logger)
	ctx.Args = pc.args
	if pc.config.Output != nil {
		ctx.Output = pc.config.Output
	}
	return ctx
}

// Execute compiles and runs source
func (pc *PawC) Execute(source string) (Value, error) {
	return pc.ExecuteFile(source, "")
}

// ExecuteFile compiles and runs source with proper filename tracking. Parse
// errors, diagnostics and runtime errors are logged before being returned.
func (pc *PawC) ExecuteFile(source, filename string) (Value, error) {
	script, diags, err := pc.CompileFile(source, filename)
	if err != nil {
		pc.ReportError(err, source)
		return Value{}, err
	}
	pc.ReportDiagnostics(diags, source)
	if err := pc.checkRunnable(diags); err != nil {
		return Value{}, err
	}

	result, err := script.Run(pc.NewContext())
	if err != nil {
		pc.ReportError(err, source)
		return Value{}, err
	}
	return result, nil
}

func (pc *PawC) checkRunnable(diags Diagnostics) error {
	errs, warns := 0, 0
	for _, d := range diags {
		switch {
		case d.Level >= Error:
			errs++
		case d.Level == Warning:
			warns++
		}
	}
	if errs > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrNotRunnable, errs)
	}
	if pc.config.WarningsAsErrors && warns > 0 {
		return fmt.Errorf("%w: %d warning(s) treated as errors", ErrNotRunnable, warns)
	}
	return nil
}

func (pc *PawC) sourceContext(source string) []string {
	if !pc.config.ShowErrorContext || source == "" {
		return nil
	}
	return SourceLines(source)
}

// ReportDiagnostics logs each diagnostic with source context
func (pc *PawC) ReportDiagnostics(diags Diagnostics, source string) {
	context := pc.sourceContext(source)
	for _, d := range diags {
		pc.logger.Diagnostic(d, context)
	}
}

// ReportError logs a compile or run failure with its position when known
func (pc *PawC) ReportError(err error, source string) {
	context := pc.sourceContext(source)

	var pe *PawCError
	var re *RuntimeError
	var ie *InternalError
	switch {
	case errors.As(err, &pe):
		pc.logger.ParseError(pe.Message, pe.Position, context)
	case errors.As(err, &re):
		pos := re.Position
		pc.logger.RuntimeError(re.Message, &pos, context)
	case errors.As(err, &ie):
		pos := ie.Position
		pc.logger.Log(LevelFatal, CatFlow, "Internal error: "+ie.Message, &pos, context)
	default:
		pc.logger.Error("%v", err)
	}
}

// Logger returns the interpreter's logger
func (pc *PawC) Logger() *Logger {
	return pc.logger
}

// SetLogger replaces the interpreter's logger, for hosts that capture
// diagnostics themselves
func (pc *PawC) SetLogger(logger *Logger) {
	logger.SetContextLines(pc.config.ContextLines)
	pc.logger = logger
}

// GetConfig returns the current configuration
func (pc *PawC) GetConfig() *Config {
	configCopy := *pc.config
	return &configCopy
}

// SetErrorContextEnabled enables or disables error context reporting
func (pc *PawC) SetErrorContextEnabled(enabled bool) {
	pc.config.ShowErrorContext = enabled
}

// SetContextLines sets the number of context lines for error reporting
func (pc *PawC) SetContextLines(lines int) {
	if lines < 0 {
		lines = 0
	}
	if lines > 10 {
		lines = 10
	}
	pc.config.ContextLines = lines
	pc.logger.SetContextLines(lines)
}
