// Package pawc provides a small C-like scripting language that can be
// embedded in Go applications.
//
// This package re-exports the public API from the implementation in src/.
// For full documentation, see the implementation package.
//
// Basic usage:
//
//	pc := pawc.New(nil)
//	pc.RegisterStandardLibrary(nil)
//	result, err := pc.Execute(`int a = 1; a += 2; exit a;`)
package pawc

import (
	"io"

	"github.com/shopspring/decimal"

	impl "github.com/phroun/pawc/src"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// PawC is the main interpreter instance.
type PawC = impl.PawC

// Config holds configuration options for the interpreter.
type Config = impl.Config

// Environment holds host functions and host variables.
type Environment = impl.Environment

// Context is the per-run state passed to host functions.
type Context = impl.Context

// Script is a compiled, analyzed program.
type Script = impl.Script

// HostFunc is the native entry point of a host function.
type HostFunc = impl.HostFunc

// HostFunction is a host function together with its signature.
type HostFunction = impl.HostFunction

// =============================================================================
// VALUES
// =============================================================================

// Value is a typed runtime value.
type Value = impl.Value

// Type is a primitive value kind, or a mask of kinds.
type Type = impl.Type

// Value kinds
const (
	Undefined = impl.Undefined
	Void      = impl.Void
	Bool      = impl.Bool
	Char      = impl.Char
	String    = impl.String
	SByte     = impl.SByte
	Byte      = impl.Byte
	Short     = impl.Short
	UShort    = impl.UShort
	Int       = impl.Int
	UInt      = impl.UInt
	Long      = impl.Long
	ULong     = impl.ULong
	Float     = impl.Float
	Double    = impl.Double
	Decimal   = impl.Decimal
	AnyValue  = impl.AnyValue
)

// BoolValue creates a bool value.
func BoolValue(b bool) Value { return impl.BoolValue(b) }

// CharValue creates a char value from a UTF-16 code unit.
func CharValue(c uint16) Value { return impl.CharValue(c) }

// StringValue creates a string value.
func StringValue(s string) Value { return impl.StringValue(s) }

// NullString creates the null string.
func NullString() Value { return impl.NullString() }

// IntValue creates an int value.
func IntValue(i int32) Value { return impl.IntValue(i) }

// LongValue creates a long value.
func LongValue(i int64) Value { return impl.LongValue(i) }

// DoubleValue creates a double value.
func DoubleValue(f float64) Value { return impl.DoubleValue(f) }

// DecimalValue creates a decimal value.
func DecimalValue(d decimal.Decimal) Value { return impl.DecimalValue(d) }

// ValueOf converts a Go value to the matching kind.
func ValueOf(x interface{}) (Value, error) { return impl.ValueOf(x) }

// Convert converts v to kind to the way an explicit cast does.
func Convert(v Value, to Type) (Value, error) { return impl.Convert(v, to) }

// CanWiden reports whether from converts to to without a cast.
func CanWiden(from, to Type) bool { return impl.CanWiden(from, to) }

// =============================================================================
// DIAGNOSTICS AND ERRORS
// =============================================================================

// SourcePosition tracks location in source code for error reporting.
type SourcePosition = impl.SourcePosition

// Diagnostic is one analysis finding.
type Diagnostic = impl.Diagnostic

// Diagnostics is the ordered list produced by one compile.
type Diagnostics = impl.Diagnostics

// DiagnosticLevel is the severity of a diagnostic.
type DiagnosticLevel = impl.DiagnosticLevel

// DiagnosticCode identifies what a diagnostic reports.
type DiagnosticCode = impl.DiagnosticCode

// Diagnostic levels
const (
	Notice        = impl.Notice
	Warning       = impl.Warning
	Error         = impl.Error
	CriticalError = impl.CriticalError
)

// PawCError is a lexical or grammar error.
type PawCError = impl.PawCError

// RuntimeError is a failure raised while executing a script.
type RuntimeError = impl.RuntimeError

// InternalError marks a broken interpreter invariant.
type InternalError = impl.InternalError

// ErrNotRunnable is returned when running a script with compile errors.
var ErrNotRunnable = impl.ErrNotRunnable

// =============================================================================
// LOGGING
// =============================================================================

// Logger handles debug and error output.
type Logger = impl.Logger

// LogLevel is the severity of a log message.
type LogLevel = impl.LogLevel

// LogCategory groups log messages by subsystem.
type LogCategory = impl.LogCategory

// Log categories
const (
	CatNone     = impl.CatNone
	CatLex      = impl.CatLex
	CatParse    = impl.CatParse
	CatType     = impl.CatType
	CatVariable = impl.CatVariable
	CatCall     = impl.CatCall
	CatFlow     = impl.CatFlow
	CatHost     = impl.CatHost
	CatApp      = impl.CatApp
	CatUser     = impl.CatUser
)

// NewLogger creates a logger writing to stdout and stderr.
func NewLogger(enabled bool) *Logger { return impl.NewLogger(enabled) }

// NewLoggerWithWriters creates a logger with custom writers.
func NewLoggerWithWriters(enabled bool, out, errOut io.Writer) *Logger {
	return impl.NewLoggerWithWriters(enabled, out, errOut)
}

// =============================================================================
// SYNTAX TREE
// =============================================================================

// Token is one lexical unit.
type Token = impl.Token

// Node is an execution-tree node.
type Node = impl.Node

// FunctionDef is a script function.
type FunctionDef = impl.FunctionDef

// Tokenize lexes source into tokens.
func Tokenize(source, filename string) ([]Token, error) { return impl.Tokenize(source, filename) }

// DumpTree writes an indented outline of the tree rooted at n.
func DumpTree(w io.Writer, n Node) error { return impl.DumpTree(w, n) }

// DumpScript writes a compiled script's tree.
func DumpScript(w io.Writer, s *Script) error { return impl.DumpScript(w, s) }

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// New creates a new interpreter with the given configuration.
func New(config *Config) *PawC { return impl.New(config) }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config { return impl.DefaultConfig() }

// NewEnvironment creates an empty host environment.
func NewEnvironment() *Environment { return impl.NewEnvironment() }

// NewContext creates a run context for env.
func NewContext(env *Environment, logger *Logger) *Context { return impl.NewContext(env, logger) }

// Compile lexes, parses and analyzes source against env.
func Compile(source, filename string, env *Environment, logger *Logger) (*Script, Diagnostics, error) {
	return impl.Compile(source, filename, env, logger)
}

// =============================================================================
// REPL
// =============================================================================

// REPL is an interactive read-eval-print loop.
type REPL = impl.REPL

// REPLConfig configures the REPL behavior.
type REPLConfig = impl.REPLConfig

// NewREPL creates a REPL over rw.
func NewREPL(pc *PawC, rw io.ReadWriter, config REPLConfig) *REPL {
	return impl.NewREPL(pc, rw, config)
}

// RunTerminal runs an interactive session on the process terminal.
func RunTerminal(pc *PawC) error { return impl.RunTerminal(pc) }
