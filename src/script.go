package pawc

import (
	"errors"
	"fmt"
)

// ErrNotRunnable is returned when running a script that has compile errors
var ErrNotRunnable = errors.New("script has compile errors")

// Script is a compiled, analyzed execution tree. After Compile returns it
// is never modified, so several contexts may run it at once.
type Script struct {
	Filename    string
	Source      string
	Root        *SequenceNode
	Functions   []*FunctionDef
	Duplicates  []*FunctionDef
	Diagnostics Diagnostics

	env    *Environment
	logger *Logger
}

// Compile lexes, parses and analyzes source. A lexical or grammar error
// returns a nil script and a *PawCError; no diagnostics are collected then.
// Otherwise the script is returned with its diagnostics, which the caller
// must check before running.
func Compile(source, filename string, env *Environment, logger *Logger) (*Script, Diagnostics, error) {
	if env == nil {
		env = NewEnvironment()
	}
	if logger == nil {
		logger = NewLogger(false)
	}

	root, functions, duplicates, err := parseSource(source, filename, logger)
	if err != nil {
		return nil, nil, err
	}
	s := analyzeTree(source, filename, root, functions, duplicates, env, logger)
	return s, s.Diagnostics, nil
}

func parseSource(source, filename string, logger *Logger) (*SequenceNode, []*FunctionDef, []*FunctionDef, error) {
	tokens, err := Tokenize(source, filename)
	if err != nil {
		return nil, nil, nil, withContext(err, source)
	}
	logger.DebugCat(CatLex, "%s: %d tokens", displayName(filename), len(tokens))

	root, functions, duplicates, err := NewParser(tokens, filename).Parse()
	if err != nil {
		return nil, nil, nil, withContext(err, source)
	}
	logger.DebugCat(CatParse, "%s: %d top-level statements, %d functions", displayName(filename), len(root.Statements), len(functions))
	return root, functions, duplicates, nil
}

func analyzeTree(source, filename string, root *SequenceNode, functions, duplicates []*FunctionDef, env *Environment, logger *Logger) *Script {
	diags := NewAnalyzer(env, logger).Analyze(root, functions, duplicates)
	return &Script{
		Filename:    filename,
		Source:      source,
		Root:        root,
		Functions:   functions,
		Duplicates:  duplicates,
		Diagnostics: diags,
		env:         env,
		logger:      logger,
	}
}

func withContext(err error, source string) error {
	var pe *PawCError
	if errors.As(err, &pe) && pe.Context == nil {
		pe.Context = SourceLines(source)
	}
	return err
}

func displayName(filename string) string {
	if filename == "" {
		return "<script>"
	}
	return filename
}

// Runnable reports whether the script is free of errors
func (s *Script) Runnable() bool {
	return s != nil && s.Root != nil && !s.Diagnostics.HasErrors()
}

// Environment returns the environment the script was compiled against
func (s *Script) Environment() *Environment {
	return s.env
}

// NewContext creates a context for running this script
func (s *Script) NewContext() *Context {
	return NewContext(s.env, s.logger)
}

// Run resets ctx and executes the root body. The result is the exit value;
// it is invalid when the script ends without exiting a value. A nil ctx
// runs in a fresh context.
func (s *Script) Run(ctx *Context) (Value, error) {
	if !s.Runnable() {
		return Value{}, ErrNotRunnable
	}
	if ctx == nil {
		ctx = s.NewContext()
	}
	if ctx.env == nil {
		ctx.env = s.env
	}
	ctx.Reset()

	r, err := NewExecutor(ctx, s.logger).Execute(s.Root)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", displayName(s.Filename), err)
	}
	if exit, ok := r.(ExitResult); ok {
		return exit.Value, nil
	}
	return Value{}, nil
}
