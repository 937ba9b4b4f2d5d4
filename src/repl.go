package pawc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// REPL color codes
const (
	replColorYellow   = "\x1b[93m"
	replColorRed      = "\x1b[91m"
	replColorDarkCyan = "\x1b[36m"
	replColorReset    = "\x1b[0m"
)

const replFilename = "<repl>"

// REPLConfig configures the REPL behavior
type REPLConfig struct {
	ShowBanner bool // Whether to show the startup banner
	Color      bool // Whether prompts and results use ANSI colors
	Width      int  // Echoed results are clipped to this many columns (0 = no limit)
}

// REPL provides an interactive Read-Eval-Print Loop for PawC. Each entry is
// compiled on its own; top-level variables it declares carry over to the
// entries that follow.
type REPL struct {
	pc       *PawC
	config   REPLConfig
	terminal *term.Terminal
	out      io.Writer
	lines    []string         // Lines for multi-line input
	order    []string         // Carried global names in declaration order
	globals  map[string]Value // Carried global values
}

// NewREPL creates a REPL reading and echoing through rw. Script output and
// errors go to the same stream.
func NewREPL(pc *PawC, rw io.ReadWriter, config REPLConfig) *REPL {
	t := term.NewTerminal(rw, "")
	r := &REPL{
		pc:       pc,
		config:   config,
		terminal: t,
		out:      t,
		globals:  make(map[string]Value),
	}
	t.SetPrompt(r.prompt())
	return r
}

func (r *REPL) color(code, text string) string {
	if !r.config.Color {
		return text
	}
	return code + text + replColorReset
}

func (r *REPL) prompt() string {
	if len(r.lines) == 0 {
		return r.color(replColorYellow, "pawc>") + " "
	}
	return r.color(replColorDarkCyan, fmt.Sprintf("%d", len(r.lines)+1)) + r.color(replColorYellow, " ...") + " "
}

// Run reads entries until end of input or an exit command
func (r *REPL) Run() error {
	if r.config.ShowBanner {
		fmt.Fprint(r.out, "PawC Interactive Mode. Type 'exit' or 'quit' to leave.\n\n")
	}

	for {
		line, err := r.terminal.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(line)
		if len(r.lines) == 0 {
			lower := strings.ToLower(trimmed)
			if lower == "exit" || lower == "quit" {
				return nil
			}
			if trimmed == "" {
				continue
			}
		}

		r.lines = append(r.lines, line)
		fullInput := strings.Join(r.lines, "\n")

		// An empty line submits whatever has accumulated
		if trimmed != "" && !isComplete(fullInput) {
			r.terminal.SetPrompt(r.prompt())
			continue
		}
		r.lines = nil
		r.terminal.SetPrompt(r.prompt())

		result, err := r.Eval(fullInput)
		switch {
		case err != nil:
			fmt.Fprintln(r.out, r.color(replColorRed, err.Error()))
		case result != "":
			fmt.Fprintln(r.out, r.color(replColorYellow, "=")+" "+r.clip(result))
		}
	}
}

// clip shortens text to fit after the "= " prefix
func (r *REPL) clip(text string) string {
	limit := r.config.Width - 2
	runes := []rune(text)
	if r.config.Width <= 0 || len(runes) <= limit {
		return text
	}
	if limit < 4 {
		return string(runes[:max(limit, 0)])
	}
	return string(runes[:limit-3]) + "..."
}

// Eval compiles and runs one entry. The returned string is the entry's exit
// value, or empty when it has none. Warnings are written to the output;
// errors stop the entry and are returned joined.
func (r *REPL) Eval(input string) (string, error) {
	logger := r.pc.Logger()
	root, functions, duplicates, err := parseSource(input, replFilename, logger)
	if err != nil {
		return "", err
	}

	env := r.environment(root)
	script := analyzeTree(input, replFilename, root, functions, duplicates, env, logger)

	var errs []error
	for _, d := range script.Diagnostics {
		if d.Level >= Error {
			errs = append(errs, d)
			continue
		}
		fmt.Fprintf(r.out, "%s: %s\n", d.Level, d.Error())
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}

	ctx := r.pc.NewContext()
	ctx.env = env
	ctx.Output = r.out
	value, err := script.Run(ctx)
	if err != nil {
		return "", err
	}
	r.carry(ctx)

	if !value.IsValid() {
		return "", nil
	}
	return value.String(), nil
}

// environment exposes the carried globals to the next entry, except names
// the entry declares again at top level.
func (r *REPL) environment(root *SequenceNode) *Environment {
	redeclared := make(map[string]bool)
	for _, stmt := range root.Statements {
		if def, ok := stmt.(*VarDefNode); ok {
			for _, v := range def.Vars {
				redeclared[v.Name] = true
			}
		}
	}

	env := r.pc.Environment().Clone()
	for _, name := range r.order {
		if !redeclared[name] {
			_ = env.DefineVariable(name, r.globals[name])
		}
	}
	return env
}

func (r *REPL) carry(ctx *Context) {
	names, values := ctx.Globals()
	for _, name := range names {
		if _, known := r.globals[name]; !known {
			r.order = append(r.order, name)
		}
		r.globals[name] = values[name]
	}
}

// Globals returns the carried variables in declaration order
func (r *REPL) Globals() ([]string, map[string]Value) {
	values := make(map[string]Value, len(r.globals))
	for name, v := range r.globals {
		values[name] = v
	}
	return append([]string(nil), r.order...), values
}

// isComplete reports whether input can be submitted: strings, comments and
// braces are closed and the last token ends a statement or block.
func isComplete(input string) bool {
	parenDepth := 0
	braceDepth := 0
	inDoubleQuote := false
	inSingleQuote := false
	verbatim := false
	inBlockComment := false
	last := rune(0)

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case inBlockComment:
			if ch == '*' && next == '/' {
				inBlockComment = false
				i++
			}
			continue
		case inDoubleQuote:
			if verbatim {
				if ch == '"' && next == '"' {
					i++
				} else if ch == '"' {
					inDoubleQuote = false
				}
			} else if ch == '\\' {
				i++
			} else if ch == '"' {
				inDoubleQuote = false
			}
			last = '"'
			continue
		case inSingleQuote:
			if ch == '\\' {
				i++
			} else if ch == '\'' {
				inSingleQuote = false
			}
			last = '\''
			continue
		}

		switch ch {
		case '/':
			if next == '/' {
				for i < len(runes) && runes[i] != '\n' {
					i++
				}
				continue
			}
			if next == '*' {
				inBlockComment = true
				i++
				continue
			}
		case '@':
			if next == '"' {
				verbatim = true
				inDoubleQuote = true
				i++
				last = '"'
				continue
			}
		case '"':
			verbatim = false
			inDoubleQuote = true
		case '\'':
			inSingleQuote = true
		case '(':
			parenDepth++
		case ')':
			parenDepth--
		case '{':
			braceDepth++
		case '}':
			braceDepth--
		}
		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
			last = ch
		}
	}

	if inDoubleQuote || inSingleQuote || inBlockComment || parenDepth > 0 || braceDepth > 0 {
		return false
	}
	return last == ';' || last == '}'
}

// RunTerminal runs an interactive session on the process terminal, putting
// stdin in raw mode for line editing and restoring it afterwards.
func RunTerminal(pc *PawC) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	config := REPLConfig{ShowBanner: true, Color: stderrSupportsColor()}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		config.Width = width
	}
	repl := NewREPL(pc, rw, config)
	return repl.Run()
}
