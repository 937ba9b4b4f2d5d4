package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/phroun/pawc"
	"github.com/phroun/pawc/src/ext/dialog"
	"github.com/phroun/pawc/src/ext/mathlib"
)

var version = "dev" // set via -ldflags at build time

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m" // Bright yellow foreground
	colorReset  = "\x1b[0m"  // Reset to default
)

// stderrSupportsColor checks if stderr is a terminal that supports color output
func stderrSupportsColor() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}
	// Respect NO_COLOR environment variable (https://no-color.org/)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// errorPrintf prints an error message to stderr, using color if supported
func errorPrintf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if stderrSupportsColor() {
		fmt.Fprintf(os.Stderr, "%s%s%s", colorYellow, message, colorReset)
	} else {
		fmt.Fprint(os.Stderr, message)
	}
}

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug output")
	flag.BoolVar(debugFlag, "d", false, "Enable debug output (short)")
	tokensFlag := flag.Bool("tokens", false, "Print the token stream and exit")
	treeFlag := flag.Bool("tree", false, "Print the analyzed tree before running")
	werrorFlag := flag.Bool("Werror", false, "Treat warnings as errors")
	dialogsFlag := flag.Bool("dialogs", false, "Register native dialog functions")
	versionFlag := flag.Bool("version", false, "Show version and exit")

	flag.Usage = showUsage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("pawc version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()

	var scriptFile string
	var scriptContent string
	var scriptArgs []string

	// Check for -- separator
	separatorIndex := -1
	for i, arg := range args {
		if arg == "--" {
			separatorIndex = i
			break
		}
	}

	var fileArgs []string
	if separatorIndex != -1 {
		fileArgs = args[:separatorIndex]
		scriptArgs = args[separatorIndex+1:]
	} else {
		fileArgs = args
	}

	isStdinRedirected := !term.IsTerminal(int(os.Stdin.Fd()))

	config := pawc.DefaultConfig()
	config.Debug = *debugFlag
	config.WarningsAsErrors = *werrorFlag

	if len(fileArgs) > 0 {
		requestedFile := fileArgs[0]
		foundFile := findScriptFile(requestedFile)

		if foundFile == "" {
			errorPrintf("Error: Script file not found: %s\n", requestedFile)
			if !strings.Contains(requestedFile, ".") {
				errorPrintf("Also tried: %s.pawc\n", requestedFile)
			}
			os.Exit(1)
		}

		scriptFile = foundFile

		content, err := os.ReadFile(scriptFile)
		if err != nil {
			errorPrintf("Error reading script file: %v\n", err)
			os.Exit(1)
		}
		scriptContent = string(content)

		// Remaining fileArgs become script arguments (if no separator was used)
		if separatorIndex == -1 && len(fileArgs) > 1 {
			scriptArgs = fileArgs[1:]
		}

	} else if isStdinRedirected {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			errorPrintf("Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
		scriptContent = string(content)

	} else {
		pc := newInterpreter(config, scriptArgs, *dialogsFlag)
		if err := pawc.RunTerminal(pc); err != nil {
			errorPrintf("Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *tokensFlag {
		if err := dumpTokens(os.Stdout, scriptContent, scriptFile); err != nil {
			errorPrintf("%v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	pc := newInterpreter(config, scriptArgs, *dialogsFlag)
	os.Exit(run(pc, scriptContent, scriptFile, *treeFlag))
}

func newInterpreter(config *pawc.Config, scriptArgs []string, dialogs bool) *pawc.PawC {
	pc := pawc.New(config)
	register := []func(*pawc.PawC) error{mathlib.Register}
	if dialogs {
		register = append(register, dialog.Register)
	}
	if err := pc.RegisterStandardLibrary(scriptArgs); err != nil {
		errorPrintf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, r := range register {
		if err := r(pc); err != nil {
			errorPrintf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	return pc
}

// run compiles and executes the script and returns the process exit code:
// the script's exit value when it is an integer, 0 when it has none, and 1
// when compiling or running fails.
func run(pc *pawc.PawC, source, filename string, tree bool) int {
	if !tree {
		result, err := pc.ExecuteFile(source, filename)
		if err != nil {
			return 1
		}
		return exitCode(result)
	}

	script, diags, err := pc.CompileFile(source, filename)
	if err != nil {
		pc.ReportError(err, source)
		return 1
	}
	pc.ReportDiagnostics(diags, source)
	if err := pawc.DumpScript(os.Stdout, script); err != nil {
		errorPrintf("%v\n", err)
		return 1
	}
	if !script.Runnable() {
		return 1
	}
	if pc.GetConfig().WarningsAsErrors && diags.HasWarnings() {
		return 1
	}

	result, err := script.Run(pc.NewContext())
	if err != nil {
		pc.ReportError(err, source)
		return 1
	}
	return exitCode(result)
}

func exitCode(result pawc.Value) int {
	if !result.IsValid() {
		return 0
	}
	converted, err := pawc.Convert(result, pawc.Int)
	if err != nil {
		return 1
	}
	return int(converted.Int64())
}

func dumpTokens(w io.Writer, source, filename string) error {
	tokens, err := pawc.Tokenize(source, filename)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%d:%d\t%s\n", tok.Position.Line, tok.Position.Column, tok); err != nil {
			return err
		}
	}
	return nil
}

func findScriptFile(filename string) string {
	// First try the exact filename
	if _, err := os.Stat(filename); err == nil {
		return filename
	}

	// If no extension, try adding .pawc
	if filepath.Ext(filename) == "" {
		pawcFile := filename + ".pawc"
		if _, err := os.Stat(pawcFile); err == nil {
			return pawcFile
		}
	}

	return ""
}

func showUsage() {
	usage := `Usage: pawc [options] [script.pawc] [-- args...]
       pawc [options] < input.pawc
       echo "statements" | pawc [options]

Compile and run a PawC script from a file, stdin, or pipe. With no script
and an interactive terminal, starts the REPL.

Options:
  -d, -debug          Enable debug output
  -tokens             Print the token stream and exit
  -tree               Print the analyzed tree before running
  -Werror             Treat warnings as errors
  -dialogs            Register msgbox, confirm and open_file
  -version            Show version and exit

Arguments:
  script.pawc         Script file to execute (adds .pawc extension if needed)
  --                  Separates script filename from arguments

Exit status:
  The script's exit value converted to int, 0 when it exits without a value,
  1 on compile or runtime errors.

Examples:
  pawc hello.pawc
  pawc -tree sum.pawc -- 1 2 3
  echo 'exit 6 * 7;' | pawc
`
	fmt.Fprint(os.Stderr, usage)
}
