// pawc-gui - PawC editor and runner with a Fyne window
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/phroun/pawc"
	"github.com/phroun/pawc/src/ext/dialog"
	"github.com/phroun/pawc/src/ext/mathlib"
)

const windowTitle = "PawC"

const demoScript = `// Sum the first ten squares
int sum = 0;
for (int i = 1; i <= 10; i++) {
    sum += i * i;
}
gui_status("computed");
println("sum of squares: " + sum);
exit sum;
`

// outputPane collects script output for the output label. Writes may come
// from the script goroutine.
type outputPane struct {
	mu    sync.Mutex
	text  strings.Builder
	label *widget.Label
}

func (p *outputPane) Write(b []byte) (int, error) {
	p.mu.Lock()
	p.text.Write(b)
	text := p.text.String()
	p.mu.Unlock()
	fyne.Do(func() { p.label.SetText(text) })
	return len(b), nil
}

func (p *outputPane) Clear() {
	p.mu.Lock()
	p.text.Reset()
	p.mu.Unlock()
	fyne.Do(func() { p.label.SetText("") })
}

// GuiState holds the widgets scripts can reach through host functions
type GuiState struct {
	mu         sync.Mutex
	mainWindow fyne.Window
	editor     *widget.Entry
	status     *widget.Label
	runButton  *widget.Button
	output     *outputPane
	running    bool
	debug      bool
	scriptPath string
	scriptArgs []string
}

func main() {
	debugFlag := flag.Bool("d", false, "Enable debug output")
	flag.Parse()

	fyneApp := app.New()
	mainWindow := fyneApp.NewWindow(windowTitle)
	mainWindow.Resize(fyne.NewSize(720, 560))

	state := &GuiState{
		mainWindow: mainWindow,
		editor:     widget.NewMultiLineEntry(),
		status:     widget.NewLabel("ready"),
		output:     &outputPane{label: widget.NewLabel("")},
		debug:      *debugFlag,
	}
	state.output.label.Wrapping = fyne.TextWrapWord

	source := demoScript
	if flag.NArg() > 0 {
		state.scriptPath = flag.Arg(0)
		data, err := os.ReadFile(state.scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
		state.scriptArgs = flag.Args()[1:]
	}
	state.editor.SetText(source)

	state.runButton = widget.NewButton("Run", state.run)
	clearButton := widget.NewButton("Clear", state.output.Clear)
	toolbar := container.NewHBox(state.runButton, clearButton, state.status)

	split := container.NewVSplit(state.editor, container.NewVScroll(state.output.label))
	split.Offset = 0.6
	mainWindow.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))

	mainWindow.ShowAndRun()
}

// newInterpreter builds an interpreter whose output and errors land in the
// output pane
func (g *GuiState) newInterpreter() (*pawc.PawC, error) {
	config := pawc.DefaultConfig()
	config.Debug = g.debug
	config.Output = g.output
	pc := pawc.New(config)
	logger := pawc.NewLoggerWithWriters(g.debug, g.output, g.output)
	if g.debug {
		logger.EnableAllCategories()
	}
	pc.SetLogger(logger)

	if err := pc.RegisterStandardLibrary(g.scriptArgs); err != nil {
		return nil, err
	}
	if err := mathlib.Register(pc); err != nil {
		return nil, err
	}
	if err := dialog.Register(pc); err != nil {
		return nil, err
	}
	if err := g.registerGuiFunctions(pc); err != nil {
		return nil, err
	}
	return pc, nil
}

func (g *GuiState) registerGuiFunctions(pc *pawc.PawC) error {
	return pc.RegisterFunctions(map[string]pawc.HostFunction{
		// gui_title - sets the window title
		"gui_title": {ReturnType: pawc.Void, Params: []pawc.Type{pawc.String}, Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			title := args[0].String()
			fyne.Do(func() { g.mainWindow.SetTitle(title) })
			return pawc.Value{}, nil
		}},

		// gui_status - replaces the status label text
		"gui_status": {ReturnType: pawc.Void, Params: []pawc.Type{pawc.String}, Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			g.setStatus(args[0].String())
			return pawc.Value{}, nil
		}},

		// gui_clear - empties the output pane
		"gui_clear": {ReturnType: pawc.Void, Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			g.output.Clear()
			return pawc.Value{}, nil
		}},
	})
}

func (g *GuiState) setStatus(text string) {
	fyne.Do(func() { g.status.SetText(text) })
}

// run is the Run button handler. The script runs off the UI goroutine so
// the window keeps redrawing.
func (g *GuiState) run() {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return
	}
	g.running = true
	g.mu.Unlock()

	source := g.editor.Text
	g.runButton.Disable()
	g.status.SetText("running")

	go func() {
		defer func() {
			g.mu.Lock()
			g.running = false
			g.mu.Unlock()
			fyne.Do(g.runButton.Enable)
		}()

		pc, err := g.newInterpreter()
		if err != nil {
			fmt.Fprintf(g.output, "Error: %v\n", err)
			g.setStatus("failed")
			return
		}

		result, err := pc.ExecuteFile(source, g.scriptPath)
		switch {
		case err != nil:
			g.setStatus("failed")
		case result.IsValid():
			fmt.Fprintf(g.output, "= %s\n", result)
			g.setStatus("finished")
		default:
			g.setStatus("finished")
		}
	}()
}
