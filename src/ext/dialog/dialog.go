// Package dialog registers native message and file dialogs as PawC host
// functions.
package dialog

import (
	"errors"

	sqdialog "github.com/sqweek/dialog"

	pawc "github.com/phroun/pawc/src"
)

// Title is shown on every dialog window
var Title = "PawC"

// The native calls are variables so hosts without a desktop session (and
// tests) can replace them.
var (
	showMessage = func(title, text string) {
		sqdialog.Message("%s", text).Title(title).Info()
	}
	askYesNo = func(title, text string) bool {
		return sqdialog.Message("%s", text).Title(title).YesNo()
	}
	chooseFile = func(title, extension string) (string, error) {
		b := sqdialog.File().Title(title)
		if extension != "" {
			b = b.Filter(extension+" files", extension)
		}
		return b.Load()
	}
)

// Register adds msgbox, confirm and open_file to pc
func Register(pc *pawc.PawC) error {
	return pc.RegisterFunctions(map[string]pawc.HostFunction{
		// msgbox - shows an informational message and waits for OK
		"msgbox": {ReturnType: pawc.Void, Params: []pawc.Type{pawc.String}, Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			showMessage(Title, args[0].String())
			return pawc.Value{}, nil
		}},

		// confirm - asks a yes/no question
		"confirm": {ReturnType: pawc.Bool, Params: []pawc.Type{pawc.String}, Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			return pawc.BoolValue(askYesNo(Title, args[0].String())), nil
		}},

		// open_file - asks for a file to open, optionally filtered by
		// extension; a cancelled dialog yields the null string
		"open_file": {ReturnType: pawc.String, Params: []pawc.Type{pawc.String}, Fn: func(ctx *pawc.Context, args []pawc.Value) (pawc.Value, error) {
			path, err := chooseFile(Title, args[0].Str())
			if errors.Is(err, sqdialog.ErrCancelled) {
				return pawc.NullString(), nil
			}
			if err != nil {
				return pawc.Value{}, err
			}
			return pawc.StringValue(path), nil
		}},
	})
}
