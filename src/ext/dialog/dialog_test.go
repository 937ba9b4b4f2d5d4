package dialog

import (
	"bytes"
	"errors"
	"testing"

	sqdialog "github.com/sqweek/dialog"

	pawc "github.com/phroun/pawc/src"
)

func newInterpreter(t *testing.T, out *bytes.Buffer) *pawc.PawC {
	t.Helper()
	config := pawc.DefaultConfig()
	config.Output = out
	pc := pawc.New(config)
	if err := pc.RegisterStandardLibrary(nil); err != nil {
		t.Fatalf("RegisterStandardLibrary failed: %v", err)
	}
	if err := Register(pc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return pc
}

func stubDialogs(t *testing.T) {
	t.Helper()
	savedMessage, savedYesNo, savedFile := showMessage, askYesNo, chooseFile
	t.Cleanup(func() {
		showMessage, askYesNo, chooseFile = savedMessage, savedYesNo, savedFile
	})
}

func TestMsgbox(t *testing.T) {
	stubDialogs(t)
	var shown []string
	showMessage = func(title, text string) {
		shown = append(shown, title+": "+text)
	}

	pc := newInterpreter(t, &bytes.Buffer{})
	if _, err := pc.Execute(`msgbox("hello " + 42);`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(shown) != 1 || shown[0] != "PawC: hello 42" {
		t.Errorf("Expected one message 'PawC: hello 42', got %v", shown)
	}
}

func TestConfirm(t *testing.T) {
	stubDialogs(t)

	for _, answer := range []bool{true, false} {
		askYesNo = func(title, text string) bool { return answer }
		pc := newInterpreter(t, &bytes.Buffer{})
		v, err := pc.Execute(`int r = 0; if (confirm("continue?")) r = 1; exit r;`)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		want := int64(0)
		if answer {
			want = 1
		}
		if v.Int64() != want {
			t.Errorf("Expected %d for answer %v, got %d", want, answer, v.Int64())
		}
	}
}

func TestOpenFile(t *testing.T) {
	stubDialogs(t)

	t.Run("chosen", func(t *testing.T) {
		var gotExt string
		chooseFile = func(title, extension string) (string, error) {
			gotExt = extension
			return "/tmp/data.txt", nil
		}
		var out bytes.Buffer
		pc := newInterpreter(t, &out)
		if _, err := pc.Execute(`print(open_file("txt"));`); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if gotExt != "txt" {
			t.Errorf("Expected filter 'txt', got '%s'", gotExt)
		}
		if out.String() != "/tmp/data.txt" {
			t.Errorf("Expected '/tmp/data.txt', got '%s'", out.String())
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		chooseFile = func(title, extension string) (string, error) {
			return "", sqdialog.ErrCancelled
		}
		pc := newInterpreter(t, &bytes.Buffer{})
		v, err := pc.Execute(`exit strlen(open_file(""));`)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if v.Int64() != 0 {
			t.Errorf("Expected 0 for a cancelled dialog, got %d", v.Int64())
		}
	})

	t.Run("failure", func(t *testing.T) {
		chooseFile = func(title, extension string) (string, error) {
			return "", errors.New("no display")
		}
		pc := newInterpreter(t, &bytes.Buffer{})
		pc.SetLogger(pawc.NewLoggerWithWriters(false, &bytes.Buffer{}, &bytes.Buffer{}))
		if _, err := pc.Execute(`open_file("");`); err == nil {
			t.Error("Expected an error from a failing dialog")
		}
	})
}
