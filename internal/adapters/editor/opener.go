package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// fallbackEditors are tried in order when neither $VISUAL nor $EDITOR is set
var fallbackEditors = []string{"nvim", "vim", "vi", "nano"}

// Opener opens the tag tree file in the user's editor for hand edits
type Opener struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{getenv: os.Getenv, lookPath: exec.LookPath}
}

// OpenFile opens path in the editor and waits for it to exit
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd editing path, wired to the terminal. The
// TUI hands it to tea.ExecProcess.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := o.findEditor()
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// findEditor returns the editor command line. $VISUAL and $EDITOR may carry
// arguments, e.g. "code --wait".
func (o *Opener) findEditor() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(o.getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	for _, name := range fallbackEditors {
		if path, err := o.lookPath(name); err == nil {
			return []string{path}
		}
	}
	return nil
}
