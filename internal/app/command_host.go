package app

import (
	"os"

	"github.com/dshills/peppered/internal/command"
	"github.com/dshills/peppered/internal/engine"
)

// commandHost adapts an Application to command.Host, giving the
// command VM's builtins access to the active buffer and a way to
// request shutdown.
type commandHost struct {
	app *Application
}

var _ command.Host = (*commandHost)(nil)

func (app *Application) commandHost() command.Host {
	return &commandHost{app: app}
}

func (h *commandHost) CurrentBufferText() (string, error) {
	doc := h.app.documents.Active()
	if doc == nil || doc.Engine == nil {
		return "", nil
	}
	return doc.Engine.Text(), nil
}

func (h *commandHost) SetCurrentBufferText(text string) error {
	doc := h.app.documents.Active()
	if doc == nil || doc.Engine == nil {
		return nil
	}
	end := engine.ByteOffset(len(doc.Engine.Text()))
	if _, err := doc.Engine.Replace(0, end, text); err != nil {
		return err
	}
	doc.SetModified(true)
	doc.IncrementVersion()
	return nil
}

func (h *commandHost) Print(_ string) {
	// A real client surfaces this as a status-line message; headless
	// runs (tests, init scripts without a client attached) drop it.
}

func (h *commandHost) Quit(_ bool) {
	h.app.Shutdown()
}

// initProgram compiles the user's init script, if configured, for
// execution at startup. Returns nil when no script is set or it fails
// to compile; either case is logged by the caller, not here.
func (app *Application) initProgram() *command.Program {
	if app.config == nil {
		return nil
	}

	path, err := app.config.GetString("editor.init_script")
	if err != nil || path == "" {
		return nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	prog, err := command.Compile(string(src))
	if err != nil {
		return nil
	}

	return prog
}
