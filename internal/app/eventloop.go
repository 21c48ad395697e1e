// Package app provides the main application structure and coordination.
package app

import (
	"strings"

	"github.com/dshills/peppered/internal/dispatcher/execctx"
	"github.com/dshills/peppered/internal/dispatcher/handler"
	"github.com/dshills/peppered/internal/input"
	"github.com/dshills/peppered/internal/input/key"
	"github.com/dshills/peppered/internal/input/mode"
)

// editingActionPrefixes contains action name prefixes that modify document content.
var editingActionPrefixes = []string{
	"editor.insert",
	"editor.delete",
	"editor.backspace",
	"editor.newline",
	"editor.indent",
	"editor.unindent",
	"editor.yank",
	"editor.paste",
	"editor.change",
	"editor.substitute",
	"editor.replace",
	"editor.join",
	"editor.toggle",
}

// processModeResult handles the result of an unmapped key press.
func (app *Application) processModeResult(result *mode.UnmappedResult, _ key.Event) error {
	if result == nil {
		return nil
	}

	// Handle action dispatch
	if result.Action != nil {
		action := &input.Action{
			Name: result.Action.Name,
			Args: convertModeArgs(result.Action.Args),
		}

		// Check for mode change action
		if action.Name == "mode.normal" || action.Name == "mode.insert" ||
			action.Name == "mode.visual" || action.Name == "mode.command" ||
			action.Name == "mode.replace" {
			modeName := action.Name[5:] // Remove "mode." prefix
			if err := app.modeManager.SetInitialMode(modeName); err != nil {
				_ = err // Log but don't fail
			}
			return nil
		}

		return app.dispatchAction(action)
	}

	// Handle text insertion in insert mode
	if result.InsertText != "" {
		return app.insertText(result.InsertText)
	}

	return nil
}

// convertModeArgs converts mode.Action.Args to input.ActionArgs.
func convertModeArgs(args map[string]any) input.ActionArgs {
	result := input.ActionArgs{}
	if args != nil {
		result.Extra = make(map[string]interface{})
		for k, v := range args {
			result.Extra[k] = v
		}
	}
	return result
}

// insertText inserts text at the cursor position.
func (app *Application) insertText(text string) error {
	if text == "" {
		return nil
	}
	doc := app.documents.Active()
	if doc == nil || doc.ReadOnly || doc.Engine == nil {
		return nil
	}

	cursors := doc.Engine.Cursors()
	if cursors == nil || cursors.Count() == 0 {
		return nil
	}

	// Insert at primary cursor
	primary := cursors.Primary()
	_, err := doc.Engine.Insert(primary.Head, text)
	if err != nil {
		return err
	}

	doc.SetModified(true)
	doc.IncrementVersion()

	return nil
}

// dispatchAction sends an action through the dispatcher.
func (app *Application) dispatchAction(action *input.Action) error {
	if app.dispatcher == nil || action == nil {
		return nil
	}

	// Build input context
	inputCtx := app.buildInputContext()

	// Dispatch the action
	result := app.dispatcher.DispatchWithContext(*action, inputCtx)

	// Check for quit action
	if action.Name == "app.quit" || action.Name == "quit" {
		return ErrQuit
	}

	// Handle errors from dispatch
	if result.Error != nil {
		// Log error but don't fail the application
		// In a full implementation, this would show an error message
		_ = result.Error
	}

	// Mark document as modified if action changed content
	if result.Status == handler.StatusOK {
		doc := app.documents.Active()
		if doc != nil && !doc.ReadOnly {
			// Check if this was an editing action
			if isEditingAction(action.Name) {
				doc.SetModified(true)
				doc.IncrementVersion()
			}
		}
	}

	return nil
}

// insertCharacter inserts a character at the cursor position.
func (app *Application) insertCharacter(ch rune) error {
	doc := app.documents.Active()
	if doc == nil || doc.ReadOnly || doc.Engine == nil {
		return nil
	}

	cursors := doc.Engine.Cursors()
	if cursors == nil || cursors.Count() == 0 {
		return nil
	}

	// Insert at primary cursor
	primary := cursors.Primary()
	_, err := doc.Engine.Insert(primary.Head, string(ch))
	if err != nil {
		return err
	}

	doc.SetModified(true)
	doc.IncrementVersion()

	return nil
}

// buildInputContext creates an input.Context for dispatcher.
func (app *Application) buildInputContext() *input.Context {
	ctx := &input.Context{}

	// Set mode
	if app.modeManager != nil && app.modeManager.Current() != nil {
		ctx.Mode = app.modeManager.Current().Name()
	}

	// Set document info
	doc := app.documents.Active()
	if doc != nil {
		ctx.FilePath = doc.Path
		ctx.FileType = doc.LanguageID
		ctx.IsModified = doc.IsModified()
		ctx.IsReadOnly = doc.ReadOnly

		if doc.Engine != nil {
			cursors := doc.Engine.Cursors()
			if cursors != nil {
				ctx.HasSelection = cursors.HasSelection()
			}
		}
	}

	return ctx
}

// buildModeContext creates a mode.Context for mode handling.
func (app *Application) buildModeContext() *mode.Context {
	ctx := &mode.Context{}

	// Set previous mode if available
	if app.modeManager != nil && app.modeManager.Current() != nil {
		ctx.PreviousMode = app.modeManager.Current().Name()
	}

	return ctx
}

// buildExecutionContext creates an execution context for the dispatcher.
func (app *Application) buildExecutionContext() *execctx.ExecutionContext {
	ctx := execctx.New()

	doc := app.documents.Active()
	if doc != nil {
		ctx.FilePath = doc.Path
		ctx.FileType = doc.LanguageID

		// Note: Engine/Cursor wiring requires adapters (deferred to Phase 3 adapters)
		// For now, we set basic metadata
	}

	if app.modeManager != nil && app.modeManager.Current() != nil {
		// Mode name is available through the input context
	}

	return ctx
}

// isEditingAction returns true if the action modifies document content.
func isEditingAction(name string) bool {
	for _, prefix := range editingActionPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
