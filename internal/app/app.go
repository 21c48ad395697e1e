// Package app provides the main application structure and coordination
// for the editor core. It wires together all core modules and manages
// the application lifecycle. The package is headless: it owns buffers,
// modes, the command VM and LSP clients, but draws nothing itself — a
// client process renders whatever state it exposes over the wire.
package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/peppered/internal/command"
	"github.com/dshills/peppered/internal/config"
	"github.com/dshills/peppered/internal/dispatcher"
	"github.com/dshills/peppered/internal/event"
	"github.com/dshills/peppered/internal/input/key"
	"github.com/dshills/peppered/internal/input/mode"
	"github.com/dshills/peppered/internal/integration"
	"github.com/dshills/peppered/internal/lsp"
	pluginlua "github.com/dshills/peppered/internal/plugin/lua"
)

// Application is the central coordinator for all editor components.
// It manages component lifecycles and wiring; the event loop that
// drives it lives in the server process, which decodes wire messages
// into key.Event values and calls HandleKeyEvent.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	eventBus event.Bus
	config   *config.Config

	// Editor components
	modeManager *mode.Manager
	dispatcher  *dispatcher.Dispatcher

	// Document management
	documents *DocumentManager

	// Workspace components
	workspaceRoot string
	lsp           *lsp.Manager

	// Extension components: the command VM is the scripting surface,
	// backed by a sandboxed Lua runtime reached through RegisterLuaBuiltin.
	cmdVM       *command.VM
	luaState    *pluginlua.State
	luaExec     *pluginlua.Executor
	integration *integration.Manager

	// Event subscriptions
	subscriptions *subscriptionManager

	// State
	running atomic.Bool
	done    chan struct{}

	// Shutdown synchronization
	shutdownOnce sync.Once

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// WorkspacePath is the workspace/project directory.
	WorkspacePath string

	// Files are files to open on startup.
	Files []string

	// Debug enables debug mode with extra logging.
	Debug bool

	// LogLevel sets the logging verbosity.
	LogLevel string

	// ReadOnly opens files in read-only mode.
	ReadOnly bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	// Use bootstrapper for component initialization with cleanup on failure
	b := newBootstrapper(app, opts)
	if err := b.bootstrap(); err != nil {
		return nil, err
	}

	// Wire event subscriptions after successful bootstrap
	if err := app.WireEventSubscriptions(); err != nil {
		b.cleanup()
		return nil, &InitError{Component: "event subscriptions", Err: err}
	}

	return app, nil
}

// Run starts the application. It initializes modes and the command VM,
// then blocks until Shutdown is called. Input is fed in separately by
// the server process through HandleKeyEvent, since this package never
// polls a terminal itself.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	// Wire dispatcher to active document
	app.WireDispatcher()

	// Set initial mode
	if err := app.modeManager.SetInitialMode("normal"); err != nil {
		// Non-fatal, continue without mode
		_ = err
	}

	// Run the init block of any command script registered before startup.
	if app.cmdVM != nil {
		if prog := app.initProgram(); prog != nil {
			if _, err := app.cmdVM.RunInit(prog, app.commandHost()); err != nil {
				_ = err // non-fatal: a broken init script shouldn't block startup
			}
		}
	}

	<-app.done
	return nil
}

// HandleKeyEvent routes one decoded key event through the mode manager.
// Returns ErrQuit if the key caused the application to request exit.
func (app *Application) HandleKeyEvent(ev key.Event) error {
	if app.modeManager == nil {
		return nil
	}

	currentMode := app.modeManager.Current()
	if currentMode == nil {
		return nil
	}

	modeCtx := app.buildModeContext()
	result := currentMode.HandleUnmapped(ev, modeCtx)
	if result == nil {
		return nil
	}

	return app.processModeResult(result, ev)
}

// CursorProvider exposes cursor and selection state for the active
// document in the plain (line, column) shape a client renderer needs.
func (app *Application) CursorProvider() *DocumentCursorProvider {
	return NewDocumentCursorProvider(app.documents)
}

// Shutdown initiates graceful shutdown.
// Safe to call multiple times.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		// Signal event loop to stop
		close(app.done)

		// Perform cleanup if running
		if app.running.Load() {
			app.shutdown()
		}
	})
}

// shutdown performs cleanup in reverse initialization order.
func (app *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup

	// 1. Stop the Lua executor
	if app.luaExec != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.luaExec.Close()
		}()
	}

	// 2. Stop integration
	if app.integration != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.integration.Close()
		}()
	}

	// 3. Stop LSP
	if app.lsp != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.lsp.Shutdown(ctx)
		}()
	}

	// Wait for async shutdowns with timeout
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Timeout - continue with cleanup
	}

	// 4. Close the Lua state
	if app.luaState != nil {
		_ = app.luaState.Close()
	}

	// 5. Cleanup event subscriptions (before stopping event bus)
	// Subscriptions must be cleaned up while event bus is still running
	// to properly unsubscribe handlers.
	if app.subscriptions != nil {
		app.subscriptions.cleanup()
	}

	// 6. Close config
	if app.config != nil {
		app.config.Close()
	}

	// 7. Stop event bus
	if app.eventBus != nil {
		app.eventBus.Stop(ctx)
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// EventBus returns the event bus.
func (app *Application) EventBus() event.Bus {
	return app.eventBus
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// ModeManager returns the mode manager.
func (app *Application) ModeManager() *mode.Manager {
	return app.modeManager
}

// Dispatcher returns the dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Documents returns the document manager.
func (app *Application) Documents() *DocumentManager {
	return app.documents
}

// WorkspaceRoot returns the workspace root directory (may be empty).
func (app *Application) WorkspaceRoot() string {
	return app.workspaceRoot
}

// LSP returns the LSP manager.
func (app *Application) LSP() *lsp.Manager {
	return app.lsp
}

// CommandVM returns the command-scripting VM (may be nil).
func (app *Application) CommandVM() *command.VM {
	return app.cmdVM
}

// Integration returns the integration manager (may be nil).
func (app *Application) Integration() *integration.Manager {
	return app.integration
}

// ActiveDocument returns the active document (may be nil).
func (app *Application) ActiveDocument() *Document {
	return app.documents.Active()
}

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return "init " + e.Component
	}
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// placeholderMode is a minimal mode implementation for bootstrapping.
type placeholderMode struct {
	name string
}

// Compile-time assertion that placeholderMode implements mode.Mode.
var _ mode.Mode = (*placeholderMode)(nil)

func (m *placeholderMode) Name() string        { return m.name }
func (m *placeholderMode) DisplayName() string { return m.name }
func (m *placeholderMode) CursorStyle() mode.CursorStyle {
	if m.name == "insert" {
		return mode.CursorBar
	}
	return mode.CursorBlock
}

func (m *placeholderMode) Enter(_ *mode.Context) error { return nil }
func (m *placeholderMode) Exit(_ *mode.Context) error  { return nil }

func (m *placeholderMode) HandleUnmapped(_ key.Event, _ *mode.Context) *mode.UnmappedResult {
	return nil
}
