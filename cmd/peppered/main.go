// Package main is the entry point for the editor. The same binary acts
// as client and server: the default invocation dials (or spawns) the
// per-session server and relays terminal input to it; --server runs
// the headless core that owns buffers, modes and LSP clients.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/peppered/internal/app"
	"github.com/dshills/peppered/internal/server"
	"github.com/dshills/peppered/internal/transport"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type cliOptions struct {
	app.Options

	session      string
	printSession bool
	runServer    bool
	quitOnly     bool
	positional   []string
}

func run() int {
	opts := parseFlags()

	session := opts.session
	if session == "" {
		derived, err := transport.DefaultSessionName()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: deriving session name: %v\n", err)
			return 1
		}
		session = derived
	}

	if opts.printSession {
		fmt.Println(transport.SocketPath(session))
		return 0
	}

	if opts.runServer {
		return runServer(session, opts.Options)
	}

	return runClient(session, opts.positional, opts.quitOnly)
}

// runServer bootstraps the headless Application and serves the
// session's socket until SIGINT/SIGTERM.
func runServer(session string, appOpts app.Options) int {
	application, err := app.New(appOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ln, err := transport.Listen(session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: listening on session %q: %v\n", session, err)
		return 1
	}
	defer ln.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		_ = application.Run()
	}()

	srv := server.New(application, ln)
	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		application.Shutdown()
		return 1
	}

	application.Shutdown()
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.WorkspacePath, "workspace", "", "Workspace/project directory")
	flag.StringVar(&opts.WorkspacePath, "w", "", "Workspace/project directory (shorthand)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug mode (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open files in read-only mode")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open files in read-only mode (shorthand)")
	flag.StringVar(&opts.session, "session", "", "Override the derived session name")
	flag.BoolVar(&opts.printSession, "print-session", false, "Print the derived session endpoint path and exit")
	flag.BoolVar(&opts.runServer, "server", false, "Run as the server for the current session")
	flag.BoolVar(&opts.quitOnly, "quit", false, "Connect, send init, and exit without attaching a terminal")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "peppered - client/server modal editor core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: peppered [options] [path[:line[,col]]...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  peppered                    Attach to (or start) the default session\n")
		fmt.Fprintf(os.Stderr, "  peppered file.go:42         Open a file at line 42\n")
		fmt.Fprintf(os.Stderr, "  peppered --print-session    Print the session socket path\n")
		fmt.Fprintf(os.Stderr, "  peppered --server           Run the headless server directly\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("peppered %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	opts.positional = flag.Args()
	opts.Files = filesFromPositional(opts.positional)

	if opts.WorkspacePath == "" && len(opts.Files) > 0 {
		if absPath, err := filepath.Abs(opts.Files[0]); err == nil {
			opts.WorkspacePath = filepath.Dir(absPath)
		}
	}

	return opts
}

// filesFromPositional strips the optional :line[,col] suffix each
// positional argument may carry, leaving plain paths for the document
// manager to open. The line/column itself travels to the server
// unparsed, inside the raw Init payload.
func filesFromPositional(args []string) []string {
	files := make([]string, 0, len(args))
	for _, a := range args {
		files = append(files, splitPathLineCol(a))
	}
	return files
}

// splitPathLineCol returns just the path portion of a path[:line[,col]]
// positional argument.
func splitPathLineCol(arg string) string {
	idx := strings.LastIndexByte(arg, ':')
	if idx < 0 {
		return arg
	}
	suffix := arg[idx+1:]
	if !isLineColSuffix(suffix) {
		return arg
	}
	return arg[:idx]
}

func isLineColSuffix(s string) bool {
	parts := strings.SplitN(s, ",", 2)
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return false
	}
	if len(parts) == 2 {
		if _, err := strconv.Atoi(parts[1]); err != nil {
			return false
		}
	}
	return true
}
