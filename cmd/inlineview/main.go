// Package main is the entry point for the inline edit preview.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/inlineview/internal/app"
	"github.com/dshills/inlineview/internal/config"
	"github.com/dshills/inlineview/internal/renderer/backend"
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

func run() int {
	opts := parseFlags()

	// Without a terminal there is nothing to draw on.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		opts.Dump = true
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		if errors.Is(err, app.ErrUsage) {
			return 2
		}
		return 1
	}
	defer application.Close()

	if opts.Dump {
		if err := application.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(terminal); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	go func() {
		for sig := range signals {
			if sig != syscall.SIGHUP {
				application.Shutdown()
				return
			}
			reload(application, terminal, opts.ConfigPath)
		}
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// reload re-reads the configuration on SIGHUP and hands it to the event loop.
func reload(application *app.Application, b backend.Backend, path string) {
	if path == "" {
		return
	}
	cfg, err := config.Load(path)
	if err != nil {
		application.Logger().Warn("reload of %s failed: %v", path, err)
		application.Metrics().RecordReload(false)
		return
	}
	if err := b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: cfg}); err != nil {
		application.Logger().Warn("reload dropped: %v", err)
	}
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml, .json)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.Theme, "theme", "", "Theme name (dark, light, high-contrast)")
	flag.BoolVar(&opts.Dump, "dump", false, "Print the layout and one painted frame, then exit")
	flag.IntVar(&opts.Width, "width", app.DefaultWidth, "Frame width in cells for -dump")
	flag.IntVar(&opts.Height, "height", app.DefaultHeight, "Frame height in cells for -dump")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "inlineview - side-by-side preview of an inline edit\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inlineview [options] [original modified]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  arrows, PgUp/PgDn, Home    Scroll the editor\n")
		fmt.Fprintf(os.Stderr, "  [ ]                        Move the cursor up or down\n")
		fmt.Fprintf(os.Stderr, "  t                          Cycle themes\n")
		fmt.Fprintf(os.Stderr, "  q, Esc, Ctrl-C             Quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inlineview                      Show the built-in sample\n")
		fmt.Fprintf(os.Stderr, "  inlineview old.go new.go        Preview the edit between two files\n")
		fmt.Fprintf(os.Stderr, "  inlineview -dump -width 120     Print the layout of the sample\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("inlineview %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	opts.Files = flag.Args()
	return opts
}
