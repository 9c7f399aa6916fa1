// Package main is the entry point for the copyline editor.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/dshills/copyline/internal/app"
	"github.com/dshills/copyline/internal/logging"
	"github.com/dshills/copyline/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var cli struct {
	Config       string           `short:"c" help:"Configuration file path" type:"path"`
	LogLevel     string           `help:"Log level (debug, info, warn, error)"`
	LogFile      string           `help:"Append logs to this file" type:"path"`
	Keymap       string           `help:"Key binding file (.sublime-keymap JSON)" type:"path"`
	ExportKeymap string           `help:"Write the active key bindings to this file and exit" type:"path"`
	NoEnv        bool             `help:"Ignore COPYLINE_* settings from .env and the environment"`
	Version      kong.VersionFlag `short:"v" help:"Show version information"`

	File string `arg:"" optional:"" help:"File to edit; a missing file is created on save" type:"path"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("copyline"),
		kong.Description("Line copy and collate editor."),
		kong.Vars{"version": fmt.Sprintf("copyline %s (commit %s, built %s)", version, commit, date)},
	)
	if cli.LogLevel != "" && !logging.ValidLevel(cli.LogLevel) {
		ctx.Fatalf("invalid log level %q (must be debug, info, warn, or error)", cli.LogLevel)
	}
	os.Exit(run())
}

func run() int {
	opts := app.Options{
		ConfigPath: cli.Config,
		File:       cli.File,
		LogLevel:   cli.LogLevel,
		KeymapPath: cli.Keymap,
		NoEnv:      cli.NoEnv,
	}

	if cli.LogFile != "" {
		lf, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			return 1
		}
		defer lf.Close()
		opts.LogOutput = lf
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	opts.Backend = term

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if cli.ExportKeymap != "" {
		if err := application.Keymap().SaveFile(cli.ExportKeymap); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			_ = term.PostEvent(backend.Event{Type: backend.EventClosed})
		}
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
