// Package main is the entry point for the Slate editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/slate/internal/app"
	"github.com/dshills/slate/internal/config"
	"github.com/dshills/slate/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	opts    app.Options
	format  bool
	init    bool
	force   bool
	version bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	if f.version {
		fmt.Printf("Slate %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}
	if f.init {
		return initProject(f)
	}
	if f.format {
		return formatFile(f)
	}
	return edit(f)
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.opts.SettingsPath, "config", "", "Path to settings file")
	flag.StringVar(&f.opts.SettingsPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&f.opts.ProjectDir, "project", "", "Directory or path of the project's "+config.ProjectFile)
	flag.StringVar(&f.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&f.format, "format", false, "Format and save the file, then exit")
	flag.BoolVar(&f.init, "init", false, "Write a starter "+config.ProjectFile+" and exit")
	flag.BoolVar(&f.force, "force", false, "With -init, replace an existing "+config.ProjectFile)
	flag.BoolVar(&f.version, "version", false, "Show version information")
	flag.BoolVar(&f.version, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Slate - a terminal editor for a single file\n\n")
		fmt.Fprintf(os.Stderr, "Usage: slate [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  slate main.c                Edit a file\n")
		fmt.Fprintf(os.Stderr, "  slate -format main.c        Run the project formatter on a file\n")
		fmt.Fprintf(os.Stderr, "  slate -init                 Create %s in the current directory\n", config.ProjectFile)
	}

	flag.Parse()

	switch f.opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.opts.LogLevel)
		os.Exit(2)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: slate edits one file at a time\n")
		os.Exit(2)
	}
	f.opts.File = flag.Arg(0)
	return f
}

func initProject(f flags) int {
	dir := f.opts.ProjectDir
	if dir == "" {
		dir = "."
	}
	path, err := config.WriteProjectTemplate(dir, f.force)
	if err != nil {
		if errors.Is(err, config.ErrTemplateExists) {
			fmt.Fprintf(os.Stderr, "Error: %v (use -force to replace it)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	fmt.Printf("wrote %s\n", path)
	return 0
}

// formatFile runs the project formatter on the file and saves it without
// starting the terminal interface. Logs go to stderr.
func formatFile(f flags) int {
	if f.opts.File == "" {
		fmt.Fprintf(os.Stderr, "Error: -format needs a file\n")
		return 2
	}
	f.opts.Logger = app.NewLogger(app.DefaultLoggerConfig())
	a, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.FormatAndSave(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func edit(f flags) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(os.Stderr, "Error: slate needs a terminal (use -format for batch formatting)\n")
		return 1
	}

	logger, closeLog, err := openLog(f.opts.SettingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	app.SetLogger(logger)

	f.opts.Logger = logger
	f.opts.SystemClipboard = true
	f.opts.WatchConfig = true

	a, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer a.Close()

	t, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)
	go func() {
		if _, ok := <-signals; ok {
			logger.Info("terminating on signal")
			a.RequestQuit()
		}
	}()

	if err := a.Run(t); err != nil {
		logger.Error("run: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openLog opens the log file named in the settings. The terminal owns
// stdout and stderr while the editor runs, so without a log file the
// output is discarded.
func openLog(settingsPath string) (*app.Logger, func() error, error) {
	nop := func() error { return nil }
	if settingsPath == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			return app.NullLogger, nop, nil
		}
		settingsPath = p
	}
	s, _ := config.LoadSettings(settingsPath)
	if s.Log.File == "" {
		return app.NullLogger, nop, nil
	}
	path := s.Log.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(settingsPath), path)
	}
	return app.NewFileLogger(path, app.ParseLogLevel(s.Log.Level))
}
