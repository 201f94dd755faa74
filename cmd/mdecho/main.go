// Command mdecho is a terminal markdown editor with a live CommonMark
// preview, configurable theme, and shell-outs to external lint/format
// tools.
//
// Usage:
//
//	mdecho [flags] [file]
//
// The optional file argument is opened at startup. A path that does not
// exist yet is adopted as the session's save target, so a plain save
// writes there without prompting.
//
// Flags:
//
//	-config string  Path to config.toml (default: $XDG_CONFIG_HOME/mdecho/config.toml)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fibnas/mdecho"
	bt "github.com/fibnas/mdecho/bubbletea"
	"github.com/fibnas/mdecho/config"
	"github.com/fibnas/mdecho/fs"
	"github.com/fibnas/mdecho/runner"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mdecho: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "Path to config.toml")
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// First run: write a default config template users can edit. Only
	// the standard location is seeded; an explicit -config must exist.
	if *configPath == config.DefaultPath() {
		_ = config.EnsureDefault(*configPath)
	}
	cfg := config.Load(*configPath)

	session, err := bootstrapSession(flag.Arg(0))
	if err != nil {
		return err
	}

	tools := runner.New()
	toolFn := func(ctx context.Context, kind runner.Kind, s *mdecho.Session) (runner.Result, error) {
		return tools.Invoke(ctx, kind, cfg, s)
	}
	scanFn := func() ([]string, error) {
		return fs.Scan(cfg.WorkingDir, cfg.Ignore)
	}

	m := bt.New(session, cfg, toolFn, scanFn)
	if err := bt.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// bootstrapSession builds the startup session from the optional path
// argument: an existing file is opened; a missing one becomes the save
// target of a fresh session.
func bootstrapSession(arg string) (*mdecho.Session, error) {
	if arg == "" {
		return mdecho.NewSession(), nil
	}
	if _, err := os.Stat(arg); errors.Is(err, os.ErrNotExist) {
		return mdecho.NewSessionAt(arg), nil
	}
	session := mdecho.NewSession()
	if err := session.Open(arg); err != nil {
		return nil, err
	}
	return session, nil
}
