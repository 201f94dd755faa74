// Package runner shells out to the configured lint/format tools and
// captures their output. At most one invocation is in flight at a time;
// the state machine is a tagged variant so "running with no command"
// cannot be represented.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fibnas/mdecho"
	"github.com/fibnas/mdecho/config"
)

// Kind selects which configured tool to run.
type Kind int

const (
	KindLint Kind = iota
	KindFormat
)

func (k Kind) String() string {
	if k == KindFormat {
		return "format"
	}
	return "lint"
}

// Result is the outcome of a completed tool run. A non-zero exit code is
// data, not an error: lint findings surface as readable output.
type Result struct {
	Kind     Kind
	Command  string // display form, target included
	ExitCode int
	Stdout   string // sanitized and tail-truncated
	Stderr   string

	// Reformatted carries the new buffer contents when a format run
	// rewrote its target. Nil when nothing changed. The runner never
	// mutates the session; applying this is the caller's decision.
	Reformatted *string
}

// State is the runner's current phase.
type State interface{ isState() }

// Idle means no invocation has run yet.
type Idle struct{}

// Preparing means the command and target are being resolved.
type Preparing struct{ Kind Kind }

// Running means an external process is executing.
type Running struct {
	Kind    Kind
	Command []string
	Target  string
}

// Completed holds the result of the last finished run.
type Completed struct{ Result Result }

// Failed holds the error that stopped the last run before completion.
type Failed struct{ Err error }

func (Idle) isState()      {}
func (Preparing) isState() {}
func (Running) isState()   {}
func (Completed) isState() {}
func (Failed) isState()    {}

// Runner executes configured external tools, one at a time.
type Runner struct {
	mu    sync.Mutex
	state State
}

// New returns an idle Runner.
func New() *Runner {
	return &Runner{state: Idle{}}
}

// State returns the runner's current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Busy reports whether an invocation is in flight.
func (r *Runner) Busy() bool {
	switch r.State().(type) {
	case Preparing, Running:
		return true
	}
	return false
}

// Invoke runs the tool of the given kind against the session, blocking
// until the process exits. When the tool is configured with
// *_use_open_file it targets the session's file and requires a clean
// session; otherwise the buffer is written to a temporary file which is
// removed on every exit path. A second Invoke while one is in flight
// returns mdecho.ErrToolBusy without spawning anything.
func (r *Runner) Invoke(ctx context.Context, kind Kind, cfg config.Config, session *mdecho.Session) (Result, error) {
	r.mu.Lock()
	switch r.state.(type) {
	case Preparing, Running:
		r.mu.Unlock()
		return Result{}, mdecho.ErrToolBusy
	}
	r.state = Preparing{Kind: kind}
	r.mu.Unlock()

	res, err := r.run(ctx, kind, cfg, session)
	if err != nil {
		r.setState(Failed{Err: err})
		return Result{}, err
	}
	r.setState(Completed{Result: res})
	return res, nil
}

func (r *Runner) run(ctx context.Context, kind Kind, cfg config.Config, session *mdecho.Session) (Result, error) {
	command, useOpen := toolFor(kind, cfg.Tools)
	if len(command) == 0 {
		return Result{}, fmt.Errorf("no %s command configured: add a [tools] entry to config.toml", kind)
	}

	target, cleanup, err := resolveTarget(useOpen, session)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	argv := append(append([]string{}, command...), target)
	cmd := osexec.CommandContext(ctx, argv[0], argv[1:]...)
	if info, statErr := os.Stat(cfg.WorkingDir); statErr == nil && info.IsDir() {
		cmd.Dir = cfg.WorkingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.setState(Running{Kind: kind, Command: command, Target: target})

	if err := cmd.Start(); err != nil {
		return Result{}, &mdecho.SpawnError{Command: command[0], Err: err}
	}

	exitCode := 0
	if waitErr := cmd.Wait(); waitErr != nil {
		var exitErr *osexec.ExitError
		if !errors.As(waitErr, &exitErr) || exitErr.ExitCode() < 0 {
			// Not a normal process exit: context cancellation or a
			// wait-level failure.
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			return Result{}, waitErr
		}
		exitCode = exitErr.ExitCode()
	}

	res := Result{
		Kind:     kind,
		Command:  strings.Join(argv, " "),
		ExitCode: exitCode,
		Stdout:   display(stdout.String()),
		Stderr:   display(stderr.String()),
	}

	if kind == KindFormat && exitCode == 0 {
		if updated, ok := readBack(target, session.Buffer()); ok {
			res.Reformatted = &updated
		}
	}
	return res, nil
}

func toolFor(kind Kind, tools config.Tools) (command []string, useOpen bool) {
	if kind == KindFormat {
		return tools.Format, tools.FormatUseOpenFile
	}
	return tools.Lint, tools.LintUseOpenFile
}

// resolveTarget picks the file the tool operates on. The returned cleanup
// removes the temporary file when one was created and is a no-op
// otherwise, so callers can defer it unconditionally.
func resolveTarget(useOpen bool, session *mdecho.Session) (string, func(), error) {
	nop := func() {}

	if useOpen {
		if session.Dirty() {
			return "", nop, mdecho.ErrUnsavedChanges
		}
		path := session.Path()
		if path == "" {
			return "", nop, mdecho.ErrNoPath
		}
		info, err := os.Stat(path)
		if err != nil {
			return "", nop, &mdecho.IOError{Op: "stat", Path: path, Err: err}
		}
		if !info.Mode().IsRegular() {
			return "", nop, &mdecho.IOError{Op: "stat", Path: path, Err: errors.New("not a regular file")}
		}
		return path, nop, nil
	}

	tmp, err := os.CreateTemp("", "mdecho-*.md")
	if err != nil {
		return "", nop, &mdecho.IOError{Op: "write", Path: "temp file", Err: err}
	}
	name := tmp.Name()
	cleanup := func() { os.Remove(name) }
	if _, err := tmp.WriteString(session.Buffer()); err != nil {
		tmp.Close()
		cleanup()
		return "", nop, &mdecho.IOError{Op: "write", Path: name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nop, &mdecho.IOError{Op: "write", Path: name, Err: err}
	}
	return name, cleanup, nil
}

// readBack reads the formatter's target after a successful run and
// reports whether it now differs from the buffer. Unreadable or binary
// results are ignored rather than clobbering the buffer.
func readBack(target, buffer string) (string, bool) {
	data, err := os.ReadFile(target)
	if err != nil || !utf8.Valid(data) {
		return "", false
	}
	updated := string(data)
	if updated == buffer {
		return "", false
	}
	return updated, true
}

func display(s string) string {
	return TruncateTail(Sanitize(s), DefaultMaxLines, DefaultMaxBytes)
}
