// Package engine is the job engine: the core state machine that forks a
// pipeline, wires pipes and redirections, sets process groups, hands over
// the controlling terminal, waits/reaps, and restores the terminal.
// Generalized from a simpler "start and forget"/"start and block" executor
// into the full New/Running/Suspended/Exited/Aborted/Canceled state
// machine a job-control shell needs.
package engine

import (
	"io"

	"golang.org/x/sys/unix"

	"smash/internal/expand"
	"smash/internal/shelldbg"
)

// Context is the shell state the engine needs: $-expansion/glob inputs,
// where to write background-job announcements, and where last_exit_code
// lives.
type Context interface {
	expand.Env
	SetLastExitCode(code int)
	GlobEnabled() bool
	Stdout() io.Writer
	Stderr() io.Writer
}

// Engine launches and manages jobs against one controlling terminal.
type Engine struct {
	ShellPgid     int
	ShellTermios  unix.Termios
	Interactive   bool
	StdinFd       int
	RusageEnabled bool
	Debug         *shelldbg.Logger
}

// New constructs an Engine bound to the shell's controlling terminal.
// shellTermios is the snapshot taken at shell startup, reasserted on the
// terminal every time a foreground job gives it back.
func New(shellPgid int, shellTermios unix.Termios, interactive bool, stdinFd int, rusage bool, dbg *shelldbg.Logger) *Engine {
	return &Engine{
		ShellPgid:     shellPgid,
		ShellTermios:  shellTermios,
		Interactive:   interactive,
		StdinFd:       stdinFd,
		RusageEnabled: rusage,
		Debug:         dbg,
	}
}

func (e *Engine) debugf(format string, args ...any) {
	if e.Debug != nil {
		e.Debug.Printf(format, args...)
	}
}
