// Package shell is the process-wide shell context and top-level loop: it
// wires the parser, expander, job table, engine, and builtins together
// behind one value instead of a set of package-global variables.
package shell

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"smash/internal/builtin"
	"smash/internal/engine"
	"smash/internal/job"
	"smash/internal/shelldbg"
	"smash/internal/termctl"
)

// Shell holds everything that would otherwise be a global in the
// reference implementation: job table, engine, terminal state, last exit
// code, and the streams builtins write to.
type Shell struct {
	Interactive   bool
	Glob          bool
	StdinFd       int
	ShellPgid     int
	ShellTermios  unix.Termios
	RusageEnabled bool

	Table  *job.Table
	Engine *engine.Engine
	Debug  *shelldbg.Logger

	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer

	lastExitCode int
}

// New constructs a Shell. stdin is read for input; it is also the
// controlling terminal fd when interactive is true.
func New(stdin *os.File, interactive, globEnabled, rusage bool, dbg *shelldbg.Logger) *Shell {
	return &Shell{
		Interactive:   interactive,
		Glob:          globEnabled,
		StdinFd:       int(stdin.Fd()),
		RusageEnabled: rusage,
		Table:         job.NewTable(),
		Debug:         dbg,
		reader:        bufio.NewReader(stdin),
		out:           os.Stdout,
		errOut:        os.Stderr,
	}
}

// Start runs the signal/terminal acquisition sequence when interactive,
// and constructs the job engine bound to the resulting state.
func (sh *Shell) Start() error {
	if sh.Interactive {
		pgid, saved, err := termctl.AcquireTerminal(sh.StdinFd)
		if err != nil {
			return err
		}
		sh.ShellPgid = pgid
		sh.ShellTermios = saved
	} else {
		sh.ShellPgid = unix.Getpgrp()
	}
	sh.Engine = engine.New(sh.ShellPgid, sh.ShellTermios, sh.Interactive, sh.StdinFd, sh.RusageEnabled, sh.Debug)
	return nil
}

// Teardown cancels every live job (SIGCONT then SIGTERM) and blocks until
// every process group has been reaped, escalating to SIGKILL for any
// group that outlives the grace period.
func (sh *Shell) Teardown() {
	sh.Table.CancelAll()
	sh.Table.WaitAll()
}

// expand.Env
func (sh *Shell) Getenv(name string) string { return os.Getenv(name) }
func (sh *Shell) LastExitCode() int         { return sh.lastExitCode }
func (sh *Shell) SetLastExitCode(code int)  { sh.lastExitCode = code }

// engine.Context / builtin.Shell
func (sh *Shell) GlobEnabled() bool { return sh.Glob }
func (sh *Shell) Stdout() io.Writer { return sh.out }
func (sh *Shell) Stderr() io.Writer { return sh.errOut }
func (sh *Shell) Jobs() *job.Table  { return sh.Table }
func (sh *Shell) Chdir(dir string) error {
	return os.Chdir(dir)
}
func (sh *Shell) Getwd() (string, error) { return os.Getwd() }

func (sh *Shell) RunForeground(j *job.Job, sendCont bool) error {
	return sh.Engine.RunForeground(sh, j, sendCont)
}
func (sh *Shell) RunBackground(j *job.Job, sendCont bool) error {
	return sh.Engine.RunBackground(sh, j, sendCont)
}
func (sh *Shell) KillJob(j *job.Job, sig unix.Signal) error {
	return sh.Engine.KillJob(j, sig)
}

var _ builtin.Shell = (*Shell)(nil)
var _ engine.Context = (*Shell)(nil)
