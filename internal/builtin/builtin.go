// Package builtin implements the fixed vocabulary of commands the shell
// runs in its own process rather than forking: exit, cd, pwd, echo, jobs,
// fg, bg, kill, and the no-op comment token.
package builtin

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/sys/unix"

	"smash/internal/expand"
	"smash/internal/job"
)

// Shell is the state a builtin handler needs: environment/exit-code
// access shared with expand.Env, output streams, the job table, and the
// engine operations fg/bg/kill drive.
type Shell interface {
	expand.Env
	Stdout() io.Writer
	Stderr() io.Writer
	Jobs() *job.Table
	Chdir(dir string) error
	Getwd() (string, error)
	RunForeground(j *job.Job, sendCont bool) error
	RunBackground(j *job.Job, sendCont bool) error
	KillJob(j *job.Job, sig unix.Signal) error
}

// ErrExit signals that the "exit" builtin was invoked; the shell's main
// loop treats this as a request to leave the top-level loop with Code as
// the process exit status.
type ErrExit struct {
	Code int
}

func (e ErrExit) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

var names = map[string]bool{
	"exit": true,
	"cd":   true,
	"pwd":  true,
	"echo": true,
	"jobs": true,
	"fg":   true,
	"bg":   true,
	"kill": true,
	"#":    true,
}

// Lookup reports whether line's leading whitespace-delimited token names a
// builtin, matched by full equality (a token like "exitfoo" is not
// "exit").
func Lookup(line string) (name string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	if names[fields[0]] {
		return fields[0], true
	}
	return "", false
}

// Dispatch runs the builtin named by name against line's remaining
// arguments.
func Dispatch(sh Shell, name, line string) error {
	args := strings.Fields(line)
	switch name {
	case "exit":
		return exitBuiltin(sh, args)
	case "cd":
		return cd(sh, args)
	case "pwd":
		return pwd(sh)
	case "echo":
		return echo(sh, args)
	case "jobs":
		return jobsList(sh)
	case "fg":
		return fg(sh, args)
	case "bg":
		return bg(sh, args)
	case "kill":
		return killBuiltin(sh, args)
	case "#":
		return nil
	default:
		return fmt.Errorf("smash: %s: not a builtin", name)
	}
}
