package engine

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"smash/internal/expand"
	"smash/internal/job"
	"smash/internal/parser"
	"smash/internal/termctl"
)

// The shell holds termctl.IgnoredSignals at "ignore" for its whole
// lifetime (set once at startup -- see termctl.AcquireTerminal). Go's
// os/exec has no hook to run code between fork and exec in a child, so
// there is no way to reset a child's inherited "ignore" disposition the
// way the C reference resets it inside launch_child. Instead, in
// interactive mode, each cmd.Start() (which performs the fork+exec
// synchronously) is bracketed by a reset/re-ignore pair: the window in
// which the shell itself could observe one of these signals un-ignored is
// the duration of a single fork+exec syscall. A non-interactive shell
// never ignores them, so it leaves dispositions alone.

// Launch forks the pipeline, wires pipes and redirections, establishes
// the process group, hands over the terminal for a foreground job, and
// then waits (non-interactive), returns (background), or runs the
// foreground-wait protocol.
func (e *Engine) Launch(ctx Context, j *job.Job) error {
	cmds := j.Input.Commands
	n := len(cmds)
	if n == 0 {
		return fmt.Errorf("engine: empty pipeline")
	}

	foreground := e.Interactive && !j.Input.IsBackground

	var started []*exec.Cmd
	var prevRead *os.File
	pgid := 0

	for k, c := range cmds {
		cmd, ownFiles, pipeWriter, nextRead, err := e.buildCmd(ctx, c, k, n, pgid, foreground, prevRead)
		if err != nil {
			e.abort(started, prevRead)
			return err
		}

		if e.Interactive {
			signal.Reset(termctl.IgnoredSignals...)
		}
		startErr := cmd.Start()
		if e.Interactive {
			signal.Ignore(termctl.IgnoredSignals...)
		}

		// Whether or not Start succeeded, the parent's copies of any fds
		// it handed to the child (redirection files, the write end of
		// this stage's output pipe, the read end of the previous stage's
		// pipe) must be closed now.
		for _, f := range ownFiles {
			_ = f.Close()
		}
		if pipeWriter != nil {
			_ = pipeWriter.Close()
		}
		if prevRead != nil {
			_ = prevRead.Close()
		}

		if startErr != nil {
			if nextRead != nil {
				_ = nextRead.Close()
			}
			e.abort(started, nil)
			return fmt.Errorf("smash: %s: %w", c.Name(), startErr)
		}

		if k == 0 {
			pgid = cmd.Process.Pid
		}
		// Dual-sided setpgid: the child already requested this via
		// SysProcAttr; the parent repeats it so neither side can observe
		// a missing group membership.
		_ = unix.Setpgid(cmd.Process.Pid, pgid)

		j.PGID = pgid
		j.Pids = append(j.Pids, cmd.Process.Pid)
		started = append(started, cmd)
		prevRead = nextRead
	}

	j.Status = job.Running
	j.StartTime = time.Now()

	if !e.Interactive {
		return e.waitForeground(ctx, j)
	}
	if j.Input.IsBackground {
		j.IsInBackground = true
		fmt.Fprintf(ctx.Stdout(), "[%d] %d\n", j.JobID, j.PGID)
		return nil
	}
	return e.RunForeground(ctx, j, false)
}

// buildCmd wires one pipeline stage's stdin/stdout/stderr and process
// group attributes. ownFiles are redirection-opened fds whose parent-side
// copy must be closed after Start regardless of outcome. pipeWriter (this
// stage's end of an internal pipe) and nextRead (the read end that
// becomes the next stage's stdin) are returned separately since their
// lifetimes span into the next loop iteration.
func (e *Engine) buildCmd(ctx Context, c *parser.Command, k, n, pgid int, foreground bool, prevRead *os.File) (cmd *exec.Cmd, ownFiles []*os.File, pipeWriter, nextRead *os.File, err error) {
	argv, err := expand.Components(c.Components, ctx, ctx.GlobEnabled())
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("smash: %s: %w", c.Raw, err)
	}
	if len(argv) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("smash: %s: empty command after expansion", c.Raw)
	}

	cmd = exec.Command(argv[0], argv[1:]...)

	switch {
	case c.RedirectStdin != "":
		f, oerr := os.Open(c.RedirectStdin)
		if oerr != nil {
			return nil, nil, nil, nil, fmt.Errorf("smash: %s: %w", c.RedirectStdin, oerr)
		}
		cmd.Stdin = f
		ownFiles = append(ownFiles, f)
	case k > 0:
		cmd.Stdin = prevRead
	default:
		cmd.Stdin = os.Stdin
	}

	// Pipe fds are applied before file redirections so that an explicit
	// '<'/'>' on the head/tail of a pipeline wins.
	cmd.Stdout = os.Stdout
	if k < n-1 {
		pr, pw, perr := os.Pipe()
		if perr != nil {
			return nil, nil, nil, nil, fmt.Errorf("smash: pipe: %w", perr)
		}
		cmd.Stdout = pw
		pipeWriter = pw
		nextRead = pr
	}
	if c.RedirectStdout != "" {
		flags := os.O_CREATE | os.O_WRONLY
		if c.AppendStdout {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, oerr := os.OpenFile(c.RedirectStdout, flags, 0666)
		if oerr != nil {
			return nil, nil, nil, nil, fmt.Errorf("smash: %s: %w", c.RedirectStdout, oerr)
		}
		cmd.Stdout = f
		ownFiles = append(ownFiles, f)
	}

	if c.RedirectStderr != "" {
		f, oerr := os.OpenFile(c.RedirectStderr, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if oerr != nil {
			return nil, nil, nil, nil, fmt.Errorf("smash: %s: %w", c.RedirectStderr, oerr)
		}
		cmd.Stderr = f
		ownFiles = append(ownFiles, f)
	} else {
		cmd.Stderr = os.Stderr
	}

	cmd.SysProcAttr = e.sysProcAttr(k, pgid, foreground)
	return cmd, ownFiles, pipeWriter, nextRead, nil
}

func (e *Engine) abort(started []*exec.Cmd, prevRead *os.File) {
	if prevRead != nil {
		_ = prevRead.Close()
	}
	for _, c := range started {
		if c.Process != nil {
			_ = c.Process.Kill()
		}
	}
}

// sysProcAttr builds the platform process-group directives for pipeline
// member k. The first member of a foreground job gets Foreground: true,
// which atomically sets its own process group and hands it the terminal
// as part of the fork+exec syscall -- Go's answer to the reference's
// child-side setpgid+tcsetpgrp-before-exec sequence.
func (e *Engine) sysProcAttr(k, pgid int, foreground bool) *syscall.SysProcAttr {
	attr := &syscall.SysProcAttr{Setpgid: true}
	if k == 0 {
		attr.Pgid = 0
		if foreground {
			attr.Foreground = true
			attr.Ctty = e.StdinFd
		}
	} else {
		attr.Pgid = pgid
	}
	return attr
}
