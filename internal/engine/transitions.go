package engine

import (
	"fmt"

	"golang.org/x/sys/unix"

	"smash/internal/job"
	"smash/internal/termctl"
)

// RunBackground requires New or Suspended, marks the job
// Running-in-background, and optionally SIGCONTs it.
func (e *Engine) RunBackground(ctx Context, j *job.Job, sendCont bool) error {
	if j.Status != job.New && j.Status != job.Suspended {
		return fmt.Errorf("smash: job %d is in state %s, cannot background", j.JobID, j.Status)
	}
	j.IsInBackground = true
	j.Status = job.Running
	if sendCont && j.PGID > 0 {
		if err := unix.Kill(-j.PGID, unix.SIGCONT); err != nil {
			return fmt.Errorf("smash: killpg(SIGCONT): %w", err)
		}
	}
	return nil
}

// RunForeground requires New, Suspended, or Running-but-backgrounded;
// rejects a job already in the foreground; hands over the terminal;
// optionally restores saved termios and SIGCONTs; then runs the
// foreground-wait protocol.
func (e *Engine) RunForeground(ctx Context, j *job.Job, sendCont bool) error {
	switch j.Status {
	case job.New, job.Suspended:
	case job.Running:
		if !j.IsInBackground {
			return fmt.Errorf("smash: job %d is already in the foreground", j.JobID)
		}
	default:
		return fmt.Errorf("smash: job %d is in state %s, cannot foreground", j.JobID, j.Status)
	}

	origStatus := j.Status
	j.Status = job.Running
	j.IsInBackground = false

	if e.Interactive {
		if err := termctl.SetForeground(e.StdinFd, j.PGID); err != nil {
			return err
		}
	}

	if sendCont && origStatus != job.Running {
		if j.SavedTermios != nil {
			_ = termctl.SetTermios(e.StdinFd, j.SavedTermios)
		}
		if j.PGID > 0 {
			if err := unix.Kill(-j.PGID, unix.SIGCONT); err != nil {
				return fmt.Errorf("smash: killpg(SIGCONT): %w", err)
			}
		}
	}

	return e.waitForeground(ctx, j)
}

// KillJob sends sig to job's process group. Only Running or Suspended
// jobs are valid targets.
func (e *Engine) KillJob(j *job.Job, sig unix.Signal) error {
	if j.Status != job.Running && j.Status != job.Suspended {
		return fmt.Errorf("smash: job %d is not running or suspended", j.JobID)
	}
	if j.PGID <= 0 {
		return fmt.Errorf("smash: job %d has no process group", j.JobID)
	}
	if err := unix.Kill(-j.PGID, sig); err != nil {
		return fmt.Errorf("smash: kill: %w", err)
	}
	return nil
}
