package engine

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"smash/internal/job"
	"smash/internal/termctl"
)

// updateStatus maps a reaped WaitStatus onto the job's Status/ExitCode.
func updateStatus(j *job.Job, ws unix.WaitStatus) {
	switch {
	case ws.Stopped():
		j.Status = job.Suspended
	case ws.Signaled():
		j.Status = job.Aborted
		j.ExitCode = int(ws.Signal())
	case ws.Exited():
		j.Status = job.Exited
		j.ExitCode = ws.ExitStatus()
	case ws.Continued():
		j.Status = job.Running
	}
}

// waitForeground runs one waitpid(pgid, WUNTRACED) call, restarted only on
// EINTR, matching job_wait's own single-shot reap: it catches one status
// change per call and relies on the non-blocking reaper to mop up the rest
// of a pipeline's members over time (see DESIGN.md's open-question notes).
// On return, the terminal is reclaimed and last_exit_code/the
// suspended-job notice are updated.
func (e *Engine) waitForeground(ctx Context, j *job.Job) error {
	var ws unix.WaitStatus
	var ru unix.Rusage
	var pid int
	var err error
	for {
		pid, err = unix.Wait4(-j.PGID, &ws, unix.WUNTRACED, &ru)
		if err == unix.EINTR {
			continue
		}
		break
	}
	if err != nil {
		return fmt.Errorf("engine: wait: %w", err)
	}
	e.debugf("reaped pid=%d job=%d", pid, j.JobID)
	updateStatus(j, ws)

	if e.Interactive {
		if t, terr := termctl.GetTermios(e.StdinFd); terr == nil {
			j.SavedTermios = t
		}
		if serr := termctl.SetForeground(e.StdinFd, e.ShellPgid); serr != nil {
			return serr
		}
		if terr := termctl.SetTermios(e.StdinFd, &e.ShellTermios); terr != nil {
			return terr
		}
	}

	switch j.Status {
	case job.Exited:
		ctx.SetLastExitCode(j.ExitCode)
		if e.RusageEnabled {
			e.printRusage(ctx, j, ru)
		}
	case job.Aborted:
		if e.RusageEnabled {
			e.printRusage(ctx, j, ru)
		}
	case job.Suspended:
		fmt.Fprintln(ctx.Stdout(), j.Line())
	}
	return nil
}

// printRusage prints the "-t" resource report line, using wall-clock
// elapsed since launch and the rusage accounting Wait4 already captured
// for the reaped child.
func (e *Engine) printRusage(ctx Context, j *job.Job, ru unix.Rusage) {
	real := time.Since(j.StartTime)
	fmt.Fprintf(ctx.Stderr(), "TIMES: real=%s user=%s sys=%s\n",
		formatDuration(real),
		formatTimeval(ru.Utime),
		formatTimeval(ru.Stime))
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d.%01ds", int64(d/time.Second), int64(d%time.Second)/100_000_000)
}

func formatTimeval(tv unix.Timeval) string {
	return fmt.Sprintf("%d.%01ds", tv.Sec, tv.Usec/100_000)
}

// ReapNonBlocking runs before and after each line read: it drains every
// available WNOHANG status change and applies it to the owning job,
// matched by pid rather than just the group leader's pgid, so a reaped
// non-leader member of a still-running pipeline isn't mistaken for
// unknown.
func (e *Engine) ReapNonBlocking(ctx Context, table *job.Table) {
	for {
		var ws unix.WaitStatus
		var ru unix.Rusage
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, &ru)
		if err != nil || pid <= 0 {
			return
		}
		j := table.FindByPid(pid)
		if j == nil {
			e.debugf("reaped unknown pid=%d", pid)
			continue
		}
		updateStatus(j, ws)
		if e.RusageEnabled && (j.Status == job.Exited || j.Status == job.Aborted) {
			e.printRusage(ctx, j, ru)
		}
	}
}
