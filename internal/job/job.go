// Package job implements the job table: the ordered collection of jobs the
// shell is tracking, their lifecycle states, and the lookup/listing
// operations builtins and the engine need.
package job

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"smash/internal/parser"
)

// Status is one of the six states a job moves through.
type Status int

const (
	New Status = iota
	Running
	Suspended
	Exited
	Aborted
	Canceled
)

func (s Status) String() string {
	switch s {
	case New:
		return "new"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Exited:
		return "exited"
	case Aborted:
		return "aborted"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is one a job never leaves.
func (s Status) Terminal() bool {
	return s == Exited || s == Aborted
}

// Job is one submitted UserInput being tracked by the shell.
type Job struct {
	Input *parser.UserInput

	JobID int
	PGID  int

	Status   Status
	ExitCode int

	IsInBackground bool

	// SavedTermios holds the terminal attributes captured the last time
	// this job was displaced from the foreground, restored on fg's resume.
	SavedTermios *unix.Termios

	StartTime time.Time

	// Pids tracks every child pid launched for this job, so the
	// non-blocking reaper can match a reaped pid to its job even after
	// the group leader itself has already been reaped (see DESIGN.md).
	Pids []int
}

// HasPid reports whether pid belongs to this job.
func (j *Job) HasPid(pid int) bool {
	for _, p := range j.Pids {
		if p == pid {
			return true
		}
	}
	return false
}

// Line formats the job the way the jobs builtin lists it: terminal states
// carry a numeric code, non-terminal states don't.
func (j *Job) Line() string {
	raw := ""
	if j.Input != nil {
		raw = j.Input.Raw
	}
	if j.Status.Terminal() {
		return fmt.Sprintf("[%d] (%s %d) %s", j.JobID, j.Status, j.ExitCode, raw)
	}
	return fmt.Sprintf("[%d] (%s) %s", j.JobID, j.Status, raw)
}

// FormatAll renders a sequence of jobs as one line each, in table order.
func FormatAll(jobs []*Job) string {
	var b strings.Builder
	for _, j := range jobs {
		b.WriteString(j.Line())
		b.WriteByte('\n')
	}
	return b.String()
}
