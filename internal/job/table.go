package job

import (
	"time"

	"golang.org/x/sys/unix"
)

// Table is the insertion-ordered sequence of jobs the shell is tracking.
// It is only ever touched from the shell's single goroutine, so it carries
// no locking of its own.
type Table struct {
	jobs []*Job
}

// NewTable returns an empty job table.
func NewTable() *Table {
	return &Table{}
}

// Insert assigns job_id (tail id + 1, or 1 if the table is empty) and
// appends the job.
func (t *Table) Insert(j *Job) {
	if len(t.jobs) == 0 {
		j.JobID = 1
	} else {
		j.JobID = t.jobs[len(t.jobs)-1].JobID + 1
	}
	t.jobs = append(t.jobs, j)
}

// Remove unlinks j from the table.
func (t *Table) Remove(j *Job) {
	for i, cur := range t.jobs {
		if cur == j {
			t.jobs = append(t.jobs[:i], t.jobs[i+1:]...)
			return
		}
	}
}

// Lookup finds a job by id, or nil.
func (t *Table) Lookup(id int) *Job {
	for _, j := range t.jobs {
		if j.JobID == id {
			return j
		}
	}
	return nil
}

// FindByPid finds the job owning pid, or nil.
func (t *Table) FindByPid(pid int) *Job {
	for _, j := range t.jobs {
		if j.HasPid(pid) {
			return j
		}
	}
	return nil
}

// Jobs returns a snapshot of the table in insertion order.
func (t *Table) Jobs() []*Job {
	out := make([]*Job, len(t.jobs))
	copy(out, t.jobs)
	return out
}

// Len reports how many jobs are currently tracked.
func (t *Table) Len() int {
	return len(t.jobs)
}

// CancelAll sends SIGCONT then SIGTERM to every live job's process group
// and marks it Canceled. SIGCONT precedes SIGTERM because a stopped group
// cannot act on SIGTERM until continued.
func (t *Table) CancelAll() {
	for _, j := range t.jobs {
		if j.Status != Running && j.Status != Suspended {
			continue
		}
		if j.PGID > 0 {
			_ = unix.Kill(-j.PGID, unix.SIGCONT)
			_ = unix.Kill(-j.PGID, unix.SIGTERM)
		}
		j.Status = Canceled
	}
}

// gracePeriod bounds how long WaitAll waits for a canceled group to drain
// on its own before escalating to SIGKILL.
const gracePeriod = 2 * time.Second

// WaitAll blocks until every non-terminal job's process group has been
// fully reaped, restarting on EINTR and escalating to SIGKILL if a group
// outlives the grace period.
func (t *Table) WaitAll() {
	for _, j := range t.jobs {
		if j.Status.Terminal() || j.PGID <= 0 {
			continue
		}
		drainGroup(j.PGID)
		j.Status = Exited
	}
}

// drainGroup polls (non-blocking, so a grace timer can be enforced) until
// the process group has no children left, sending SIGKILL once the grace
// period elapses.
func drainGroup(pgid int) {
	deadline := time.Now().Add(gracePeriod)
	killed := false
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-pgid, &ws, unix.WNOHANG, nil)
		if err == unix.ECHILD {
			return
		}
		if err == unix.EINTR {
			continue
		}
		if pid > 0 {
			continue
		}
		if !killed && time.Now().After(deadline) {
			_ = unix.Kill(-pgid, unix.SIGKILL)
			killed = true
		}
		time.Sleep(10 * time.Millisecond)
	}
}
