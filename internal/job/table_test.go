package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smash/internal/parser"
)

func newJob(raw string) *Job {
	return &Job{Input: &parser.UserInput{Raw: raw}}
}

func TestTableInsertAssignsSequentialIDs(t *testing.T) {
	tbl := NewTable()
	j1 := newJob("a")
	j2 := newJob("b")
	tbl.Insert(j1)
	tbl.Insert(j2)
	assert.Equal(t, 1, j1.JobID)
	assert.Equal(t, 2, j2.JobID)
}

func TestTableIDsRestartAtOneAfterDrain(t *testing.T) {
	tbl := NewTable()
	j1 := newJob("a")
	tbl.Insert(j1)
	tbl.Remove(j1)
	require.Equal(t, 0, tbl.Len())

	j2 := newJob("b")
	tbl.Insert(j2)
	assert.Equal(t, 1, j2.JobID)
}

func TestTableLookupAndRemove(t *testing.T) {
	tbl := NewTable()
	j1 := newJob("a")
	j2 := newJob("b")
	tbl.Insert(j1)
	tbl.Insert(j2)

	assert.Equal(t, j2, tbl.Lookup(2))
	assert.Nil(t, tbl.Lookup(99))

	tbl.Remove(j1)
	assert.Equal(t, 1, tbl.Len())
	assert.Nil(t, tbl.Lookup(1))
	assert.Equal(t, j2, tbl.Lookup(2))
}

func TestTableFindByPid(t *testing.T) {
	tbl := NewTable()
	j1 := newJob("a")
	j1.Pids = []int{100, 101}
	tbl.Insert(j1)

	assert.Equal(t, j1, tbl.FindByPid(101))
	assert.Nil(t, tbl.FindByPid(999))
}

func TestJobLineFormatting(t *testing.T) {
	j := newJob("sleep 100 &")
	j.JobID = 3
	j.Status = Running
	assert.Equal(t, "[3] (running) sleep 100 &", j.Line())

	j.Status = Exited
	j.ExitCode = 0
	assert.Equal(t, "[3] (exited 0) sleep 100 &", j.Line())

	j.Status = Aborted
	j.ExitCode = 15
	assert.Equal(t, "[3] (aborted 15) sleep 100 &", j.Line())
}

func TestTableJobsSnapshotIsACopy(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(newJob("a"))
	snap := tbl.Jobs()
	tbl.Insert(newJob("b"))
	assert.Len(t, snap, 1)
	assert.Len(t, tbl.Jobs(), 2)
}
