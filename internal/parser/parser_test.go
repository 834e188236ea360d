package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimple(t *testing.T) {
	ui, err := Parse("echo hello world")
	require.NoError(t, err)
	require.NotNil(t, ui)
	require.Len(t, ui.Commands, 1)
	assert.Equal(t, []string{"echo", "hello", "world"}, ui.Commands[0].Components)
	assert.False(t, ui.IsBackground)
}

func TestParseEmptyLine(t *testing.T) {
	ui, err := Parse("   ")
	require.NoError(t, err)
	assert.Nil(t, ui)
}

func TestParseBackgroundSeparateToken(t *testing.T) {
	ui, err := Parse("sleep 2 &")
	require.NoError(t, err)
	require.NotNil(t, ui)
	assert.True(t, ui.IsBackground)
	assert.Equal(t, []string{"sleep", "2"}, ui.Commands[0].Components)
}

func TestParseBackgroundJoinedToken(t *testing.T) {
	ui, err := Parse("sleep 2&")
	require.NoError(t, err)
	require.NotNil(t, ui)
	assert.True(t, ui.IsBackground)
	assert.Equal(t, []string{"sleep", "2"}, ui.Commands[0].Components)
}

func TestParsePipeline(t *testing.T) {
	ui, err := Parse("du /tmp | sort -nr | wc -l")
	require.NoError(t, err)
	require.Len(t, ui.Commands, 3)
	assert.Equal(t, []string{"du", "/tmp"}, ui.Commands[0].Components)
	assert.Equal(t, []string{"sort", "-nr"}, ui.Commands[1].Components)
	assert.Equal(t, []string{"wc", "-l"}, ui.Commands[2].Components)
}

func TestParseRedirectionJoined(t *testing.T) {
	ui, err := Parse("ls >out.txt")
	require.NoError(t, err)
	require.Len(t, ui.Commands, 1)
	cmd := ui.Commands[0]
	assert.Equal(t, "out.txt", cmd.RedirectStdout)
	assert.False(t, cmd.AppendStdout)
	assert.Equal(t, []string{"ls"}, cmd.Components)
}

func TestParseRedirectionSeparated(t *testing.T) {
	ui, err := Parse("cat < out.txt")
	require.NoError(t, err)
	cmd := ui.Commands[0]
	assert.Equal(t, "out.txt", cmd.RedirectStdin)
	assert.Equal(t, []string{"cat"}, cmd.Components)
}

func TestParseAppendRedirection(t *testing.T) {
	ui, err := Parse("echo hi >> log.txt")
	require.NoError(t, err)
	cmd := ui.Commands[0]
	assert.Equal(t, "log.txt", cmd.RedirectStdout)
	assert.True(t, cmd.AppendStdout)
}

func TestParseStderrRedirection(t *testing.T) {
	ui, err := Parse("make 2> errs.txt")
	require.NoError(t, err)
	cmd := ui.Commands[0]
	assert.Equal(t, "errs.txt", cmd.RedirectStderr)
}

func TestParsePipelineWithRedirectionOnEnds(t *testing.T) {
	ui, err := Parse("cat < in.txt | grep error > out.txt")
	require.NoError(t, err)
	require.Len(t, ui.Commands, 2)
	assert.Equal(t, "in.txt", ui.Commands[0].RedirectStdin)
	assert.Equal(t, "out.txt", ui.Commands[1].RedirectStdout)
}

func TestParseHeadCommandMustHaveComponent(t *testing.T) {
	_, err := Parse("> out.txt")
	require.Error(t, err)
}

func TestParseIsPureFunction(t *testing.T) {
	line := "grep -i foo < in.txt | sort > out.txt &"
	ui1, err1 := Parse(line)
	ui2, err2 := Parse(line)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, ui1, ui2)
}
