package shell

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, werr := w.WriteString(input)
	require.NoError(t, werr)
	require.NoError(t, w.Close())

	sh := New(r, false, false, false, nil)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	sh.out = out
	sh.errOut = errOut
	require.NoError(t, sh.Start())
	return sh, out, errOut
}

func TestTrimCommentStripsAndTrims(t *testing.T) {
	assert.Equal(t, "echo hi", trimComment("  echo hi # trailing comment\n"))
	assert.Equal(t, "", trimComment("# only a comment\n"))
	assert.Equal(t, "echo hi", trimComment("echo hi\n"))
}

func TestRunExecutesEchoAndExits(t *testing.T) {
	sh, out, _ := newTestShell(t, "echo hello\nexit 3\n")
	code := sh.Run()
	assert.Equal(t, 3, code)
	assert.Equal(t, "hello\n", out.String())
}

func TestRunStopsCleanlyOnEOF(t *testing.T) {
	sh, _, _ := newTestShell(t, "pwd\n")
	code := sh.Run()
	assert.Equal(t, 0, code)
}

func TestRunSkipsEmptyAndCommentLines(t *testing.T) {
	sh, out, errOut := newTestShell(t, "\n# nothing here\n   \nexit\n")
	code := sh.Run()
	assert.Equal(t, 0, code)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestRunReportsUnknownJobIdOnFg(t *testing.T) {
	sh, _, errOut := newTestShell(t, "fg 5\nexit\n")
	code := sh.Run()
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut.String(), "no such job")
}
