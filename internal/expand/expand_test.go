package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	vars     map[string]string
	lastCode int
}

func (f fakeEnv) Getenv(name string) string { return f.vars[name] }
func (f fakeEnv) LastExitCode() int         { return f.lastCode }

func TestVarExitCode(t *testing.T) {
	assert.Equal(t, "1", Var("$?", fakeEnv{lastCode: 1}))
	assert.Equal(t, "0", Var("$?", fakeEnv{lastCode: 0}))
}

func TestVarEnvLookup(t *testing.T) {
	env := fakeEnv{vars: map[string]string{"FOO": "bar"}}
	assert.Equal(t, "bar", Var("$FOO", env))
	assert.Equal(t, "", Var("$MISSING", env))
}

func TestVarPassthrough(t *testing.T) {
	assert.Equal(t, "hello", Var("hello", fakeEnv{}))
}

func TestComponentsSkipsProgramNameForGlob(t *testing.T) {
	env := fakeEnv{}
	out, err := Components([]string{"*", "literal"}, env, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"*", "literal"}, out)
}

func TestComponentsExpandsVarsEverywhere(t *testing.T) {
	env := fakeEnv{vars: map[string]string{"PROG": "echo"}}
	out, err := Components([]string{"$PROG", "$PROG"}, env, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "echo"}, out)
}

func TestResolveTildeHome(t *testing.T) {
	env := fakeEnv{vars: map[string]string{"HOME": "/home/u"}}
	assert.Equal(t, "/home/u", ResolveTilde("~", env))
	assert.Equal(t, "/home/u/dir", ResolveTilde("~/dir", env))
	assert.Equal(t, "~bob/dir", ResolveTilde("~bob/dir", env))
}

func TestGlobTildeNoMetacharsAlwaysSucceeds(t *testing.T) {
	env := fakeEnv{vars: map[string]string{"HOME": "/home/u"}}
	out, err := Components([]string{"cmd", "~/nonexistent-literal-path"}, env, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd", "/home/u/nonexistent-literal-path"}, out)
}

func TestGlobNoMatchErrors(t *testing.T) {
	env := fakeEnv{}
	_, err := Components([]string{"cmd", "*.this-extension-should-never-exist-xyz"}, env, true)
	assert.Error(t, err)
}
