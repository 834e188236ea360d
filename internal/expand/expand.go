// Package expand implements the $-variable and optional glob/tilde
// expansion shared by the job engine (non-builtin argv) and the builtins
// (cd, echo), resolving the reference implementation's split between the
// two into one place.
package expand

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Env is the subset of shell state expansion needs.
type Env interface {
	Getenv(name string) string
	LastExitCode() int
}

// Var expands a single component per the $-expansion rules: "$?" becomes
// the decimal last exit code, "$NAME" becomes the environment variable's
// value (empty if unset), anything else passes through unchanged.
func Var(tok string, env Env) string {
	if tok == "" || tok[0] != '$' {
		return tok
	}
	if tok == "$?" {
		return strconv.Itoa(env.LastExitCode())
	}
	name := tok[1:]
	if name == "" {
		return tok
	}
	return env.Getenv(name)
}

// Components expands a command's components in order: $-expansion always
// applies; glob/tilde expansion applies only to argv (index > 0) when
// enabled, per the "program name is never expanded" rule.
func Components(components []string, env Env, globEnabled bool) ([]string, error) {
	out := make([]string, 0, len(components))
	for i, c := range components {
		v := Var(c, env)
		if i == 0 || !globEnabled || len(v) == 0 || (v[0] != '*' && v[0] != '~') {
			out = append(out, v)
			continue
		}
		matches, err := globTilde(v, env)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

// globTilde resolves a leading '~' against $HOME, then applies
// filepath.Glob if the result still contains glob metacharacters. A
// pattern containing metacharacters that matches nothing is an error, per
// spec: glob failure aborts the command before exec. A bare tilde
// substitution with no metacharacters always succeeds (it's text
// substitution, not a match).
func globTilde(tok string, env Env) ([]string, error) {
	pattern := tok
	if strings.HasPrefix(pattern, "~") {
		rest := pattern[1:]
		if rest == "" || rest[0] == '/' {
			pattern = homeDir(env) + rest
		}
		// "~user/..." (a named, non-current user) is left unexpanded: the
		// pack carries no os/user-based home lookup for arbitrary users.
	}

	if !strings.ContainsAny(pattern, "*?[") {
		return []string{pattern}, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob: %s: %w", tok, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob: %s: no match", tok)
	}
	return matches, nil
}

// homeDir resolves the current user's home directory for tilde expansion:
// $HOME first, falling back to os.UserHomeDir.
func homeDir(env Env) string {
	if h := env.Getenv("HOME"); h != "" {
		return h
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return ""
}

// Home returns $HOME for cd's no-argument form, or "" if HOME is unset.
func Home(env Env) string {
	return env.Getenv("HOME")
}

// ResolveTilde expands a leading '~' in a single argument (as cd's own,
// narrower tilde handling does) without treating it as a glob pattern.
func ResolveTilde(arg string, env Env) string {
	if !strings.HasPrefix(arg, "~") {
		return arg
	}
	rest := arg[1:]
	if rest == "" || rest[0] == '/' {
		return homeDir(env) + rest
	}
	return arg
}
