package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"smash/internal/expand"
	"smash/internal/job"
)

func exitBuiltin(sh Shell, args []string) error {
	code := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(sh.Stderr(), "exit: %s: numeric argument required\n", args[1])
			return nil
		}
		code = n
	}
	return ErrExit{Code: code}
}

// cd changes the working directory: no argument goes to $HOME (an error
// if unset), otherwise the argument is $-expanded and tilde-resolved.
func cd(sh Shell, args []string) error {
	var dir string
	if len(args) < 2 {
		dir = expand.Home(sh)
		if dir == "" {
			fmt.Fprintln(sh.Stderr(), "cd: HOME not set")
			return nil
		}
	} else {
		dir = expand.ResolveTilde(expand.Var(args[1], sh), sh)
	}
	if err := sh.Chdir(dir); err != nil {
		fmt.Fprintf(sh.Stderr(), "cd: %s: %v\n", dir, err)
	}
	return nil
}

func pwd(sh Shell) error {
	dir, err := sh.Getwd()
	if err != nil {
		fmt.Fprintf(sh.Stderr(), "pwd: %v\n", err)
		return nil
	}
	fmt.Fprintln(sh.Stdout(), dir)
	return nil
}

// echo prints its arguments space-joined after $-expansion, each argument
// expanded independently of argv-splicing rules (echo never globs).
func echo(sh Shell, args []string) error {
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		parts = append(parts, expand.Var(a, sh))
	}
	fmt.Fprintln(sh.Stdout(), strings.Join(parts, " "))
	return nil
}

// jobsList prints every tracked job, then removes any that have reached a
// terminal state -- the only point at which a finished job is reported to
// the user.
func jobsList(sh Shell) error {
	table := sh.Jobs()
	for _, j := range table.Jobs() {
		fmt.Fprintln(sh.Stdout(), j.Line())
		if j.Status.Terminal() {
			table.Remove(j)
		}
	}
	return nil
}

func lookupArg(sh Shell, args []string, name string) (*job.Job, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%s: usage: %s <job-id>", name, name)
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("%s: %s: not a job id", name, args[1])
	}
	j := sh.Jobs().Lookup(id)
	if j == nil {
		return nil, fmt.Errorf("%s: %d: no such job", name, id)
	}
	return j, nil
}

func fg(sh Shell, args []string) error {
	j, err := lookupArg(sh, args, "fg")
	if err != nil {
		fmt.Fprintln(sh.Stderr(), err)
		return nil
	}
	if err := sh.RunForeground(j, true); err != nil {
		fmt.Fprintln(sh.Stderr(), err)
	}
	return nil
}

func bg(sh Shell, args []string) error {
	j, err := lookupArg(sh, args, "bg")
	if err != nil {
		fmt.Fprintln(sh.Stderr(), err)
		return nil
	}
	if err := sh.RunBackground(j, true); err != nil {
		fmt.Fprintln(sh.Stderr(), err)
	}
	return nil
}

// killBuiltin parses "kill -SIG JOBID" and killpg's the job's group.
func killBuiltin(sh Shell, args []string) error {
	if len(args) < 3 {
		fmt.Fprintln(sh.Stderr(), "kill: usage: kill -SIG <job-id>")
		return nil
	}
	sigTok := args[1]
	if !strings.HasPrefix(sigTok, "-") {
		fmt.Fprintln(sh.Stderr(), "kill: usage: kill -SIG <job-id>")
		return nil
	}
	sigNum, err := strconv.Atoi(sigTok[1:])
	if err != nil {
		fmt.Fprintf(sh.Stderr(), "kill: %s: not a signal number\n", sigTok)
		return nil
	}
	id, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(sh.Stderr(), "kill: %s: not a job id\n", args[2])
		return nil
	}
	j := sh.Jobs().Lookup(id)
	if j == nil {
		fmt.Fprintf(sh.Stderr(), "kill: %d: no such job\n", id)
		return nil
	}
	if err := sh.KillJob(j, unix.Signal(sigNum)); err != nil {
		fmt.Fprintln(sh.Stderr(), err)
	}
	return nil
}
