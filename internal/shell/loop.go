package shell

import (
	"errors"
	"fmt"

	"smash/internal/builtin"
	"smash/internal/job"
	"smash/internal/parser"
)

// Run is the top-level loop: reap non-blocking, prompt, read a line, reap
// non-blocking again, dispatch a builtin or launch a job. It returns the
// process exit code.
func (sh *Shell) Run() int {
	for {
		sh.Engine.ReapNonBlocking(sh, sh.Table)

		if sh.Interactive {
			fmt.Fprint(sh.out, "smash> ")
		}

		line, ok := sh.readLine()
		if !ok {
			break
		}

		sh.Engine.ReapNonBlocking(sh, sh.Table)

		if line == "" {
			continue
		}

		if name, isBuiltin := builtin.Lookup(line); isBuiltin {
			err := builtin.Dispatch(sh, name, line)
			if err != nil {
				var ee builtin.ErrExit
				if errors.As(err, &ee) {
					sh.Teardown()
					return ee.Code
				}
				fmt.Fprintln(sh.errOut, err)
			}
			continue
		}

		ui, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintln(sh.errOut, err)
			continue
		}
		if ui == nil {
			continue
		}
		if !sh.Interactive {
			ui.IsBackground = false
		}

		j := &job.Job{Input: ui, Status: job.New}
		sh.Table.Insert(j)
		if err := sh.Engine.Launch(sh, j); err != nil {
			fmt.Fprintln(sh.errOut, err)
		}
	}

	sh.Teardown()
	return sh.lastExitCode
}
