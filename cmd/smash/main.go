// Command smash is a small interactive POSIX-style shell with job control.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smash/internal/shell"
	"smash/internal/shelldbg"
	"smash/internal/termctl"
)

var (
	debug  bool
	rusage bool
)

var rootCmd = &cobra.Command{
	Use:   "smash [file]",
	Short: "smash is a small interactive shell with job control",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug tracing")
	rootCmd.Flags().BoolVarP(&rusage, "rusage", "t", false, "report per-job resource usage")
}

func run(cmd *cobra.Command, args []string) error {
	stdin := os.Stdin
	interactive := termctl.IsTerminal(int(os.Stdin.Fd()))

	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("smash: %s: %w", args[0], err)
		}
		defer f.Close()
		stdin = f
		interactive = false
	}

	dbg := shelldbg.New(debug)
	sh := shell.New(stdin, interactive, true, rusage, dbg)
	if err := sh.Start(); err != nil {
		return err
	}

	code := sh.Run()
	os.Exit(code)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
