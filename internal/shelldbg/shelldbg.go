// Package shelldbg is the shell's debug-trace gate: a thin wrapper over the
// stdlib log package that is silent unless explicitly enabled, standing in
// for the reference implementation's compiled-out DEBUG(...) macro.
package shelldbg

import (
	"io"
	"log"
	"os"
)

// Logger gates trace output behind an enabled flag.
type Logger struct {
	enabled bool
	l       *log.Logger
}

// New returns a Logger writing to stderr when enabled is true, and
// discarding everything otherwise.
func New(enabled bool) *Logger {
	out := io.Writer(os.Stderr)
	if !enabled {
		out = io.Discard
	}
	return &Logger{
		enabled: enabled,
		l:       log.New(out, "smash: ", log.Ltime|log.Lmicroseconds),
	}
}

// Printf writes a trace line when the logger is enabled.
func (lg *Logger) Printf(format string, args ...any) {
	if lg == nil || !lg.enabled {
		return
	}
	lg.l.Printf(format, args...)
}

// Enabled reports whether trace output is active.
func (lg *Logger) Enabled() bool {
	return lg != nil && lg.enabled
}
