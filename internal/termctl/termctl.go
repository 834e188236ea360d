// Package termctl wraps the controlling-terminal operations the job
// engine and shell-startup setup share: foreground process group handoff
// and termios snapshot/restore, built on golang.org/x/sys/unix.
package termctl

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// IgnoredSignals are the dispositions the shell holds at "ignore" for its
// own lifetime: SIGINT/SIGQUIT/SIGTSTP/SIGTTIN/SIGTTOU are all delivered
// to the foreground process group, never the shell itself, once it owns
// the terminal.
var IgnoredSignals = []os.Signal{syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTSTP, syscall.SIGTTIN, syscall.SIGTTOU}

// IsTerminal reports whether fd refers to a controlling terminal.
func IsTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	return err == nil
}

// Foreground reports the terminal's current foreground process group.
func Foreground(fd int) (int, error) {
	pgid, err := unix.IoctlGetInt(fd, unix.TIOCGPGRP)
	if err != nil {
		return 0, fmt.Errorf("termctl: tcgetpgrp: %w", err)
	}
	return pgid, nil
}

// SetForeground hands the terminal's foreground group to pgid.
func SetForeground(fd, pgid int) error {
	if err := unix.IoctlSetInt(fd, unix.TIOCSPGRP, pgid); err != nil {
		return fmt.Errorf("termctl: tcsetpgrp: %w", err)
	}
	return nil
}

// GetTermios snapshots the current terminal attributes.
func GetTermios(fd int) (*unix.Termios, error) {
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("termctl: tcgetattr: %w", err)
	}
	return t, nil
}

// SetTermios restores terminal attributes with a drain-style flush
// (TCSADRAIN-equivalent): queued output is allowed to finish before the
// new attributes take effect.
func SetTermios(fd int, t *unix.Termios) error {
	if err := unix.IoctlSetTermios(fd, ioctlSetTermiosDrain, t); err != nil {
		return fmt.Errorf("termctl: tcsetattr: %w", err)
	}
	return nil
}

// AcquireTerminal runs the shell's startup handshake: spin sending
// SIGTTIN to the process group until the shell is the terminal's
// foreground group, place the shell in its own process group, claim the
// terminal, and snapshot termios. Returns the shell's pgid and the
// snapshot.
func AcquireTerminal(fd int) (pgid int, saved unix.Termios, err error) {
	for {
		fg, ferr := Foreground(fd)
		if ferr != nil {
			return 0, unix.Termios{}, ferr
		}
		mine := unix.Getpgrp()
		if fg == mine {
			break
		}
		_ = unix.Kill(-mine, unix.SIGTTIN)
	}

	signal.Ignore(IgnoredSignals...)

	if err := unix.Setpgid(0, 0); err != nil {
		return 0, unix.Termios{}, fmt.Errorf("termctl: setpgid: %w", err)
	}
	pgid = unix.Getpid()

	if err := SetForeground(fd, pgid); err != nil {
		return 0, unix.Termios{}, err
	}

	t, err := GetTermios(fd)
	if err != nil {
		return 0, unix.Termios{}, err
	}
	return pgid, *t, nil
}
