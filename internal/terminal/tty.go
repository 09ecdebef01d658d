package terminal

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin is a TTY, selecting between dshell's
// two runtime modes.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutFd() uintptr {
	return os.Stdout.Fd()
}

// RawMode puts stdin into raw mode and returns a restore function. Restore
// failures are surfaced to the caller so a raw-mode toggle failure can be
// reported and the shell can exit cleanly, per this shell's error-handling
// contract.
func RawMode() (restore func() error, err error) {
	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(int(os.Stdin.Fd()), state) }, nil
}
