package cli

import (
	"golang.org/x/term"
)

type fder interface {
	Fd() uintptr
}

// isTerminal reports whether f, usually an [io.Reader] or [io.Writer], is a
// terminal.
func isTerminal(f any) bool {
	fd, ok := f.(fder)
	if !ok {
		return false
	}

	return term.IsTerminal(int(fd.Fd())) //nolint:gosec // G115: File descriptors fit in an int.
}
