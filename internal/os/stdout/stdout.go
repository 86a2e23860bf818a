// Package stdout provides utilities for working with stdout.
package stdout

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// IsRedirected returns true if the stdout is not attached to a terminal.
func IsRedirected() bool {
	return !term.IsTerminal(os.Stdout.Fd())
}
