package common

import (
	"os"

	"github.com/gruntwork-io/casper/internal/os/stdout"
	"github.com/gruntwork-io/casper/options"
	"github.com/mgutz/ansi"
)

// ShouldColor reports whether reports written to opts.Writer get colors.
func ShouldColor(opts *options.CasperOptions) bool {
	return !opts.NoColor && opts.Writer == os.Stdout && !stdout.IsRedirected()
}

// Colorizer colors the parts of a report.
type Colorizer struct {
	GroupColorizer   func(string) string
	IDColorizer      func(string) string
	GhostColorizer   func(string) string
	HeadingColorizer func(string) string
}

// NewColorizer returns a Colorizer, a no-op one when shouldColor is false.
func NewColorizer(shouldColor bool) *Colorizer {
	if !shouldColor {
		noop := func(s string) string { return s }

		return &Colorizer{
			GroupColorizer:   noop,
			IDColorizer:      noop,
			GhostColorizer:   noop,
			HeadingColorizer: noop,
		}
	}

	return &Colorizer{
		GroupColorizer:   ansi.ColorFunc("blue+bh"),
		IDColorizer:      ansi.ColorFunc("white+d"),
		GhostColorizer:   ansi.ColorFunc("red+bh"),
		HeadingColorizer: ansi.ColorFunc("yellow+bh"),
	}
}
