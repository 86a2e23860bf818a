package build

import "github.com/gruntwork-io/casper/options"

type Options struct {
	*options.CasperOptions

	// StartDir is where the walk starts, relative to the working directory.
	StartDir string
}

func NewOptions(opts *options.CasperOptions) *Options {
	return &Options{
		CasperOptions: opts,
		StartDir:      ".",
	}
}
