package common

import (
	"github.com/gruntwork-io/casper/config"
	"github.com/gruntwork-io/casper/options"
	"github.com/urfave/cli/v2"
)

// Prepare merges the config file into opts, giving precedence to the flags set on the command line,
// then validates the result.
func Prepare(cliCtx *cli.Context, opts *options.CasperOptions) error {
	if cliCtx.IsSet(config.FlagExcludeDir) {
		opts.ExcludeDirs = cliCtx.StringSlice(config.FlagExcludeDir)
	}

	if cliCtx.IsSet(config.FlagExcludeResource) {
		opts.ExcludeResources = cliCtx.StringSlice(config.FlagExcludeResource)
	}

	if cliCtx.IsSet(config.FlagService) {
		opts.Services = cliCtx.StringSlice(config.FlagService)
	}

	cfg, err := config.ReadForOptions(opts)
	if err != nil {
		return err
	}

	cfg.Apply(opts, cliCtx.IsSet)

	return opts.Validate()
}
