// Package build represents the build CLI command that inspects every Terraform state under a
// directory tree and saves the resulting inventory.
package build

import (
	"github.com/gruntwork-io/casper/cli/commands/common"
	"github.com/gruntwork-io/casper/config"
	"github.com/gruntwork-io/casper/options"
	"github.com/urfave/cli/v2"
)

const (
	CommandName = "build"

	StartDirFlagName = "start-dir"
)

func NewFlags(opts *Options) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        StartDirFlagName,
			Usage:       "Directory the walk starts from.",
			Value:       opts.StartDir,
			Destination: &opts.StartDir,
		},
		&cli.StringSliceFlag{
			Name:  config.FlagExcludeDir,
			Usage: "Directory name or glob to skip. Can be repeated.",
		},
		&cli.StringSliceFlag{
			Name:  config.FlagExcludeResource,
			Usage: "Resource address, type or name to skip, globs allowed. Can be repeated.",
		},
		&cli.StringFlag{
			Name:        config.FlagTFPath,
			EnvVars:     []string{options.TFPathEnv},
			Usage:       "Terraform binary used to query the states.",
			Value:       opts.TFPath,
			Destination: &opts.TFPath,
		},
		&cli.IntFlag{
			Name:        config.FlagParallelism,
			EnvVars:     []string{"CASPER_PARALLELISM"},
			Usage:       "Number of directories inspected concurrently.",
			Value:       opts.Parallelism,
			Destination: &opts.Parallelism,
		},
		&cli.BoolFlag{
			Name:        config.FlagHidden,
			Usage:       "Walk into hidden directories.",
			Destination: &opts.IncludeHidden,
		},
		common.NewConfigFlag(opts.CasperOptions),
	}

	flags = append(flags, common.NewBackendFlags(opts.CasperOptions)...)

	return append(flags, common.NewAWSFlags(opts.CasperOptions)...)
}

func NewCommand(opts *options.CasperOptions, backends *common.Backends) *cli.Command {
	cmdOpts := NewOptions(opts)

	return &cli.Command{
		Name:  CommandName,
		Usage: "Inspect the Terraform states under a directory tree and save the inventory.",
		Flags: NewFlags(cmdOpts),
		Before: func(cliCtx *cli.Context) error {
			return common.Prepare(cliCtx, opts)
		},
		Action: func(cliCtx *cli.Context) error {
			return Run(cliCtx.Context, cmdOpts, backends)
		},
	}
}
