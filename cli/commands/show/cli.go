// Package show represents the show CLI command that prints the saved inventory.
package show

import (
	"github.com/gruntwork-io/casper/cli/commands/common"
	"github.com/gruntwork-io/casper/options"
	"github.com/urfave/cli/v2"
)

const CommandName = "show"

func NewFlags(opts *options.CasperOptions) []cli.Flag {
	flags := []cli.Flag{
		common.NewFormatFlag(opts, "Output format. Valid values: text, json, tree."),
		common.NewConfigFlag(opts),
	}

	flags = append(flags, common.NewBackendFlags(opts)...)

	return append(flags, common.NewAWSFlags(opts)...)
}

func NewCommand(opts *options.CasperOptions, backends *common.Backends) *cli.Command {
	return &cli.Command{
		Name:  CommandName,
		Usage: "Print the saved inventory.",
		Flags: NewFlags(opts),
		Before: func(cliCtx *cli.Context) error {
			return common.Prepare(cliCtx, opts)
		},
		Action: func(cliCtx *cli.Context) error {
			return Run(cliCtx.Context, opts, backends)
		},
	}
}
