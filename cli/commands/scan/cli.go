// Package scan represents the scan CLI command that reports cloud resources missing from the inventory.
package scan

import (
	"strings"

	"github.com/gruntwork-io/casper/cli/commands/common"
	"github.com/gruntwork-io/casper/config"
	"github.com/gruntwork-io/casper/internal/scan"
	"github.com/gruntwork-io/casper/options"
	"github.com/urfave/cli/v2"
)

const CommandName = "scan"

func NewFlags(opts *options.CasperOptions) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:  config.FlagService,
			Usage: "Service to scan, one of " + strings.Join(scan.SupportedServices(), ", ") + ". Can be repeated. Defaults to all.",
		},
		common.NewFormatFlag(opts, "Output format. Valid values: text, json."),
		common.NewConfigFlag(opts),
	}

	flags = append(flags, common.NewBackendFlags(opts)...)

	return append(flags, common.NewAWSFlags(opts)...)
}

func NewCommand(opts *options.CasperOptions, backends *common.Backends) *cli.Command {
	return &cli.Command{
		Name:  CommandName,
		Usage: "Report the cloud resources no Terraform state manages.",
		Flags: NewFlags(opts),
		Before: func(cliCtx *cli.Context) error {
			return common.Prepare(cliCtx, opts)
		},
		Action: func(cliCtx *cli.Context) error {
			return Run(cliCtx.Context, opts, backends)
		},
	}
}
