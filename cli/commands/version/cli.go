// Package version represents the version CLI command that works the same as the `--version` flag.
package version

import (
	"github.com/urfave/cli/v2"
)

const CommandName = "version"

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  CommandName,
		Usage: "Show casper version.",
		Action: func(cliCtx *cli.Context) error {
			cli.ShowVersion(cliCtx)
			return nil
		},
	}
}
