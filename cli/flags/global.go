// Package flags provides the casper global flags.
package flags

import (
	"github.com/gruntwork-io/casper/options"
	"github.com/gruntwork-io/casper/pkg/log"
	"github.com/urfave/cli/v2"
)

const (
	LogLevelFlagName   = "log-level"
	NoColorFlagName    = "no-color"
	WorkingDirFlagName = "working-dir"
)

// NewGlobalFlags returns the flags every command accepts before its name.
func NewGlobalFlags(opts *options.CasperOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    LogLevelFlagName,
			EnvVars: []string{"CASPER_LOG_LEVEL"},
			Usage:   "Sets the logging level for casper. Supported levels: " + log.AllLevels.String() + ".",
			Value:   opts.LogLevel.String(),
			Action: func(_ *cli.Context, val string) error {
				level, err := log.ParseLevel(val)
				if err != nil {
					return err
				}

				opts.LogLevel = level
				opts.Logger.SetOptions(log.WithLevel(level))

				return nil
			},
		},
		&cli.BoolFlag{
			Name:        NoColorFlagName,
			EnvVars:     []string{"CASPER_NO_COLOR", "NO_COLOR"},
			Usage:       "Disable color output.",
			Destination: &opts.NoColor,
			Action: func(_ *cli.Context, val bool) error {
				if val {
					opts.Logger.SetOptions(log.WithFormatter(log.NewFormatter().WithColors(false)))
				}

				return nil
			},
		},
		&cli.StringFlag{
			Name:        WorkingDirFlagName,
			EnvVars:     []string{"CASPER_WORKING_DIR"},
			Usage:       "The path to the directory casper runs in. Defaults to the current directory.",
			Value:       opts.WorkingDir,
			Destination: &opts.WorkingDir,
		},
	}
}
