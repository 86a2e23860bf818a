package main

import (
	"context"
	"os"

	"github.com/gruntwork-io/casper/cli"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/shell"
	"github.com/gruntwork-io/casper/options"
	"github.com/gruntwork-io/casper/pkg/log"
)

// The main entrypoint for casper
func main() {
	opts := options.NewCasperOptions()

	defer errors.Recover(checkForErrorsAndExit(opts.Logger))

	app := cli.NewApp(opts, nil)
	err := app.RunContext(context.Background(), os.Args)

	checkForErrorsAndExit(opts.Logger)(err)
}

// If there is an error, display it in the console and exit with a non-zero exit code. Otherwise, exit 0.
func checkForErrorsAndExit(logger log.Logger) func(error) {
	return func(err error) {
		if err == nil {
			os.Exit(0)
		}

		logger.Error(err.Error())

		if errStack := errors.ErrorStack(err); errStack != "" {
			logger.Trace(errStack)
		}

		exitCode, exitCodeErr := shell.GetExitCode(err)
		if exitCodeErr != nil || exitCode == 0 {
			exitCode = errors.ExitCode(err)
		}

		os.Exit(exitCode)
	}
}
