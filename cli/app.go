// Package cli assembles the casper command line application.
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gruntwork-io/casper/cli/commands/build"
	"github.com/gruntwork-io/casper/cli/commands/common"
	"github.com/gruntwork-io/casper/cli/commands/scan"
	"github.com/gruntwork-io/casper/cli/commands/show"
	"github.com/gruntwork-io/casper/cli/commands/version"
	"github.com/gruntwork-io/casper/cli/flags"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/os/signal"
	"github.com/gruntwork-io/casper/options"
	"github.com/gruntwork-io/casper/pkg/env"
	goversion "github.com/gruntwork-io/go-commons/version"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

// App is the casper CLI application.
type App struct {
	*cli.App
	opts *options.CasperOptions
}

// NewApp creates the casper CLI App. backends may be nil to use the real terraform binary, S3 and AWS.
func NewApp(opts *options.CasperOptions, backends *common.Backends) *App {
	if backends == nil {
		backends = common.DefaultBackends()
	}

	app := &cli.App{
		Name:                   "casper",
		Usage:                  "Build an inventory of the resources managed by the Terraform states of a directory tree, and find the cloud resources no state knows about.",
		UsageText:              "casper [global options] <command> [options]",
		Version:                goversion.GetVersion(),
		Writer:                 opts.Writer,
		ErrWriter:              opts.ErrWriter,
		Flags:                  flags.NewGlobalFlags(opts),
		Before:                 initialSetup(opts),
		UseShortOptionHandling: true,
		Suggest:                true,
		Commands: []*cli.Command{
			build.NewCommand(opts, backends),
			show.NewCommand(opts, backends),
			scan.NewCommand(opts, backends),
			version.NewCommand(),
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}

	return &App{App: app, opts: opts}
}

// RunContext runs the app and cancels ctx when an interrupt signal arrives.
func (app *App) RunContext(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx)
	defer stop()

	ctx = app.opts.WithContext(ctx)

	if err := app.App.RunContext(ctx, args); err != nil {
		if cause := context.Cause(ctx); cause != nil && errors.IsContextCanceled(err) {
			return errors.New(cause)
		}

		return err
	}

	return nil
}

func initialSetup(opts *options.CasperOptions) cli.BeforeFunc {
	return func(*cli.Context) error {
		environ := env.Parse(os.Environ())
		maps.Copy(environ, opts.Env)
		opts.Env = environ

		workingDir, err := filepath.Abs(opts.WorkingDir)
		if err != nil {
			return errors.New(err)
		}

		opts.WorkingDir = workingDir

		opts.Logger.Debugf("casper version: %s", goversion.GetVersion())

		return nil
	}
}
