package build

import (
	"context"
	"fmt"

	"github.com/gruntwork-io/casper/cli/commands/common"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/handler"
	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/internal/storage"
	"github.com/gruntwork-io/casper/pkg/log"
)

// Run runs the build command.
func Run(ctx context.Context, opts *Options, backends *common.Backends) error {
	store, err := backends.NewStore(ctx, opts.CasperOptions)
	if err != nil {
		return err
	}

	builderOpts := []inventory.Option{
		inventory.WithLogger(opts.Logger),
		inventory.WithParallelism(opts.Parallelism),
		inventory.WithWorkingDir(opts.WorkingDir),
	}

	if opts.IncludeHidden {
		builderOpts = append(builderOpts, inventory.WithHidden())
	}

	gw, err := backends.NewGateway(opts.CasperOptions)
	if err != nil {
		return err
	}

	builder := inventory.NewBuilder(gw, handler.DefaultRegistry(), store, builderOpts...)

	previous := loadPrevious(ctx, opts.Logger, store)

	opts.Logger.Debugf("Building the inventory of %s in %s", opts.StartDir, opts.WorkingDir)

	result, err := builder.Build(ctx, opts.StartDir, inventory.ExcludeRules{
		Directories: opts.ExcludeDirs,
		Resources:   opts.ExcludeResources,
	})
	if err == nil && previous != nil {
		reportChanges(opts.Logger, previous, result.State)
	}

	if result != nil {
		if _, printErr := fmt.Fprintln(opts.Writer, summaryLine(result.Summary)); printErr != nil && err == nil {
			err = errors.New(printErr)
		}
	}

	return err
}

// loadPrevious returns the inventory saved by the last build, or nil.
func loadPrevious(ctx context.Context, l log.Logger, store storage.Store) *inventory.State {
	state, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrStateNotFound) {
			l.Debugf("Unable to load the previous inventory: %v", err)
		}

		return nil
	}

	return state
}

func reportChanges(l log.Logger, previous, current *inventory.State) {
	patch, err := inventory.Diff(previous, current)
	if err != nil {
		l.Debugf("Unable to compare with the previous inventory: %v", err)
		return
	}

	if len(patch) == 0 {
		l.Infof("Inventory unchanged since the last build")
		return
	}

	l.Infof("Inventory changed since the last build: %d changes", len(patch))

	for _, op := range patch {
		l.Debugf("%s %s", op.Type, op.Path)
	}
}

func summaryLine(summary *inventory.Summary) string {
	return fmt.Sprintf("Inspected %d states, %d resources in %d groups", summary.States, summary.Resources, summary.Groups)
}
