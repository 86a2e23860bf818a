// Package inventory aggregates the resources of every Terraform state under a directory tree into a
// single inventory of resource groups and identifiers.
//
// For each directory that defines infrastructure the Builder lists the state, shows every address
// that is not excluded, identifies it with the handler registry and merges the result into a State.
// Directories are merged in traversal order whatever the parallelism, so a build is deterministic.
package inventory

import (
	"context"

	"github.com/gruntwork-io/casper/internal/discovery"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/gateway"
	"github.com/gruntwork-io/casper/internal/handler"
	"github.com/gruntwork-io/casper/internal/tfstate"
	"github.com/gruntwork-io/casper/internal/worker"
	"github.com/gruntwork-io/casper/pkg/log"
)

// Saver persists a finished State.
type Saver interface {
	Save(ctx context.Context, state *State) error
}

// Result is what a build produced.
type Result struct {
	Summary *Summary
	State   *State
	Records []Record
}

// Builder builds an inventory. It keeps no state between builds.
type Builder struct {
	gateway     gateway.Gateway
	registry    *handler.Registry
	store       Saver
	logger      log.Logger
	workingDir  string
	parallelism int
	hidden      bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger anomalies are reported to.
func WithLogger(l log.Logger) Option {
	return func(builder *Builder) {
		builder.logger = l
	}
}

// WithParallelism sets how many directories are inspected at once.
func WithParallelism(n int) Option {
	return func(builder *Builder) {
		builder.parallelism = max(n, 1)
	}
}

// WithHidden includes hidden directories in the walk.
func WithHidden() Option {
	return func(builder *Builder) {
		builder.hidden = true
	}
}

// WithWorkingDir resolves a relative start directory against dir. Directories are still
// reported relative to it.
func WithWorkingDir(dir string) Option {
	return func(builder *Builder) {
		builder.workingDir = dir
	}
}

// NewBuilder returns a Builder that inspects directories through gw, identifies resources with
// registry and hands the finished State to store.
func NewBuilder(gw gateway.Gateway, registry *handler.Registry, store Saver, opts ...Option) *Builder {
	builder := &Builder{
		gateway:     gw,
		registry:    registry,
		store:       store,
		logger:      log.Default(),
		parallelism: 1,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder
}

// dirResult is everything learned about one directory, merged later in traversal order.
type dirResult struct {
	err     error
	listErr error
	dir     string
	records []Record
}

// Build walks startDir, inspects every qualifying directory and saves the resulting State once.
// Only invalid exclusions, persistence errors and context cancellation are returned as errors.
func (builder *Builder) Build(ctx context.Context, startDir string, excludes ExcludeRules) (*Result, error) {
	if err := excludes.Validate(); err != nil {
		return nil, err
	}

	walker := discovery.New(startDir).
		WithBaseDir(builder.workingDir).
		WithExcludes(excludes.Directories...)
	if builder.hidden {
		walker = walker.WithHidden()
	}

	excluder := newResourceExcluder(excludes)

	result := &Result{
		Summary: new(Summary),
		State:   NewState(),
	}

	if builder.parallelism > 1 {
		if err := builder.buildParallel(ctx, walker, excluder, result); err != nil {
			return nil, err
		}
	} else {
		for dir := range walker.Walk(builder.logger) {
			if err := builder.merge(builder.inspect(ctx, dir, excluder), result); err != nil {
				return nil, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.New(err)
	}

	if err := builder.store.Save(ctx, result.State); err != nil {
		return result, errors.WithPrefix(err, "unable to save the inventory")
	}

	return result, nil
}

func (builder *Builder) buildParallel(ctx context.Context, walker *discovery.Discovery, excluder *resourceExcluder, result *Result) error {
	dirs := walker.Collect(builder.logger)
	results := make([]dirResult, len(dirs))

	pool := worker.NewWorkerPool(ctx, builder.parallelism)

	for i, dir := range dirs {
		pool.Submit(func(ctx context.Context) error {
			results[i] = builder.inspect(ctx, dir, excluder)

			return results[i].err
		})
	}

	if err := pool.GracefulStop(); err != nil {
		return builder.contextError(ctx, err)
	}

	for _, inspected := range results {
		if err := builder.merge(inspected, result); err != nil {
			return err
		}
	}

	return nil
}

// inspect runs the state commands for one directory. It does not log anomalies, merge does.
func (builder *Builder) inspect(ctx context.Context, dir string, excluder *resourceExcluder) dirResult {
	result := dirResult{dir: dir}

	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	list := builder.gateway.Invoke(ctx, dir, gateway.List)
	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	if !list.Success {
		result.listErr = list.Err
		return result
	}

	addrs := tfstate.ParseList(list.Data)
	seen := make(map[string]struct{}, len(addrs))

	for _, addr := range addrs {
		if _, ok := seen[addr.Raw]; ok {
			continue
		}

		seen[addr.Raw] = struct{}{}

		record := Record{Directory: dir, Address: addr}

		if excluder.isExcluded(addr) {
			record.Outcome = Excluded
			result.records = append(result.records, record)

			continue
		}

		show := builder.gateway.Invoke(ctx, dir, gateway.Show, addr.Raw)
		if err := ctx.Err(); err != nil {
			result.err = err
			return result
		}

		builder.identify(&record, show)
		result.records = append(result.records, record)
	}

	return result
}

func (builder *Builder) identify(record *Record, show gateway.Result) {
	if !show.Success || tfstate.IsAbsent(show.Data) {
		record.Outcome = Removed
		return
	}

	rule, ok := builder.registry.Resolve(record.Address.Type)
	if !ok {
		record.Outcome = Unsupported
		return
	}

	record.Group = rule.Group

	id, ok := rule.Extract(tfstate.ParseShow(show.Data))
	if !ok {
		record.Outcome = Unidentified
		return
	}

	record.Outcome = Identified
	record.Identifier = id
}

// merge folds one directory into result and reports its anomalies.
func (builder *Builder) merge(inspected dirResult, result *Result) error {
	l := builder.logger

	if inspected.err != nil {
		return errors.New(inspected.err)
	}

	if inspected.listErr != nil {
		l.Debugf("Unable to list the state of %s: %v", inspected.dir, inspected.listErr)
		return nil
	}

	result.Summary.States++

	for _, record := range inspected.records {
		switch record.Outcome {
		case Identified:
			if result.State.Add(record.Group, record.Identifier) {
				result.Summary.Groups++
			}
		case Removed:
			l.Warnf("'%s' no longer exist in the state: %s", record.Address.Raw, record.Directory)
		case Unsupported:
			l.Debugf("State Handler for %s is not currently supported", record.Address.Type)
		case Unidentified:
			l.Debugf("Unable to extract an identifier for '%s' in %s", record.Address.Raw, record.Directory)
		case Excluded:
			l.Tracef("Excluding '%s' in %s", record.Address.Raw, record.Directory)
		}

		result.Summary.add(record)
		result.Records = append(result.Records, record)
	}

	return nil
}

func (builder *Builder) contextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.New(ctxErr)
	}

	return errors.New(err)
}
