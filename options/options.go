// Package options provides a set of options that configure the behavior of the casper program.
package options

import (
	"context"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/filter"
	"github.com/gruntwork-io/casper/pkg/env"
	"github.com/gruntwork-io/casper/pkg/log"
)

const ContextKey ctxKey = iota

const (
	// DefaultTFPath just takes terraform from the path.
	DefaultTFPath = "terraform"

	// DefaultStateName names both the local inventory file and the S3 object key.
	DefaultStateName = "terraform_state"

	// DefaultConfigName is read from the working directory when --config is not given.
	DefaultConfigName = "casper.hcl"

	// DefaultParallelism inspects one directory at a time.
	DefaultParallelism = 1

	// TFPathEnv overrides DefaultTFPath.
	TFPathEnv = "CASPER_TF_PATH"

	defaultLogLevel = log.InfoLevel
)

// Supported values of OutputFormat.
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatTree = "tree"
)

type ctxKey byte

// CasperOptions represents options that configure the behavior of the casper program.
type CasperOptions struct {
	// Logger is the default logger.
	Logger log.Logger

	// Writer receives reports, ErrWriter receives logs.
	Writer    io.Writer
	ErrWriter io.Writer

	// Env is passed to every child process on top of the current environment.
	Env map[string]string

	// WorkingDir is where the walk starts and where relative state files live.
	WorkingDir string

	// ConfigPath points to casper.hcl. Empty means the default file in WorkingDir.
	ConfigPath string

	// TFPath is the terraform (or compatible) binary used to query states.
	TFPath string

	// Profile and Region select AWS credentials for the S3 backend and the scan command.
	Profile string
	Region  string

	// Bucket enables the S3 backend. StateKey is the object key within it.
	Bucket   string
	StateKey string

	// LockTable is a DynamoDB table locking StateKey while it is written.
	LockTable string

	// StateFile is the local inventory file and the fallback when S3 is unavailable.
	StateFile string

	// OutputFormat is one of text, json or tree.
	OutputFormat string

	// ExcludeDirs are directory names or globs never descended into.
	ExcludeDirs []string

	// ExcludeResources are resource addresses, types or names (globs allowed) skipped during the build.
	ExcludeResources []string

	// Services selects the cloud services checked by the scan command.
	Services []string

	// Parallelism is the number of directories inspected concurrently.
	Parallelism int

	// LogLevel is the level the Logger was configured with.
	LogLevel log.Level

	// IncludeHidden walks into dot directories.
	IncludeHidden bool

	// NoColor disables colors in logs and reports.
	NoColor bool
}

// NewCasperOptions creates a new CasperOptions object with reasonable defaults for real usage.
func NewCasperOptions() *CasperOptions {
	return NewCasperOptionsWithWriters(os.Stdout, os.Stderr)
}

// NewCasperOptionsWithWriters creates a new CasperOptions object with the given writers.
func NewCasperOptionsWithWriters(stdout, stderr io.Writer) *CasperOptions {
	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = "."
	}

	var logFormatter = log.NewFormatter().WithColors(log.IsTerminal(stderr))

	return &CasperOptions{
		Logger:       log.New(log.WithOutput(stderr), log.WithLevel(defaultLogLevel), log.WithFormatter(logFormatter)),
		LogLevel:     defaultLogLevel,
		Writer:       stdout,
		ErrWriter:    stderr,
		Env:          map[string]string{},
		WorkingDir:   workingDir,
		TFPath:       env.GetStringEnv(TFPathEnv, DefaultTFPath),
		StateFile:    DefaultStateName,
		StateKey:     DefaultStateName,
		OutputFormat: OutputFormatText,
		Parallelism:  DefaultParallelism,
		ExcludeDirs:  []string{},
	}
}

// Clone performs a deep copy of `opts`, the Logger is cloned as well.
func (opts *CasperOptions) Clone() *CasperOptions {
	newOpts := *opts

	newOpts.Logger = opts.Logger.Clone()
	newOpts.Env = maps.Clone(opts.Env)
	newOpts.ExcludeDirs = slices.Clone(opts.ExcludeDirs)
	newOpts.ExcludeResources = slices.Clone(opts.ExcludeResources)
	newOpts.Services = slices.Clone(opts.Services)

	return &newOpts
}

// ResolvedConfigPath returns the config file to read and whether it was requested explicitly.
func (opts *CasperOptions) ResolvedConfigPath() (string, bool) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, true
	}

	return filepath.Join(opts.WorkingDir, DefaultConfigName), false
}

// Validate checks the option values that cannot be fixed up silently.
func (opts *CasperOptions) Validate() error {
	if opts.Parallelism < 1 {
		return errors.New(InvalidOptionError{Name: "parallelism", Value: opts.Parallelism, Reason: "must be at least 1"})
	}

	if opts.TFPath == "" {
		return errors.New(InvalidOptionError{Name: "tf-path", Value: opts.TFPath, Reason: "must not be empty"})
	}

	switch opts.OutputFormat {
	case OutputFormatText, OutputFormatJSON, OutputFormatTree:
	default:
		return errors.New(InvalidOptionError{Name: "format", Value: opts.OutputFormat, Reason: "supported formats: text, json, tree"})
	}

	if opts.Bucket != "" && opts.StateKey == "" {
		return errors.New(InvalidOptionError{Name: "state-key", Value: opts.StateKey, Reason: "must not be empty when a bucket is set"})
	}

	if opts.LockTable != "" && opts.Bucket == "" {
		return errors.New(InvalidOptionError{Name: "lock-table", Value: opts.LockTable, Reason: "requires a bucket"})
	}

	var errs *errors.MultiError

	for _, pattern := range filter.NewPatterns(opts.ExcludeDirs).Invalid() {
		errs = errs.Append(errors.New(InvalidOptionError{Name: "exclude-dir", Value: pattern.Value, Reason: "not a valid glob pattern"}))
	}

	for _, pattern := range filter.NewPatterns(opts.ExcludeResources).Invalid() {
		errs = errs.Append(errors.New(InvalidOptionError{Name: "exclude-resource", Value: pattern.Value, Reason: "not a valid glob pattern"}))
	}

	return errs.ErrorOrNil()
}

// WithContext returns a new context containing the options.
func (opts *CasperOptions) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKey, opts)
}

// OptionsFromContext tries to retrieve options from context, otherwise, returns its own instance.
func (opts *CasperOptions) OptionsFromContext(ctx context.Context) *CasperOptions {
	if val := ctx.Value(ContextKey); val != nil {
		if opts, ok := val.(*CasperOptions); ok {
			return opts
		}
	}

	return opts
}
