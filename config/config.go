// Package config reads casper.hcl, the optional project file holding the defaults of the command line flags.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/options"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Flag names Apply checks before overriding a value.
const (
	FlagTFPath          = "tf-path"
	FlagParallelism     = "parallelism"
	FlagHidden          = "hidden"
	FlagBucket          = "bucket"
	FlagStateKey        = "state-key"
	FlagStateFile       = "state-file"
	FlagLockTable       = "lock-table"
	FlagProfile         = "profile"
	FlagRegion          = "region"
	FlagService         = "service"
	FlagExcludeDir      = "exclude-dir"
	FlagExcludeResource = "exclude-resource"
)

// Config is the decoded content of casper.hcl.
type Config struct {
	Backend            *BackendConfig `hcl:"backend,block"`
	TFPath             *string        `hcl:"tf_path,optional"`
	Parallelism        *int           `hcl:"parallelism,optional"`
	IncludeHidden      *bool          `hcl:"include_hidden,optional"`
	ExcludeDirectories []string       `hcl:"exclude_directories,optional"`
	ExcludeResources   []string       `hcl:"exclude_resources,optional"`
	Services           []string       `hcl:"services,optional"`
}

// BackendConfig configures where the inventory is persisted.
type BackendConfig struct {
	Bucket    *string `hcl:"bucket,optional"`
	Key       *string `hcl:"key,optional"`
	StateFile *string `hcl:"state_file,optional"`
	LockTable *string `hcl:"lock_table,optional"`
	Profile   *string `hcl:"profile,optional"`
	Region    *string `hcl:"region,optional"`
}

// ReadConfig parses the file at configPath. Files ending with .json are read as HCL JSON.
func ReadConfig(configPath string, env map[string]string) (cfg *Config, err error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(FileNotFoundError{Path: configPath})
		}

		return nil, errors.New(err)
	}

	// cty conversions panic on some malformed inputs
	defer func() {
		if recovered := recover(); recovered != nil {
			err = errors.New(PanicWhileParsingConfigError{RecoveredValue: recovered, ConfigFile: configPath})
		}
	}()

	var (
		parser = hclparse.NewParser()
		file   *hcl.File
		diags  hcl.Diagnostics
	)

	switch filepath.Ext(configPath) {
	case ".json":
		file, diags = parser.ParseJSON(content, configPath)
	default:
		file, diags = parser.ParseHCL(content, configPath)
	}

	if diags.HasErrors() {
		return nil, errors.New(ParseError{ConfigFile: configPath, Diags: diags})
	}

	cfg = &Config{}

	if diags := gohcl.DecodeBody(file.Body, newEvalContext(env), cfg); diags.HasErrors() {
		return nil, errors.New(ParseError{ConfigFile: configPath, Diags: diags})
	}

	return cfg, nil
}

// ReadForOptions reads the config file selected by opts. A missing default file yields an empty Config,
// a missing file given with --config is an error.
func ReadForOptions(opts *options.CasperOptions) (*Config, error) {
	configPath, explicit := opts.ResolvedConfigPath()

	cfg, err := ReadConfig(configPath, opts.Env)
	if err != nil {
		var notFoundErr FileNotFoundError
		if !explicit && errors.As(err, &notFoundErr) {
			opts.Logger.Debugf("No config file found at %s", configPath)
			return &Config{}, nil
		}

		return nil, err
	}

	opts.Logger.Debugf("Read config file %s", configPath)

	return cfg, nil
}

// Apply copies the config values into opts. A value is only taken when isSet reports
// the matching flag was not given on the command line. Exclusion lists are merged.
func (cfg *Config) Apply(opts *options.CasperOptions, isSet func(flagName string) bool) {
	if isSet == nil {
		isSet = func(string) bool { return false }
	}

	setString := func(flagName string, dst *string, val *string) {
		if val != nil && !isSet(flagName) {
			*dst = *val
		}
	}

	setString(FlagTFPath, &opts.TFPath, cfg.TFPath)

	if cfg.Parallelism != nil && !isSet(FlagParallelism) {
		opts.Parallelism = *cfg.Parallelism
	}

	if cfg.IncludeHidden != nil && !isSet(FlagHidden) {
		opts.IncludeHidden = *cfg.IncludeHidden
	}

	if backend := cfg.Backend; backend != nil {
		setString(FlagBucket, &opts.Bucket, backend.Bucket)
		setString(FlagStateKey, &opts.StateKey, backend.Key)
		setString(FlagStateFile, &opts.StateFile, backend.StateFile)
		setString(FlagLockTable, &opts.LockTable, backend.LockTable)
		setString(FlagProfile, &opts.Profile, backend.Profile)
		setString(FlagRegion, &opts.Region, backend.Region)
	}

	if len(cfg.Services) > 0 && !isSet(FlagService) {
		opts.Services = slices.Clone(cfg.Services)
	}

	opts.ExcludeDirs = union(opts.ExcludeDirs, cfg.ExcludeDirectories)
	opts.ExcludeResources = union(opts.ExcludeResources, cfg.ExcludeResources)
}

func union(list []string, more []string) []string {
	for _, val := range more {
		if !slices.Contains(list, val) {
			list = append(list, val)
		}
	}

	return list
}
