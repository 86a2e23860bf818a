package config_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/gruntwork-io/casper/config"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOptions(t *testing.T) *options.CasperOptions {
	t.Helper()

	opts := options.NewCasperOptionsWithWriters(new(bytes.Buffer), new(bytes.Buffer))
	opts.WorkingDir = t.TempDir()

	return opts
}

func TestReadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.ReadConfig(filepath.Join("testdata", "casper.hcl"), map[string]string{"CASPER_ENV": "prod"})
	require.NoError(t, err)

	assert.Equal(t, []string{"legacy", "modules/*"}, cfg.ExcludeDirectories)
	assert.Equal(t, []string{"aws_instance.bastion"}, cfg.ExcludeResources)
	require.NotNil(t, cfg.TFPath)
	assert.Equal(t, "tofu", *cfg.TFPath)
	require.NotNil(t, cfg.Parallelism)
	assert.Equal(t, 4, *cfg.Parallelism)
	assert.Nil(t, cfg.IncludeHidden)

	require.NotNil(t, cfg.Backend)
	assert.Equal(t, "inventory", *cfg.Backend.Bucket)
	assert.Equal(t, "states/prod", *cfg.Backend.Key)
	assert.Equal(t, "ops", *cfg.Backend.Profile)
	assert.Equal(t, "eu-west-1", *cfg.Backend.Region)
	assert.Nil(t, cfg.Backend.StateFile)
}

func TestReadConfigEnvDefault(t *testing.T) {
	t.Parallel()

	cfg, err := config.ReadConfig(filepath.Join("testdata", "casper.hcl"), nil)
	require.NoError(t, err)
	assert.Equal(t, "states/dev", *cfg.Backend.Key)
}

func TestReadConfigJSON(t *testing.T) {
	t.Parallel()

	cfg, err := config.ReadConfig(filepath.Join("testdata", "casper.hcl.json"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ec2", "s3"}, cfg.Services)
	require.NotNil(t, cfg.IncludeHidden)
	assert.True(t, *cfg.IncludeHidden)
	assert.Equal(t, "inventory.json", *cfg.Backend.StateFile)
}

func TestReadConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := config.ReadConfig(filepath.Join("testdata", "missing.hcl"), nil)

	var notFoundErr config.FileNotFoundError
	require.True(t, errors.As(err, &notFoundErr))

	for _, name := range []string{"invalid.hcl", "unknown_attribute.hcl"} {
		_, err := config.ReadConfig(filepath.Join("testdata", name), nil)

		var parseErr config.ParseError
		require.True(t, errors.As(err, &parseErr), name)
		assert.True(t, parseErr.Diags.HasErrors())
	}
}

func TestReadForOptions(t *testing.T) {
	t.Parallel()

	opts := newOptions(t)

	cfg, err := config.ReadForOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)

	opts.ConfigPath = filepath.Join(opts.WorkingDir, "missing.hcl")

	_, err = config.ReadForOptions(opts)

	var notFoundErr config.FileNotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, opts.ConfigPath, notFoundErr.Path)
}

func TestApply(t *testing.T) {
	t.Parallel()

	cfg, err := config.ReadConfig(filepath.Join("testdata", "casper.hcl"), nil)
	require.NoError(t, err)

	opts := newOptions(t)
	opts.TFPath = "/usr/local/bin/terraform"
	opts.Region = "us-west-2"
	opts.ExcludeDirs = []string{"legacy", "sandbox"}
	opts.ExcludeResources = []string{"aws_lb.internal"}

	explicit := map[string]bool{config.FlagTFPath: true, config.FlagRegion: true}

	cfg.Apply(opts, func(name string) bool { return explicit[name] })

	assert.Equal(t, "/usr/local/bin/terraform", opts.TFPath)
	assert.Equal(t, "us-west-2", opts.Region)
	assert.Equal(t, 4, opts.Parallelism)
	assert.Equal(t, "inventory", opts.Bucket)
	assert.Equal(t, "states/dev", opts.StateKey)
	assert.Equal(t, "ops", opts.Profile)
	assert.Equal(t, options.DefaultStateName, opts.StateFile)
	assert.Equal(t, []string{"legacy", "sandbox", "modules/*"}, opts.ExcludeDirs)
	assert.Equal(t, []string{"aws_lb.internal", "aws_instance.bastion"}, opts.ExcludeResources)
}

func TestApplyEmptyConfig(t *testing.T) {
	t.Parallel()

	opts := newOptions(t)
	before := opts.Clone()

	(&config.Config{}).Apply(opts, nil)

	assert.Equal(t, before.TFPath, opts.TFPath)
	assert.Equal(t, before.Parallelism, opts.Parallelism)
	assert.Equal(t, before.StateFile, opts.StateFile)
	assert.Empty(t, opts.ExcludeDirs)
	assert.Empty(t, opts.ExcludeResources)
}
