package common

import (
	"github.com/gruntwork-io/casper/config"
	"github.com/gruntwork-io/casper/options"
	"github.com/urfave/cli/v2"
)

const (
	ConfigFlagName = "config"
	FormatFlagName = "format"
)

// NewConfigFlag returns the --config flag.
func NewConfigFlag(opts *options.CasperOptions) cli.Flag {
	return &cli.StringFlag{
		Name:        ConfigFlagName,
		EnvVars:     []string{"CASPER_CONFIG"},
		Usage:       "Path to the casper config file. Defaults to " + options.DefaultConfigName + " in the working directory.",
		Destination: &opts.ConfigPath,
	}
}

// NewBackendFlags returns the flags selecting where the inventory is persisted.
func NewBackendFlags(opts *options.CasperOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        config.FlagBucket,
			EnvVars:     []string{"CASPER_BUCKET"},
			Usage:       "S3 bucket the inventory is saved to. The local state file is used when empty or unreachable.",
			Destination: &opts.Bucket,
		},
		&cli.StringFlag{
			Name:        config.FlagStateKey,
			Usage:       "Object key of the inventory in the S3 bucket.",
			Value:       opts.StateKey,
			Destination: &opts.StateKey,
		},
		&cli.StringFlag{
			Name:        config.FlagStateFile,
			Usage:       "Local inventory file, relative to the working directory.",
			Value:       opts.StateFile,
			Destination: &opts.StateFile,
		},
		&cli.StringFlag{
			Name:        config.FlagLockTable,
			EnvVars:     []string{"CASPER_LOCK_TABLE"},
			Usage:       "DynamoDB table holding a lock while the inventory is saved to the S3 bucket.",
			Destination: &opts.LockTable,
		},
	}
}

// NewAWSFlags returns the flags selecting the AWS credentials.
func NewAWSFlags(opts *options.CasperOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        config.FlagProfile,
			EnvVars:     []string{"AWS_PROFILE"},
			Usage:       "AWS profile used for the S3 backend, terraform and the scan.",
			Destination: &opts.Profile,
		},
		&cli.StringFlag{
			Name:        config.FlagRegion,
			Usage:       "AWS region.",
			Destination: &opts.Region,
		},
	}
}

// NewFormatFlag returns the --format flag accepting the given formats.
func NewFormatFlag(opts *options.CasperOptions, usage string) cli.Flag {
	return &cli.StringFlag{
		Name:        FormatFlagName,
		Usage:       usage,
		Value:       opts.OutputFormat,
		Destination: &opts.OutputFormat,
	}
}
