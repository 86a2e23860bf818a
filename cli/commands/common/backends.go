// Package common holds what the casper commands share: the backends they talk to and the flags
// that configure them.
package common

import (
	"context"

	"github.com/gruntwork-io/casper/internal/awshelper"
	"github.com/gruntwork-io/casper/internal/gateway"
	"github.com/gruntwork-io/casper/internal/scan"
	"github.com/gruntwork-io/casper/internal/storage"
	"github.com/gruntwork-io/casper/options"
)

// Backends create the components the commands talk to.
type Backends struct {
	NewGateway func(opts *options.CasperOptions) (gateway.Gateway, error)
	NewStore   func(ctx context.Context, opts *options.CasperOptions) (storage.Store, error)
	NewClients func(ctx context.Context, opts *options.CasperOptions) (*scan.Clients, error)
}

// DefaultBackends runs terraform, persists to S3 or a local file and scans the AWS account of the configured profile.
func DefaultBackends() *Backends {
	return &Backends{
		NewGateway: newTerraform,
		NewStore: func(ctx context.Context, opts *options.CasperOptions) (storage.Store, error) {
			return storage.FromOptions(ctx, opts.Logger, opts)
		},
		NewClients: newAWSClients,
	}
}

func newTerraform(opts *options.CasperOptions) (gateway.Gateway, error) {
	tf, err := gateway.NewTerraform(opts)
	if err != nil {
		return nil, err
	}

	if err := tf.Verify(); err != nil {
		return nil, err
	}

	return tf, nil
}

func newAWSClients(ctx context.Context, opts *options.CasperOptions) (*scan.Clients, error) {
	sessionConfig := &awshelper.SessionConfig{
		Region:  opts.Region,
		Profile: opts.Profile,
	}

	cfg, err := awshelper.NewAWSConfigBuilder().
		WithSessionConfig(sessionConfig).
		WithEnv(opts.Env).
		Build(ctx, opts.Logger)
	if err != nil {
		return nil, err
	}

	clients := awshelper.NewClients(cfg, sessionConfig)

	accountID, err := awshelper.GetAWSAccountID(ctx, clients.STS)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debugf("Scanning AWS account %s", accountID)

	return scan.NewClients(clients), nil
}
