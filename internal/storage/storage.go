// Package storage persists the aggregated inventory, either as a local JSON file or as an S3 object.
package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gruntwork-io/casper/internal/awshelper"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/options"
	"github.com/gruntwork-io/casper/pkg/log"
)

// DefaultStateName is the file and object name used when none is configured.
const DefaultStateName = "terraform_state"

// ErrStateNotFound is returned by Load when nothing was saved yet.
var ErrStateNotFound = errors.New("inventory state not found")

// Store saves and loads the inventory.
type Store interface {
	Save(ctx context.Context, state *inventory.State) error
	Load(ctx context.Context) (*inventory.State, error)
}

// FromOptions returns an S3 store falling back to a local file when a bucket is configured,
// and a local store otherwise.
func FromOptions(ctx context.Context, l log.Logger, opts *options.CasperOptions) (Store, error) {
	path := opts.StateFile
	if path == "" {
		path = DefaultStateName
	}

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "~") {
		path = filepath.Join(opts.WorkingDir, path)
	}

	local, err := NewLocal(path, l)
	if err != nil {
		return nil, err
	}

	if opts.Bucket == "" {
		return local, nil
	}

	sessionConfig := &awshelper.SessionConfig{
		Region:  opts.Region,
		Profile: opts.Profile,
	}

	cfg, err := awshelper.NewAWSConfigBuilder().
		WithSessionConfig(sessionConfig).
		WithEnv(opts.Env).
		Build(ctx, l)
	if err != nil {
		l.Warnf("%v. Attempting to use local state instead", err)

		return local, nil
	}

	key := opts.StateKey
	if key == "" {
		key = DefaultStateName
	}

	remote := NewS3(awshelper.NewS3Client(cfg, sessionConfig), opts.Bucket, key, l)

	if opts.LockTable != "" {
		remote.WithLock(NewDynamoDBLock(dynamodb.NewFromConfig(cfg), opts.LockTable, opts.Bucket+"/"+key, l))
	}

	return NewFallback(remote, local, l), nil
}
