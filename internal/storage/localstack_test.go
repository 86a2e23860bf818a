//go:build docker

package storage_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/docker/go-connections/nat"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	localstackImage = "localstack/localstack:4.4"
	localstackPort  = nat.Port("4566/tcp")

	testBucket    = "casper-inventory"
	testLockTable = "casper-locks"
)

// setupLocalstack starts S3 and DynamoDB in a container and returns clients pointed at it.
func setupLocalstack(t *testing.T) (*s3.Client, *dynamodb.Client) {
	t.Helper()

	ctr, err := testcontainers.Run(t.Context(), localstackImage,
		testcontainers.WithExposedPorts(string(localstackPort)),
		testcontainers.WithEnv(map[string]string{
			"SERVICES": "s3,dynamodb",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_localstack/health").WithPort(localstackPort),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	endpoint, err := ctr.PortEndpoint(t.Context(), localstackPort, "http")
	require.NoError(t, err)

	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("test", "test", ""),
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	dbClient := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	_, err = s3Client.CreateBucket(t.Context(), &s3.CreateBucketInput{Bucket: aws.String(testBucket)})
	require.NoError(t, err)

	_, err = dbClient.CreateTable(t.Context(), &dynamodb.CreateTableInput{
		TableName: aws.String(testLockTable),
		AttributeDefinitions: []dbtypes.AttributeDefinition{
			{AttributeName: aws.String(storage.AttrLockID), AttributeType: dbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []dbtypes.KeySchemaElement{
			{AttributeName: aws.String(storage.AttrLockID), KeyType: dbtypes.KeyTypeHash},
		},
		BillingMode: dbtypes.BillingModePayPerRequest,
	})
	require.NoError(t, err)

	return s3Client, dbClient
}

func TestS3StoreWithLocalstack(t *testing.T) {
	t.Parallel()

	s3Client, dbClient := setupLocalstack(t)
	l, _ := newTestLogger()

	lockID := testBucket + "/" + storage.DefaultStateName
	store := storage.NewS3(s3Client, testBucket, storage.DefaultStateName, l).
		WithLock(storage.NewDynamoDBLock(dbClient, testLockTable, lockID, l))

	_, err := store.Load(t.Context())
	require.ErrorIs(t, err, storage.ErrStateNotFound)

	require.NoError(t, store.Save(t.Context(), sampleState()))

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.True(t, sampleState().Equal(loaded))

	held := storage.NewDynamoDBLock(dbClient, testLockTable, lockID, l)
	require.NoError(t, held.Lock(t.Context()))

	err = store.Save(t.Context(), sampleState())

	var locked storage.StateLockedError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, testLockTable, locked.Table)

	require.NoError(t, held.Unlock(t.Context()))
	require.NoError(t, store.Save(t.Context(), sampleState()))
}
