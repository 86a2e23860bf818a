package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/pkg/log"
)

const jsonContentType = "application/json"

// S3API is the part of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 stores the inventory as a JSON object in a bucket.
type S3 struct {
	client S3API
	lock   Locker
	logger log.Logger
	bucket string
	key    string
}

// NewS3 returns an S3 store for s3://bucket/key.
func NewS3(client S3API, bucket, key string, l log.Logger) *S3 {
	return &S3{client: client, bucket: bucket, key: key, logger: l}
}

// WithLock makes Save hold lock while uploading.
func (store *S3) WithLock(lock Locker) *S3 {
	store.lock = lock
	return store
}

// Save uploads the state.
func (store *S3) Save(ctx context.Context, state *inventory.State) (err error) {
	store.logger.Infof("Saving state to s3 bucket ...")

	if store.lock != nil {
		if err := store.lock.Lock(ctx); err != nil {
			return err
		}

		defer func() {
			if unlockErr := store.lock.Unlock(context.WithoutCancel(ctx)); unlockErr != nil {
				err = errors.Join(err, unlockErr)
			}
		}()
	}

	data, err := json.Marshal(state)
	if err != nil {
		return errors.New(err)
	}

	if _, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(store.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(jsonContentType),
	}); err != nil {
		return errors.Errorf("failed to write state to s3://%s/%s: %w", store.bucket, store.key, err)
	}

	return nil
}

// Load downloads the state.
func (store *S3) Load(ctx context.Context) (*inventory.State, error) {
	store.logger.Infof("Loading state from s3 bucket ...")

	result, err := store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(store.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.New(ErrStateNotFound)
		}

		return nil, errors.Errorf("failed to read state from s3://%s/%s: %w", store.bucket, store.key, err)
	}
	defer result.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, errors.New(err)
	}

	if err := inventory.ValidateJSON(data); err != nil {
		return nil, errors.WithPrefix(err, "unable to decode s3://%s/%s", store.bucket, store.key)
	}

	state := inventory.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, errors.WithPrefix(err, "unable to decode s3://%s/%s", store.bucket, store.key)
	}

	return state, nil
}

func isNotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}
