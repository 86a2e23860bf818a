package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gofrs/flock"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/internal/storage"
	"github.com/gruntwork-io/casper/options"
	"github.com/gruntwork-io/casper/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *inventory.State {
	state := inventory.NewState()
	state.Add("aws_instance", "i-0101522650aeaa2dd")
	state.Add("aws_instance", "i-084699b83473e2c69")
	state.Add("aws_alb", "test-lb")

	return state
}

func newTestLogger() (log.Logger, *test.Hook) {
	hook := test.NewLocal(logrus.New())

	return log.New(log.WithOutput(io.Discard), log.WithHooks(hook)), hook
}

func TestLocalRoundTrip(t *testing.T) {
	t.Parallel()

	l, hook := newTestLogger()
	path := filepath.Join(t.TempDir(), "nested", storage.DefaultStateName)

	store, err := storage.NewLocal(path, l)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	require.NoError(t, store.Save(t.Context(), sampleState()))
	assert.Equal(t, "Saving state to "+path+" ...", hook.LastEntry().Message)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"aws_instance":["i-0101522650aeaa2dd","i-084699b83473e2c69"],"aws_alb":["test-lb"]}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	assert.Equal(t, []string{storage.DefaultStateName, storage.DefaultStateName + ".lock"}, names, "temporary files are cleaned up")

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.True(t, sampleState().Equal(loaded))
	assert.Equal(t, []string{"aws_instance", "aws_alb"}, loaded.Groups())
}

func TestLocalConcurrentSaves(t *testing.T) {
	t.Parallel()

	l, _ := newTestLogger()
	path := filepath.Join(t.TempDir(), storage.DefaultStateName)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			store, err := storage.NewLocal(path, l)
			if !assert.NoError(t, err) {
				return
			}

			state := inventory.NewState()
			state.Add("aws_instance", "i-"+strconv.Itoa(i))

			assert.NoError(t, store.Save(t.Context(), state))
		}()
	}

	wg.Wait()

	store, err := storage.NewLocal(path, l)
	require.NoError(t, err)

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Count())
}

func TestLocalSaveCanceled(t *testing.T) {
	t.Parallel()

	l, _ := newTestLogger()
	path := filepath.Join(t.TempDir(), storage.DefaultStateName)

	held := flock.New(path + ".lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	defer held.Unlock() //nolint:errcheck

	ctx, cancel := context.WithTimeout(t.Context(), 300*time.Millisecond)
	defer cancel()

	store, err := storage.NewLocal(path, l)
	require.NoError(t, err)

	err = store.Save(ctx, sampleState())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoFileExists(t, path)
}

func TestLocalLoadMissing(t *testing.T) {
	t.Parallel()

	l, _ := newTestLogger()

	store, err := storage.NewLocal(filepath.Join(t.TempDir(), "missing"), l)
	require.NoError(t, err)

	_, err = store.Load(t.Context())
	require.ErrorIs(t, err, storage.ErrStateNotFound)
}

func TestLocalLoadCorrupted(t *testing.T) {
	t.Parallel()

	l, _ := newTestLogger()
	path := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	store, err := storage.NewLocal(path, l)
	require.NoError(t, err)

	_, err = store.Load(t.Context())
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrStateNotFound)
}

func TestLocalLoadSchemaMismatch(t *testing.T) {
	t.Parallel()

	l, _ := newTestLogger()
	path := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(path, []byte(`{"aws_instance": "i-084699b83473e2c69"}`), 0o644))

	store, err := storage.NewLocal(path, l)
	require.NoError(t, err)

	_, err = store.Load(t.Context())
	require.Error(t, err)

	var schemaErr inventory.SchemaValidationError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, err.Error(), "unable to decode "+path)
}

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
	getErr  error
	mu      sync.Mutex
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (fake *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if fake.putErr != nil {
		return nil, fake.putErr
	}

	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	fake.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = data

	return &s3.PutObjectOutput{}, nil
}

func (fake *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if fake.getErr != nil {
		return nil, fake.getErr
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	data, ok := fake.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3RoundTrip(t *testing.T) {
	t.Parallel()

	l, hook := newTestLogger()
	client := newFakeS3()
	store := storage.NewS3(client, "inventory", "terraform_state", l)

	require.NoError(t, store.Save(t.Context(), sampleState()))
	assert.Equal(t, "Saving state to s3 bucket ...", hook.LastEntry().Message)
	assert.Contains(t, client.objects, "inventory/terraform_state")

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Loading state from s3 bucket ...", hook.LastEntry().Message)
	assert.True(t, sampleState().Equal(loaded))
}

func TestS3LoadNotFound(t *testing.T) {
	t.Parallel()

	l, _ := newTestLogger()

	_, err := storage.NewS3(newFakeS3(), "inventory", "missing", l).Load(t.Context())
	require.ErrorIs(t, err, storage.ErrStateNotFound)

	client := newFakeS3()
	client.getErr = &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}

	_, err = storage.NewS3(client, "inventory", "missing", l).Load(t.Context())
	require.ErrorIs(t, err, storage.ErrStateNotFound)

	client.getErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}

	_, err = storage.NewS3(client, "inventory", "missing", l).Load(t.Context())
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrStateNotFound)
	assert.Contains(t, err.Error(), "s3://inventory/missing")
}

func TestFallbackSave(t *testing.T) {
	t.Parallel()

	l, hook := newTestLogger()

	client := newFakeS3()
	client.putErr = errors.New("AccessDenied")

	path := filepath.Join(t.TempDir(), storage.DefaultStateName)
	local, err := storage.NewLocal(path, l)
	require.NoError(t, err)

	store := storage.NewFallback(storage.NewS3(client, "inventory", "terraform_state", l), local, l)
	require.NoError(t, store.Save(t.Context(), sampleState()))

	var warnings []string

	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings = append(warnings, entry.Message)
		}
	}

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "AccessDenied")
	assert.Contains(t, warnings[0], ". Attempting to save state locally instead")
	assert.FileExists(t, path)

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.True(t, sampleState().Equal(loaded))
	assert.Equal(t, "Loading state from "+path+" ...", hook.LastEntry().Message)
}

func TestFallbackPrimarySucceeds(t *testing.T) {
	t.Parallel()

	l, _ := newTestLogger()
	client := newFakeS3()
	path := filepath.Join(t.TempDir(), storage.DefaultStateName)

	local, err := storage.NewLocal(path, l)
	require.NoError(t, err)

	store := storage.NewFallback(storage.NewS3(client, "inventory", "terraform_state", l), local, l)
	require.NoError(t, store.Save(t.Context(), sampleState()))

	assert.NoFileExists(t, path)
	assert.Len(t, client.objects, 1)
}

func TestFromOptionsLocal(t *testing.T) {
	t.Parallel()

	l, _ := newTestLogger()

	opts := options.NewCasperOptions()
	opts.WorkingDir = t.TempDir()

	store, err := storage.FromOptions(t.Context(), l, opts)
	require.NoError(t, err)

	local, ok := store.(*storage.Local)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(opts.WorkingDir, storage.DefaultStateName), local.Path())
}
