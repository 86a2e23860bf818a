package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/pkg/log"
	"github.com/mitchellh/go-homedir"
)

const (
	stateFileMode = 0o644

	lockRetryDelay = 100 * time.Millisecond
)

// Local stores the inventory as a JSON file.
type Local struct {
	logger log.Logger
	path   string
}

// NewLocal returns a Local store writing to path. A leading `~` is expanded to the home directory.
func NewLocal(path string, l log.Logger) (*Local, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.New(err)
	}

	return &Local{path: expanded, logger: l}, nil
}

// Path returns the file the state is written to.
func (store *Local) Path() string {
	return store.path
}

// Save writes the state to a temporary file next to the target and renames it into place,
// so readers never observe a partially written file. Concurrent writers are serialized
// with a lock file next to the target.
func (store *Local) Save(ctx context.Context, state *inventory.State) error {
	store.logger.Infof("Saving state to %s ...", store.path)

	data, err := json.Marshal(state)
	if err != nil {
		return errors.New(err)
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.New(err)
	}

	lock := flock.New(store.path + ".lock")

	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return errors.Errorf("unable to lock %s: %w", store.path, err)
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			store.logger.Warnf("Unable to release the lock of %s: %v", store.path, err)
		}
	}()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(store.path)+".*")
	if err != nil {
		return errors.New(err)
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return errors.New(err)
	}

	if err := tmp.Close(); err != nil {
		return errors.New(err)
	}

	if err := os.Chmod(tmp.Name(), stateFileMode); err != nil {
		return errors.New(err)
	}

	if err := os.Rename(tmp.Name(), store.path); err != nil {
		return errors.New(err)
	}

	return nil
}

// Load reads the state file.
func (store *Local) Load(_ context.Context) (*inventory.State, error) {
	store.logger.Infof("Loading state from %s ...", store.path)

	data, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(ErrStateNotFound)
		}

		return nil, errors.New(err)
	}

	if err := inventory.ValidateJSON(data); err != nil {
		return nil, errors.WithPrefix(err, "unable to decode %s", store.path)
	}

	state := inventory.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, errors.WithPrefix(err, "unable to decode %s", store.path)
	}

	return state, nil
}
