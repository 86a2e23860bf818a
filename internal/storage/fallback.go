package storage

import (
	"context"

	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/pkg/log"
)

// Fallback uses the secondary store whenever the primary one fails.
type Fallback struct {
	primary   Store
	secondary Store
	logger    log.Logger
}

// NewFallback returns a Fallback store.
func NewFallback(primary, secondary Store, l log.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: l}
}

// Save saves to the primary store, or to the secondary one if that fails.
func (store *Fallback) Save(ctx context.Context, state *inventory.State) error {
	err := store.primary.Save(ctx, state)
	if err == nil {
		return nil
	}

	store.logger.Warnf("%v. Attempting to save state locally instead", err)

	return store.secondary.Save(ctx, state)
}

// Load loads from the primary store, or from the secondary one if that fails.
func (store *Fallback) Load(ctx context.Context) (*inventory.State, error) {
	state, err := store.primary.Load(ctx)
	if err == nil {
		return state, nil
	}

	store.logger.Warnf("%v. Attempting to load state locally instead", err)

	return store.secondary.Load(ctx)
}
