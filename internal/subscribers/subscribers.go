// Package subscribers manages newsletter signups. Writes go to a primary
// store with a local fallback, so a dead database degrades persistence
// instead of failing the signup.
package subscribers

import (
	"context"

	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
)

// SourceTag marks which property funnels signups into the store.
const SourceTag = "torqtechnews"

// Storer persists subscribers. Implementations enforce email uniqueness
// and report an apperr.ConflictError for an address that is already
// active; resubscribing an inactive address reactivates it in place.
type Storer interface {
	Backend() domain.Backend

	// Subscribe inserts a new subscriber or reactivates an inactive one.
	Subscribe(ctx context.Context, sub domain.Subscriber) error

	// CountActive returns the number of active subscribers.
	CountActive(ctx context.Context) (int64, error)

	// List returns up to limit subscribers newest first, starting after
	// the cursor position when one is given.
	List(ctx context.Context, after *dto.Cursor, limit int) ([]domain.Subscriber, error)

	Healthy(ctx context.Context) bool
	Close()
}
