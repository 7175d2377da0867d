package snapshot

import (
	"context"
	"time"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
)

// Store persists the last fetched queue page per query key.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// SavePage stores a queue page under the query key, stamping it with
	// the current time. Overwrites any previous page for the same key.
	SavePage(ctx context.Context, key core.QueryKey, page *core.QueuePage) error

	// LoadPage retrieves the cached page for the query key together with
	// the time it was saved. Returns ErrNoSnapshot if nothing is cached.
	LoadPage(ctx context.Context, key core.QueryKey) (*core.QueuePage, time.Time, error)

	// Close closes the store and releases resources.
	Close() error
}
