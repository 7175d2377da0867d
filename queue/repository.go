// Copyright 2026 Nyx Solutions
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
	"github.com/nyx-solutions-team/briefly-app-sub002/snapshot"
)

const (
	// DefaultSearchDebounce is the quiescence window applied to search text
	// changes before a request is issued.
	DefaultSearchDebounce = 300 * time.Millisecond
)

// Repository provides paginated, filtered, searchable read access to the
// review queue. One Repository serves one consuming view; a new read
// supersedes any read still in flight.
type Repository struct {
	api      platform.JobLister
	cache    snapshot.Store
	debounce time.Duration
	logger   *slog.Logger

	mu             sync.Mutex
	cancelInflight context.CancelFunc
	searchTimer    *time.Timer
}

// Option configures a Repository.
type Option func(*Repository)

// WithSnapshotStore sets an optional snapshot store; applied pages are
// written through to it.
func WithSnapshotStore(store snapshot.Store) Option {
	return func(r *Repository) {
		r.cache = store
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// WithSearchDebounce overrides the search quiescence window.
func WithSearchDebounce(d time.Duration) Option {
	return func(r *Repository) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// NewRepository creates a queue repository over the given lister.
func NewRepository(api platform.JobLister, opts ...Option) (*Repository, error) {
	if api == nil {
		return nil, ErrListerRequired
	}

	r := &Repository{
		api:      api,
		debounce: DefaultSearchDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// List fetches one page of the queue. Any read still in flight is cancelled
// first; if this read is itself superseded before it completes, it returns
// ErrSuperseded and the caller discards the result silently.
func (r *Repository) List(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
	if err := core.ValidateFilter(filter); err != nil {
		return nil, err
	}

	readCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancelInflight != nil {
		r.cancelInflight()
	}
	r.cancelInflight = cancel
	r.mu.Unlock()

	page, err := r.api.ListJobs(readCtx, filter)

	r.mu.Lock()
	mine := false
	if r.cancelInflight != nil {
		// Only clear the slot if it still belongs to this read.
		select {
		case <-readCtx.Done():
		default:
			mine = true
		}
		if mine {
			r.cancelInflight = nil
		}
	}
	r.mu.Unlock()
	cancel()

	if err != nil {
		// Distinguish supersession from caller cancellation: the parent
		// context is still live when a newer read cancelled this one.
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return nil, ErrSuperseded
		}
		return nil, err
	}

	r.writeThrough(filter, page)
	return page, nil
}

// Search schedules a debounced read for the filter. Repeated calls within
// the quiescence window reset the timer so only the final filter is fetched.
// apply receives the page once the read completes; superseded reads are
// discarded without invoking apply.
func (r *Repository) Search(ctx context.Context, filter core.Filter, apply func(*core.QueuePage, error)) {
	r.mu.Lock()
	if r.searchTimer != nil {
		r.searchTimer.Stop()
	}
	r.searchTimer = time.AfterFunc(r.debounce, func() {
		page, err := r.List(ctx, filter)
		if errors.Is(err, ErrSuperseded) {
			return
		}
		apply(page, err)
	})
	r.mu.Unlock()
}

// CancelPending cancels any in-flight read and any scheduled debounced read.
func (r *Repository) CancelPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.searchTimer != nil {
		r.searchTimer.Stop()
		r.searchTimer = nil
	}
	if r.cancelInflight != nil {
		r.cancelInflight()
		r.cancelInflight = nil
	}
}

// Cached returns the last page written through for the filter, with the time
// it was saved. Returns snapshot.ErrNoSnapshot when nothing is cached or no
// store is configured.
func (r *Repository) Cached(ctx context.Context, filter core.Filter) (*core.QueuePage, time.Time, error) {
	if r.cache == nil {
		return nil, time.Time{}, snapshot.ErrNoSnapshot
	}
	return r.cache.LoadPage(ctx, filter.Key())
}

// writeThrough persists the applied page. Best-effort: failures are logged.
func (r *Repository) writeThrough(filter core.Filter, page *core.QueuePage) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SavePage(context.Background(), filter.Key(), page); err != nil {
		r.logger.Warn("failed to cache queue page", "key", uint64(filter.Key()), "err", err)
	}
}
