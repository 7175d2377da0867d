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


package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
)

const (
	// DefaultSettleDelay is how long the coordinator waits after a write
	// action before re-reading the queue. The server needs time to
	// transition state; this is best-effort, the regular poll remains the
	// authoritative reconciliation path.
	DefaultSettleDelay = 2 * time.Second
)

// Refresher triggers an authoritative re-read of the queue. *Poller
// implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Coordinator executes accept/reject/retry across a selection, enforcing
// eligibility rules client-side and aggregating per-item outcomes without
// masking failures.
//
// It owns the only mutable shared state of a session: the selection and the
// last applied queue snapshot. Both are mutated only by completed,
// non-superseded operations. Bulk actions are mutually exclusive per
// coordinator; a second action while one is outstanding is rejected.
type Coordinator struct {
	api        platform.API
	dispatcher *Dispatcher
	selection  *Selection
	refresher  Refresher
	pool       *ants.Pool
	settle     time.Duration
	logger     *slog.Logger

	busy atomic.Bool

	mu           sync.Mutex
	snapshot     *core.QueuePage
	pendingRetry map[string]time.Time
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator) error

// WithCoordinatorLogger sets a custom logger.
// Default is slog.Default().
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithSettleDelay overrides the post-action settle delay.
func WithSettleDelay(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) error {
		if d >= 0 {
			c.settle = d
		}
		return nil
	}
}

// WithRefresher wires the component that performs post-action re-reads,
// typically the session's Poller.
func WithRefresher(r Refresher) CoordinatorOption {
	return func(c *Coordinator) error {
		c.refresher = r
		return nil
	}
}

// NewCoordinator creates a coordinator over the given platform API.
func NewCoordinator(api platform.API, opts ...CoordinatorOption) (*Coordinator, error) {
	if api == nil {
		return nil, ErrAPIRequired
	}

	// Settle-refresh tasks are short and rare; a single worker keeps them
	// ordered behind one another.
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		api:          api,
		selection:    NewSelection(),
		pool:         pool,
		settle:       DefaultSettleDelay,
		logger:       slog.Default(),
		pendingRetry: make(map[string]time.Time),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}

	dispatcher, err := NewDispatcher(api, WithDispatcherLogger(c.logger))
	if err != nil {
		c.Release()
		return nil, err
	}
	c.dispatcher = dispatcher

	return c, nil
}

// SetRefresher wires the post-action refresher after construction. Needed
// when the refresher (typically the Poller) is itself built around this
// coordinator as its snapshot sink.
func (c *Coordinator) SetRefresher(r Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = r
}

// Selection returns the coordinator's selection model.
func (c *Coordinator) Selection() *Selection {
	return c.selection
}

// Snapshot returns the last applied queue page, or nil before the first
// authoritative read.
func (c *Coordinator) Snapshot() *core.QueuePage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// ApplySnapshot installs a fresh authoritative queue page. Implements
// SnapshotSink. Pending-retry markers are cleared here and only here: the
// write response alone never proves the pipeline finished transitioning.
// The selection is left untouched; background polls must not disturb it.
func (c *Coordinator) ApplySnapshot(page *core.QueuePage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = page
	if len(c.pendingRetry) > 0 {
		c.pendingRetry = make(map[string]time.Time)
	}
}

// RetryPending reports whether a retry was dispatched for the job and no
// authoritative read has been applied since.
func (c *Coordinator) RetryPending(jobID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pendingRetry[jobID]
	return ok
}

// Accept accepts every selected job. All selected jobs must currently be in
// the Ready state; a mixed selection is rejected with no backend call made,
// so documents that never finished review cannot be accepted by accident.
// On completion (success or failure of the backend call) the selection is
// cleared and a settle-delayed re-read is scheduled. The outcome is the
// server's per-item accounting, reported verbatim.
func (c *Coordinator) Accept(ctx context.Context) (core.BulkOutcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return core.BulkOutcome{}, ErrActionInProgress
	}
	defer c.busy.Store(false)

	jobs, err := c.selectedJobs()
	if err != nil {
		return core.BulkOutcome{}, err
	}
	for _, job := range jobs {
		if job.ReviewState() != core.ReviewStateReady {
			return core.BulkOutcome{}, fmt.Errorf("%w: job %s is %s", ErrMixedSelection, job.JobID, job.ReviewState())
		}
	}

	outcome, err := c.api.BulkAccept(ctx, c.selection.IDs())
	c.finishAction()
	if err != nil {
		return core.BulkOutcome{}, err
	}
	return outcome, nil
}

// Reject rejects every selected job with the given reason. Any selected
// job, Ready or Error, may be rejected. On completion the selection is
// cleared and a settle-delayed re-read is scheduled.
func (c *Coordinator) Reject(ctx context.Context, reason string) (core.BulkOutcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return core.BulkOutcome{}, ErrActionInProgress
	}
	defer c.busy.Store(false)

	if c.selection.Len() == 0 {
		return core.BulkOutcome{}, ErrEmptySelection
	}

	outcome, err := c.api.BulkReject(ctx, c.selection.IDs(), reason)
	c.finishAction()
	if err != nil {
		return core.BulkOutcome{}, err
	}
	return outcome, nil
}

// RetryFailed retries the Error-state members of the selection, silently
// ignoring Ready members rather than erroring. Ignored members are counted
// as skipped so nothing is dropped from the report. Routing and partitioning
// are delegated to the Dispatcher. On completion the selection is cleared, a
// pending-retry marker is recorded per dispatched job, and a settle-delayed
// re-read is scheduled.
func (c *Coordinator) RetryFailed(ctx context.Context) (core.BulkOutcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return core.BulkOutcome{}, ErrActionInProgress
	}
	defer c.busy.Store(false)

	jobs, err := c.selectedJobs()
	if err != nil {
		return core.BulkOutcome{}, err
	}

	var toRetry []*core.IngestionJob
	skipped := 0
	for _, job := range jobs {
		if job.ReviewState() == core.ReviewStateError {
			toRetry = append(toRetry, job)
		} else {
			skipped++
		}
	}

	outcome, err := c.dispatcher.RetryMany(ctx, toRetry)
	if err == nil {
		c.markRetryPending(toRetry)
	}
	c.finishAction()
	if err != nil {
		return core.BulkOutcome{}, err
	}
	outcome.Skipped += skipped
	return outcome, nil
}

// Release frees the coordinator's worker pool. The coordinator should not
// be used after calling Release.
func (c *Coordinator) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}

// selectedJobs resolves the selection against the last applied snapshot.
// A selected job that is no longer in the snapshot makes the selection
// stale; the action is refused before any backend call.
func (c *Coordinator) selectedJobs() ([]*core.IngestionJob, error) {
	ids := c.selection.IDs()
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	snapshot := c.Snapshot()
	if snapshot == nil {
		return nil, fmt.Errorf("%w: no queue snapshot yet", ErrEmptySelection)
	}

	jobs := make([]*core.IngestionJob, 0, len(ids))
	for _, id := range ids {
		job := snapshot.JobByID(id)
		if job == nil {
			return nil, fmt.Errorf("%w: job %s is no longer in the queue", ErrMixedSelection, id)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (c *Coordinator) markRetryPending(jobs []*core.IngestionJob) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC()
	for _, job := range jobs {
		c.pendingRetry[job.JobID] = now
	}
}

// finishAction clears the selection and schedules the settle-delayed
// re-read. Runs after every executed bulk action, whatever its outcome.
func (c *Coordinator) finishAction() {
	c.selection.Clear()

	c.mu.Lock()
	refresher := c.refresher
	c.mu.Unlock()
	if refresher == nil {
		return
	}
	err := c.pool.Submit(func() {
		time.Sleep(c.settle)
		if err := refresher.Refresh(context.Background()); err != nil {
			c.logger.Warn("post-action refresh failed", "err", err)
		}
	})
	if err != nil {
		c.logger.Warn("failed to schedule post-action refresh", "err", err)
	}
}
