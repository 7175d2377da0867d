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
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/queue"
)

const (
	// DefaultPollInterval is the background refresh cadence while the view
	// is visible.
	DefaultPollInterval = 10 * time.Second
)

// Lister is the read surface the poller drives. *queue.Repository
// implements it.
type Lister interface {
	List(ctx context.Context, filter core.Filter) (*core.QueuePage, error)
}

// SnapshotSink receives applied queue pages. Only responses that survive the
// sequencing rule reach the sink, so it always observes snapshots in issue
// order.
type SnapshotSink interface {
	ApplySnapshot(page *core.QueuePage)
}

// Poller refreshes the review queue on a fixed interval while the view is
// visible. Every fetch carries a monotonically increasing sequence number;
// a response is applied only if its number equals the latest issued, so
// stale responses from superseded requests are discarded rather than applied
// out of order. There is no lock around application, only last-sequence-wins.
type Poller struct {
	lister         Lister
	sink           SnapshotSink
	monitor        PollMonitor
	interval       time.Duration
	logger         *slog.Logger
	onFilterChange func()

	seq     atomic.Uint64
	visible atomic.Bool

	mu     sync.Mutex
	filter core.Filter
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollInterval overrides the refresh cadence.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithPollLogger sets a custom logger.
// Default is slog.Default().
func WithPollLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// WithFilterChangeHook registers a callback invoked whenever SetFilter
// changes the logical query. The session uses it to clear the selection,
// which never survives a filter, search, or page change.
func WithFilterChangeHook(hook func()) PollerOption {
	return func(p *Poller) {
		p.onFilterChange = hook
	}
}

// WithPollMonitor sets an observation hook for the polling process.
func WithPollMonitor(monitor PollMonitor) PollerOption {
	return func(p *Poller) {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
	}
}

// NewPoller creates a poller over the given lister and sink.
// The initial filter defaults to page 1 with 25 items; change it with
// SetFilter. The poller starts visible.
func NewPoller(lister Lister, sink SnapshotSink, opts ...PollerOption) (*Poller, error) {
	if lister == nil {
		return nil, ErrListerRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}

	p := &Poller{
		lister:   lister,
		sink:     sink,
		monitor:  &noopMonitor{},
		interval: DefaultPollInterval,
		logger:   slog.Default(),
		filter:   core.Filter{Page: 1, PageSize: 25},
	}
	p.visible.Store(true)

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run polls until the context is cancelled. Background fetch errors are
// recoverable: they are logged and retried on the next tick, never surfaced.
// Ticks while the view is not visible are skipped.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.visible.Load() {
				continue
			}
			if err := p.fetch(ctx); err != nil {
				p.logger.Debug("background poll failed", "err", err)
			}
		}
	}
}

// Refresh performs an operator-initiated fetch. It supersedes any in-flight
// poll fetch by the sequencing rule and, unlike background polls, returns
// the error for the operator to see.
func (p *Poller) Refresh(ctx context.Context) error {
	return p.fetch(ctx)
}

// SetFilter changes the logical query and immediately fetches it.
// The fetch supersedes anything in flight.
func (p *Poller) SetFilter(ctx context.Context, filter core.Filter) error {
	if err := p.UpdateFilter(filter); err != nil {
		return err
	}
	return p.fetch(ctx)
}

// UpdateFilter changes the logical query without fetching. The debounced
// search path uses it: the repository issues the read on its own schedule,
// and later poll ticks pick up the new filter from here.
func (p *Poller) UpdateFilter(filter core.Filter) error {
	if err := core.ValidateFilter(filter); err != nil {
		return err
	}
	p.mu.Lock()
	changed := filter != p.filter
	p.filter = filter
	p.mu.Unlock()

	if changed && p.onFilterChange != nil {
		p.onFilterChange()
	}
	return nil
}

// Filter returns the current logical query.
func (p *Poller) Filter() core.Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// SetVisible suspends or resumes background polling. An operator Refresh
// still works while hidden.
func (p *Poller) SetVisible(visible bool) {
	p.visible.Store(visible)
}

// fetch issues one sequenced read and applies the response only if no newer
// fetch has been issued meanwhile.
func (p *Poller) fetch(ctx context.Context) error {
	seq := p.seq.Add(1)
	p.monitor.Started(seq)

	p.mu.Lock()
	filter := p.filter
	p.mu.Unlock()

	page, err := p.lister.List(ctx, filter)
	if err != nil {
		if errors.Is(err, queue.ErrSuperseded) {
			p.monitor.Discarded(seq)
			return nil
		}
		p.monitor.Failed(seq, err)
		return err
	}

	if p.seq.Load() != seq {
		// A newer fetch was issued while this one was in flight.
		p.monitor.Discarded(seq)
		return nil
	}

	p.sink.ApplySnapshot(page)
	p.monitor.Applied(seq, page)
	return nil
}
