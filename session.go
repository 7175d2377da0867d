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


package briefly

import (
	"context"
	"log/slog"
	"time"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform/rest"
	"github.com/nyx-solutions-team/briefly-app-sub002/queue"
	"github.com/nyx-solutions-team/briefly-app-sub002/review"
	"github.com/nyx-solutions-team/briefly-app-sub002/snapshot"
	badgersnap "github.com/nyx-solutions-team/briefly-app-sub002/snapshot/badger"
)

// Session wires one operator's review-queue components together: platform
// client, queue repository, bulk action coordinator, and poller. Sessions
// are independent; multiple can run in the same process.
type Session struct {
	api         platform.API
	cache       snapshot.Store
	repo        *queue.Repository
	coordinator *review.Coordinator
	poller      *review.Poller
	logger      *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	platformCfg    *platform.Config
	cachePath      string
	pollInterval   time.Duration
	settleDelay    time.Duration
	searchDebounce time.Duration
	monitor        review.PollMonitor
	logger         *slog.Logger
}

// WithPlatformConfig sets the platform API configuration.
// Default is platform.DefaultConfig().
func WithPlatformConfig(cfg *platform.Config) SessionOption {
	return func(o *sessionOptions) {
		o.platformCfg = cfg
	}
}

// WithCachePath persists the snapshot cache at the given directory.
// Default is an in-memory cache that lives as long as the session.
func WithCachePath(path string) SessionOption {
	return func(o *sessionOptions) {
		o.cachePath = path
	}
}

// WithPollInterval overrides the background refresh cadence.
func WithPollInterval(d time.Duration) SessionOption {
	return func(o *sessionOptions) {
		o.pollInterval = d
	}
}

// WithSettleDelay overrides the post-action settle delay.
func WithSettleDelay(d time.Duration) SessionOption {
	return func(o *sessionOptions) {
		o.settleDelay = d
	}
}

// WithSearchDebounce overrides the search quiescence window.
func WithSearchDebounce(d time.Duration) SessionOption {
	return func(o *sessionOptions) {
		o.searchDebounce = d
	}
}

// WithPollMonitor sets an observation hook for the polling process.
func WithPollMonitor(monitor review.PollMonitor) SessionOption {
	return func(o *sessionOptions) {
		o.monitor = monitor
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// NewSession creates a fully wired session against the platform API.
func NewSession(opts ...SessionOption) (*Session, error) {
	options := &sessionOptions{
		platformCfg:  platform.DefaultConfig(),
		pollInterval: review.DefaultPollInterval,
		settleDelay:  review.DefaultSettleDelay,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	api, err := rest.NewClient(options.platformCfg)
	if err != nil {
		return nil, err
	}

	cache, err := badgersnap.OpenStore(options.cachePath, options.cachePath == "")
	if err != nil {
		api.Close()
		return nil, err
	}

	repoOpts := []queue.Option{
		queue.WithSnapshotStore(cache),
		queue.WithLogger(options.logger),
	}
	if options.searchDebounce > 0 {
		repoOpts = append(repoOpts, queue.WithSearchDebounce(options.searchDebounce))
	}
	repo, err := queue.NewRepository(api, repoOpts...)
	if err != nil {
		cache.Close()
		api.Close()
		return nil, err
	}

	coordinator, err := review.NewCoordinator(api,
		review.WithCoordinatorLogger(options.logger),
		review.WithSettleDelay(options.settleDelay),
	)
	if err != nil {
		cache.Close()
		api.Close()
		return nil, err
	}

	pollerOpts := []review.PollerOption{
		review.WithPollInterval(options.pollInterval),
		review.WithPollLogger(options.logger),
		review.WithFilterChangeHook(coordinator.Selection().Clear),
	}
	if options.monitor != nil {
		pollerOpts = append(pollerOpts, review.WithPollMonitor(options.monitor))
	}
	poller, err := review.NewPoller(repo, coordinator, pollerOpts...)
	if err != nil {
		coordinator.Release()
		cache.Close()
		api.Close()
		return nil, err
	}
	coordinator.SetRefresher(poller)

	return &Session{
		api:         api,
		cache:       cache,
		repo:        repo,
		coordinator: coordinator,
		poller:      poller,
		logger:      options.logger,
	}, nil
}

// API returns the platform client.
func (s *Session) API() platform.API { return s.api }

// Queue returns the queue repository.
func (s *Session) Queue() *queue.Repository { return s.repo }

// Coordinator returns the bulk action coordinator.
func (s *Session) Coordinator() *review.Coordinator { return s.coordinator }

// Poller returns the polling synchronizer.
func (s *Session) Poller() *review.Poller { return s.poller }

// SetSearch updates the free-text search. The read is debounced by the
// repository, so rapid successive calls coalesce into one request for the
// final text; the page resets to 1 and the selection is cleared immediately.
// The debounced read applies through the coordinator like any snapshot;
// failures are logged, the next poll tick retries.
func (s *Session) SetSearch(ctx context.Context, text string) error {
	filter := s.poller.Filter()
	if filter.Search == text {
		return nil
	}
	filter.Search = text
	filter.Page = 1

	if err := s.poller.UpdateFilter(filter); err != nil {
		return err
	}
	s.repo.Search(ctx, filter, func(page *core.QueuePage, err error) {
		if err != nil {
			s.logger.Warn("debounced search failed", "search", text, "err", err)
			return
		}
		s.coordinator.ApplySnapshot(page)
	})
	return nil
}

// Run performs the initial load and then polls until the context is
// cancelled. The initial load error is surfaced; later background poll
// errors are retried on the next tick.
func (s *Session) Run(ctx context.Context) error {
	if err := s.poller.Refresh(ctx); err != nil {
		return err
	}
	s.poller.Run(ctx)
	return nil
}

// Close releases all session resources.
func (s *Session) Close() error {
	s.repo.CancelPending()
	s.coordinator.Release()
	if err := s.cache.Close(); err != nil {
		s.logger.Warn("failed to close snapshot cache", "err", err)
	}
	return s.api.Close()
}
