package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	fn func(ctx context.Context, filter core.Filter) (*core.QueuePage, error)
}

func (f *fakeLister) List(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
	return f.fn(ctx, filter)
}

type recordingSink struct {
	mu    sync.Mutex
	pages []*core.QueuePage
}

func (s *recordingSink) ApplySnapshot(page *core.QueuePage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, page)
}

func (s *recordingSink) applied() []*core.QueuePage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.QueuePage(nil), s.pages...)
}

type recordingMonitor struct {
	mu        sync.Mutex
	discarded []uint64
	failed    []uint64
}

func (m *recordingMonitor) Started(uint64)                  {}
func (m *recordingMonitor) Applied(uint64, *core.QueuePage) {}
func (m *recordingMonitor) Discarded(seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded = append(m.discarded, seq)
}
func (m *recordingMonitor) Failed(seq uint64, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, seq)
}

func TestPoller_StaleResponseDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	var calls int
	var mu sync.Mutex
	lister := &fakeLister{fn: func(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			return &core.QueuePage{Total: 1}, nil
		}
		return &core.QueuePage{Total: 2}, nil
	}}

	sink := &recordingSink{}
	monitor := &recordingMonitor{}
	p, err := NewPoller(lister, sink, WithPollMonitor(monitor))
	require.NoError(t, err)

	// Fetch #1 is issued, then #2 is issued before #1 resolves; #1 resolves
	// after #2. The applied result must be #2's, never #1's.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Refresh(context.Background())
	}()

	<-firstStarted
	require.NoError(t, p.Refresh(context.Background()))

	close(releaseFirst)
	wg.Wait()

	applied := sink.applied()
	require.Len(t, applied, 1, "the stale response is discarded, not applied out of order")
	assert.Equal(t, 2, applied[0].Total)

	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	assert.Equal(t, []uint64{1}, monitor.discarded)
}

func TestPoller_RefreshSurfacesErrors(t *testing.T) {
	wantErr := errors.New("connection refused")
	lister := &fakeLister{fn: func(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
		return nil, wantErr
	}}

	p, err := NewPoller(lister, &recordingSink{})
	require.NoError(t, err)

	err = p.Refresh(context.Background())
	assert.ErrorIs(t, err, wantErr, "operator-initiated fetches surface the error")
}

func TestPoller_SupersededReadIsSilent(t *testing.T) {
	lister := &fakeLister{fn: func(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
		return nil, queue.ErrSuperseded
	}}

	monitor := &recordingMonitor{}
	p, err := NewPoller(lister, &recordingSink{}, WithPollMonitor(monitor))
	require.NoError(t, err)

	assert.NoError(t, p.Refresh(context.Background()), "a superseded read is not an error")

	monitor.mu.Lock()
	defer monitor.mu.Unlock()
	assert.Len(t, monitor.discarded, 1)
	assert.Empty(t, monitor.failed)
}

func TestPoller_RunPollsWhileVisible(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	lister := &fakeLister{fn: func(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &core.QueuePage{}, nil
	}}

	p, err := NewPoller(lister, &recordingSink{}, WithPollInterval(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestPoller_HiddenViewSuspendsPolling(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	lister := &fakeLister{fn: func(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &core.QueuePage{}, nil
	}}

	p, err := NewPoller(lister, &recordingSink{}, WithPollInterval(20*time.Millisecond))
	require.NoError(t, err)
	p.SetVisible(false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls, "no fetches while the view reports itself hidden")
}

func TestPoller_RunKeepsGoingAfterFetchError(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	lister := &fakeLister{fn: func(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			return nil, errors.New("transient")
		}
		return &core.QueuePage{}, nil
	}}

	sink := &recordingSink{}
	p, err := NewPoller(lister, sink, WithPollInterval(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return len(sink.applied()) >= 1
	}, 2*time.Second, 10*time.Millisecond, "a failed tick is retried by the next one")

	cancel()
	<-done
}

func TestPoller_SetFilter(t *testing.T) {
	var mu sync.Mutex
	var lastFilter core.Filter
	lister := &fakeLister{fn: func(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
		mu.Lock()
		lastFilter = filter
		mu.Unlock()
		return &core.QueuePage{}, nil
	}}

	p, err := NewPoller(lister, &recordingSink{})
	require.NoError(t, err)

	next := core.Filter{Status: core.StatusFailed, Page: 1, PageSize: 50}
	require.NoError(t, p.SetFilter(context.Background(), next))

	mu.Lock()
	assert.Equal(t, next, lastFilter, "filter change fetches immediately")
	mu.Unlock()
	assert.Equal(t, next, p.Filter())

	err = p.SetFilter(context.Background(), core.Filter{Page: 0, PageSize: 0})
	assert.ErrorIs(t, err, core.ErrInvalidFilter)
}

func TestPoller_FilterChangeHook(t *testing.T) {
	lister := &fakeLister{fn: func(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
		return &core.QueuePage{}, nil
	}}

	cleared := 0
	p, err := NewPoller(lister, &recordingSink{},
		WithFilterChangeHook(func() { cleared++ }))
	require.NoError(t, err)

	ctx := context.Background()
	next := core.Filter{Search: "invoice", Page: 1, PageSize: 25}
	require.NoError(t, p.SetFilter(ctx, next))
	assert.Equal(t, 1, cleared)

	// Re-applying the same filter is not a change.
	require.NoError(t, p.SetFilter(ctx, next))
	assert.Equal(t, 1, cleared)

	// An invalid filter never reaches the hook.
	_ = p.SetFilter(ctx, core.Filter{})
	assert.Equal(t, 1, cleared)
}
