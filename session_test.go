package briefly

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueueServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ingestion/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "" {
			page := map[string]any{
				"items": []*core.IngestionJob{
					{JobID: "j2", DocumentID: "d2", RawStatus: core.StatusFailed, FailureReason: "ocr timeout"},
				},
				"total":      1,
				"totalPages": 1,
			}
			_ = json.NewEncoder(w).Encode(page)
			return
		}
		page := map[string]any{
			"items": []*core.IngestionJob{
				{JobID: "j1", DocumentID: "d1", RawStatus: core.StatusNeedsReview, SubmittedAt: time.Now().UTC()},
				{JobID: "j2", DocumentID: "d2", RawStatus: core.StatusFailed, FailureReason: "ocr timeout"},
			},
			"total":      2,
			"totalPages": 1,
			"statusCounts": map[core.RawStatus]int{
				core.StatusNeedsReview: 1,
				core.StatusFailed:      1,
			},
		}
		_ = json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("/ingestion/jobs/bulk/accept", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			JobIDs []string `json:"jobIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]int{"accepted": len(body.JobIDs), "failed": 0})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestSession(t *testing.T, baseURL string) *Session {
	t.Helper()
	session, err := NewSession(
		WithPlatformConfig(platform.NewConfig(platform.WithBaseURL(baseURL))),
		WithSettleDelay(0),
	)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestSession_InitialLoad(t *testing.T) {
	server := newQueueServer(t)
	session := newTestSession(t, server.URL)

	require.NoError(t, session.Poller().Refresh(context.Background()))

	snapshot := session.Coordinator().Snapshot()
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, 2, snapshot.Total)
	assert.Equal(t, 1, snapshot.StatusCounts[core.StatusFailed])
}

func TestSession_AcceptFlow(t *testing.T) {
	server := newQueueServer(t)
	session := newTestSession(t, server.URL)

	ctx := context.Background()
	require.NoError(t, session.Poller().Refresh(ctx))

	coordinator := session.Coordinator()
	ready := coordinator.Snapshot().JobByID("j1")
	require.NotNil(t, ready)
	coordinator.Selection().Toggle(ready)

	outcome, err := coordinator.Accept(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.BulkOutcome{Succeeded: 1}, outcome)
	assert.Equal(t, 0, coordinator.Selection().Len())
}

func TestSession_CachedQueueSurvivesBackend(t *testing.T) {
	server := newQueueServer(t)
	session := newTestSession(t, server.URL)

	ctx := context.Background()
	filter := session.Poller().Filter()
	_, err := session.Queue().List(ctx, filter)
	require.NoError(t, err)

	// Backend goes away; the last applied page is still readable.
	server.Close()

	cached, savedAt, err := session.Queue().Cached(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, cached.Total)
	assert.WithinDuration(t, time.Now(), savedAt, time.Minute)
}

func TestSession_DebouncedSearch(t *testing.T) {
	server := newQueueServer(t)
	session, err := NewSession(
		WithPlatformConfig(platform.NewConfig(platform.WithBaseURL(server.URL))),
		WithSettleDelay(0),
		WithSearchDebounce(10*time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	ctx := context.Background()
	require.NoError(t, session.Poller().Refresh(ctx))

	coordinator := session.Coordinator()
	coordinator.Selection().Toggle(coordinator.Snapshot().JobByID("j1"))

	// Keystrokes inside the quiescence window coalesce into one request for
	// the final text; the selection does not survive the search change.
	require.NoError(t, session.SetSearch(ctx, "o"))
	require.NoError(t, session.SetSearch(ctx, "oc"))
	require.NoError(t, session.SetSearch(ctx, "ocr"))
	assert.Equal(t, 0, coordinator.Selection().Len())
	assert.Equal(t, "ocr", session.Poller().Filter().Search)

	assert.Eventually(t, func() bool {
		snapshot := coordinator.Snapshot()
		return snapshot != nil && snapshot.Total == 1
	}, 2*time.Second, 10*time.Millisecond, "the debounced read applies the filtered page")
}

func TestSession_UnreachableBackend(t *testing.T) {
	session := newTestSession(t, "http://127.0.0.1:1")

	err := session.Poller().Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, platform.IsTransport(err), "unreachable backend is a typed transport failure")
}
