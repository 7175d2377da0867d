package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...platform.ConfigOption) platform.API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]platform.ConfigOption{platform.WithBaseURL(server.URL)}, opts...)
	api, err := NewClient(platform.NewConfig(opts...))
	require.NoError(t, err)
	t.Cleanup(func() { api.Close() })
	return api
}

func TestClient_ListJobs(t *testing.T) {
	var gotQuery map[string]string
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"status":    r.URL.Query().Get("status"),
			"search":    r.URL.Query().Get("search"),
			"page":      r.URL.Query().Get("page"),
			"page_size": r.URL.Query().Get("page_size"),
		}
		_ = json.NewEncoder(w).Encode(listResponse{
			Items: []*core.IngestionJob{
				{JobID: "j1", RawStatus: core.StatusFailed, FailureReason: "parser crashed"},
			},
			Total:        1,
			TotalPages:   1,
			StatusCounts: map[core.RawStatus]int{core.StatusFailed: 1},
		})
	})

	page, err := api.ListJobs(context.Background(), core.Filter{
		Status:   core.StatusFailed,
		Search:   "invoice",
		Page:     2,
		PageSize: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, "failed", gotQuery["status"])
	assert.Equal(t, "invoice", gotQuery["search"])
	assert.Equal(t, "2", gotQuery["page"])
	assert.Equal(t, "50", gotQuery["page_size"])

	require.Len(t, page.Items, 1)
	assert.Equal(t, "j1", page.Items[0].JobID)
	assert.Equal(t, core.ReviewStateError, page.Items[0].ReviewState())
	assert.Equal(t, 1, page.StatusCounts[core.StatusFailed])
}

func TestClient_ListJobs_NilCountsNormalized(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(listResponse{Items: nil, Total: 0})
	})

	page, err := api.ListJobs(context.Background(), core.Filter{Page: 1, PageSize: 25})
	require.NoError(t, err)
	assert.NotNil(t, page.StatusCounts)
}

func TestClient_AuthorizationHeader(t *testing.T) {
	var gotAuth string
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(listResponse{})
	}, platform.WithAPIToken("sekrit"))

	_, err := api.ListJobs(context.Background(), core.Filter{Page: 1, PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sekrit", gotAuth)
}

func TestClient_BulkAccept(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ingestion/jobs/bulk/accept", r.URL.Path)
		var body struct {
			JobIDs []string `json:"jobIds"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"a", "b", "c"}, body.JobIDs)
		_ = json.NewEncoder(w).Encode(bulkResolveResponse{Accepted: 2, Failed: 1})
	})

	outcome, err := api.BulkAccept(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, core.BulkOutcome{Succeeded: 2, Failed: 1}, outcome)
}

func TestClient_BulkReject(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			JobIDs []string `json:"jobIds"`
			Reason string   `json:"reason"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "duplicate", body.Reason)
		_ = json.NewEncoder(w).Encode(bulkResolveResponse{Rejected: len(body.JobIDs)})
	})

	outcome, err := api.BulkReject(context.Background(), []string{"a"}, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Succeeded)
}

func TestClient_RetryVectorIndex(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ingestion/jobs/j1/retry-vector", r.URL.Path)
		_ = json.NewEncoder(w).Encode(retryResponse{
			Success:       true,
			Message:       "requeued",
			StepsRetried:  2,
			ChunksRetried: 14,
		})
	})

	receipt, err := api.RetryVectorIndex(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.StepsRetried)
	assert.Equal(t, 14, receipt.ChunksRetried)
}

func TestClient_RetryPipelineSteps_ServerRefusal(t *testing.T) {
	// A 200 with success=false is the server refusing the retry, not a
	// transport problem.
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(retryResponse{Success: false, Message: "job is not failed"})
	})

	_, err := api.RetryPipelineSteps(context.Background(), "j1")
	require.Error(t, err)
	var statusErr *platform.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "job is not failed", statusErr.Message)
	assert.False(t, platform.IsTransport(err))
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantErr error
	}{
		{"not found", http.StatusNotFound, platform.ErrJobNotFound},
		{"unauthorized", http.StatusUnauthorized, platform.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, platform.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			})
			err := api.AcceptJob(context.Background(), "j1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("other non-2xx becomes StatusError", func(t *testing.T) {
		api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "queue worker unavailable", http.StatusServiceUnavailable)
		})
		err := api.AcceptJob(context.Background(), "j1")
		var statusErr *platform.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
		assert.Equal(t, "queue worker unavailable", statusErr.Message)
	})
}

func TestClient_TransportError(t *testing.T) {
	api, err := NewClient(platform.NewConfig(platform.WithBaseURL("http://127.0.0.1:1")))
	require.NoError(t, err)
	defer api.Close()

	_, err = api.ListJobs(context.Background(), core.Filter{Page: 1, PageSize: 25})
	require.Error(t, err)
	assert.True(t, platform.IsTransport(err))
}

func TestClient_InputValidation(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be issued for invalid input")
	})

	ctx := context.Background()

	_, err := api.ListJobs(ctx, core.Filter{Page: 0, PageSize: 25})
	assert.ErrorIs(t, err, core.ErrInvalidFilter)

	assert.ErrorIs(t, api.AcceptJob(ctx, ""), core.ErrEmptyJobID)
	assert.ErrorIs(t, api.RejectJob(ctx, "", "reason"), core.ErrEmptyJobID)

	_, err = api.BulkAccept(ctx, nil)
	assert.ErrorIs(t, err, core.ErrInvalidJob)

	_, err = api.RetryPipelineStepsBulk(ctx, []string{"a", ""})
	assert.ErrorIs(t, err, core.ErrEmptyJobID)
}
