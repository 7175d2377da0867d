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


package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
)

// Client is the HTTP implementation of the platform API.
type Client struct {
	config     *platform.Config
	httpClient *http.Client
}

var _ platform.API = (*Client)(nil)

// NewClient creates a platform API client.
// Returns the platform.API interface to keep consumers decoupled from the
// wire protocol.
func NewClient(cfg *platform.Config) (platform.API, error) {
	if cfg == nil {
		cfg = platform.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// listResponse mirrors the listJobs wire shape.
type listResponse struct {
	Items        []*core.IngestionJob   `json:"items"`
	Total        int                    `json:"total"`
	TotalPages   int                    `json:"totalPages"`
	StatusCounts map[core.RawStatus]int `json:"statusCounts"`
}

// okResponse is the wire shape for single accept/reject calls.
type okResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// bulkResolveResponse is the wire shape for bulkAccept/bulkReject.
type bulkResolveResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Failed   int `json:"failed"`
}

// retryResponse is the wire shape for single-job retries.
type retryResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	StepsRetried  int    `json:"stepsRetried,omitempty"`
	ChunksRetried int    `json:"chunksRetried,omitempty"`
}

// bulkRetryResponse is the wire shape for bulk retries.
type bulkRetryResponse struct {
	Success bool `json:"success"`
	Retried int  `json:"retried"`
	Skipped int  `json:"skipped"`
	Failed  int  `json:"failed"`
}

// ListJobs returns one page of jobs matching the filter.
func (c *Client) ListJobs(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
	if err := core.ValidateFilter(filter); err != nil {
		return nil, err
	}

	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	query.Set("page", strconv.Itoa(filter.Page))
	query.Set("page_size", strconv.Itoa(filter.PageSize))

	var resp listResponse
	if err := c.doJSON(ctx, "listJobs", http.MethodGet, "/ingestion/jobs?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	counts := resp.StatusCounts
	if counts == nil {
		counts = map[core.RawStatus]int{}
	}

	return &core.QueuePage{
		Items:        resp.Items,
		Total:        resp.Total,
		TotalPages:   resp.TotalPages,
		StatusCounts: counts,
	}, nil
}

// AcceptJob accepts a single reviewed job.
func (c *Client) AcceptJob(ctx context.Context, jobID string) error {
	if jobID == "" {
		return core.ErrEmptyJobID
	}
	var resp okResponse
	err := c.doJSON(ctx, "acceptJob", http.MethodPost,
		"/ingestion/jobs/"+url.PathEscape(jobID)+"/accept", nil, &resp)
	if err != nil {
		return err
	}
	if !resp.OK {
		return &platform.StatusError{Op: "acceptJob", Code: http.StatusOK, Message: resp.Message}
	}
	return nil
}

// RejectJob rejects a single job with a reason.
func (c *Client) RejectJob(ctx context.Context, jobID, reason string) error {
	if jobID == "" {
		return core.ErrEmptyJobID
	}
	body := map[string]string{"reason": reason}
	var resp okResponse
	err := c.doJSON(ctx, "rejectJob", http.MethodPost,
		"/ingestion/jobs/"+url.PathEscape(jobID)+"/reject", body, &resp)
	if err != nil {
		return err
	}
	if !resp.OK {
		return &platform.StatusError{Op: "rejectJob", Code: http.StatusOK, Message: resp.Message}
	}
	return nil
}

// BulkAccept accepts many jobs in one call.
func (c *Client) BulkAccept(ctx context.Context, jobIDs []string) (core.BulkOutcome, error) {
	if err := core.ValidateJobIDs(jobIDs); err != nil {
		return core.BulkOutcome{}, err
	}
	body := map[string]any{"jobIds": jobIDs}
	var resp bulkResolveResponse
	if err := c.doJSON(ctx, "bulkAccept", http.MethodPost, "/ingestion/jobs/bulk/accept", body, &resp); err != nil {
		return core.BulkOutcome{}, err
	}
	return core.BulkOutcome{Succeeded: resp.Accepted, Failed: resp.Failed}, nil
}

// BulkReject rejects many jobs in one call with a shared reason.
func (c *Client) BulkReject(ctx context.Context, jobIDs []string, reason string) (core.BulkOutcome, error) {
	if err := core.ValidateJobIDs(jobIDs); err != nil {
		return core.BulkOutcome{}, err
	}
	body := map[string]any{"jobIds": jobIDs, "reason": reason}
	var resp bulkResolveResponse
	if err := c.doJSON(ctx, "bulkReject", http.MethodPost, "/ingestion/jobs/bulk/reject", body, &resp); err != nil {
		return core.BulkOutcome{}, err
	}
	return core.BulkOutcome{Succeeded: resp.Rejected, Failed: resp.Failed}, nil
}

// RetryPipelineSteps re-runs failed extraction stages for one job.
func (c *Client) RetryPipelineSteps(ctx context.Context, jobID string) (*platform.RetryReceipt, error) {
	if jobID == "" {
		return nil, core.ErrEmptyJobID
	}
	var resp retryResponse
	err := c.doJSON(ctx, "retryPipelineSteps", http.MethodPost,
		"/ingestion/jobs/"+url.PathEscape(jobID)+"/retry-steps", nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &platform.StatusError{Op: "retryPipelineSteps", Code: http.StatusOK, Message: resp.Message}
	}
	return &platform.RetryReceipt{Message: resp.Message}, nil
}

// RetryPipelineStepsBulk re-runs failed extraction stages for many jobs.
func (c *Client) RetryPipelineStepsBulk(ctx context.Context, jobIDs []string) (core.BulkOutcome, error) {
	if err := core.ValidateJobIDs(jobIDs); err != nil {
		return core.BulkOutcome{}, err
	}
	body := map[string]any{"jobIds": jobIDs}
	var resp bulkRetryResponse
	if err := c.doJSON(ctx, "retryPipelineStepsBulk", http.MethodPost, "/ingestion/jobs/bulk/retry-steps", body, &resp); err != nil {
		return core.BulkOutcome{}, err
	}
	return core.BulkOutcome{Succeeded: resp.Retried, Failed: resp.Failed, Skipped: resp.Skipped}, nil
}

// RetryVectorIndex re-synchronizes one document into the vector index.
func (c *Client) RetryVectorIndex(ctx context.Context, jobID string) (*platform.RetryReceipt, error) {
	if jobID == "" {
		return nil, core.ErrEmptyJobID
	}
	var resp retryResponse
	err := c.doJSON(ctx, "retryVectorIndex", http.MethodPost,
		"/ingestion/jobs/"+url.PathEscape(jobID)+"/retry-vector", nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &platform.StatusError{Op: "retryVectorIndex", Code: http.StatusOK, Message: resp.Message}
	}
	return &platform.RetryReceipt{
		Message:       resp.Message,
		StepsRetried:  resp.StepsRetried,
		ChunksRetried: resp.ChunksRetried,
	}, nil
}

// RetryVectorIndexBulk re-synchronizes many documents into the vector index.
func (c *Client) RetryVectorIndexBulk(ctx context.Context, jobIDs []string) (core.BulkOutcome, error) {
	if err := core.ValidateJobIDs(jobIDs); err != nil {
		return core.BulkOutcome{}, err
	}
	body := map[string]any{"jobIds": jobIDs}
	var resp bulkRetryResponse
	if err := c.doJSON(ctx, "retryVectorIndexBulk", http.MethodPost, "/ingestion/jobs/bulk/retry-vector", body, &resp); err != nil {
		return core.BulkOutcome{}, err
	}
	return core.BulkOutcome{Succeeded: resp.Retried, Failed: resp.Failed, Skipped: resp.Skipped}, nil
}

// doJSON issues one JSON request and decodes the response into out.
// Network-level failures are wrapped in *platform.TransportError; non-2xx
// responses become *platform.StatusError.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &platform.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, platform.ErrJobNotFound)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, platform.ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &platform.StatusError{Op: op, Code: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
