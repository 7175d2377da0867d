package mock

import (
	"context"
	"sync"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
)

// MockAPI is a test double for platform.API.
// It allows custom behavior injection via function fields and records
// per-method call counts. Safe for concurrent use.
type MockAPI struct {
	// ListJobsFunc is called by ListJobs if set.
	// If nil, returns an empty page.
	ListJobsFunc func(ctx context.Context, filter core.Filter) (*core.QueuePage, error)

	AcceptJobFunc  func(ctx context.Context, jobID string) error
	RejectJobFunc  func(ctx context.Context, jobID, reason string) error
	BulkAcceptFunc func(ctx context.Context, jobIDs []string) (core.BulkOutcome, error)
	BulkRejectFunc func(ctx context.Context, jobIDs []string, reason string) (core.BulkOutcome, error)

	RetryPipelineStepsFunc     func(ctx context.Context, jobID string) (*platform.RetryReceipt, error)
	RetryPipelineStepsBulkFunc func(ctx context.Context, jobIDs []string) (core.BulkOutcome, error)
	RetryVectorIndexFunc       func(ctx context.Context, jobID string) (*platform.RetryReceipt, error)
	RetryVectorIndexBulkFunc   func(ctx context.Context, jobIDs []string) (core.BulkOutcome, error)

	mu    sync.Mutex
	calls map[string]int
}

var _ platform.API = (*MockAPI)(nil)

// NewMockAPI creates a mock API with default behavior: empty listings and
// all-succeed bulk operations.
func NewMockAPI() *MockAPI {
	return &MockAPI{calls: make(map[string]int)}
}

func (m *MockAPI) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns the number of times the named method was called.
func (m *MockAPI) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of backend calls across all methods.
func (m *MockAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// Reset clears all recorded calls and injected behavior.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[string]int)
	m.ListJobsFunc = nil
	m.AcceptJobFunc = nil
	m.RejectJobFunc = nil
	m.BulkAcceptFunc = nil
	m.BulkRejectFunc = nil
	m.RetryPipelineStepsFunc = nil
	m.RetryPipelineStepsBulkFunc = nil
	m.RetryVectorIndexFunc = nil
	m.RetryVectorIndexBulkFunc = nil
}

func (m *MockAPI) ListJobs(ctx context.Context, filter core.Filter) (*core.QueuePage, error) {
	m.record("ListJobs")
	if m.ListJobsFunc != nil {
		return m.ListJobsFunc(ctx, filter)
	}
	return &core.QueuePage{StatusCounts: map[core.RawStatus]int{}}, nil
}

func (m *MockAPI) AcceptJob(ctx context.Context, jobID string) error {
	m.record("AcceptJob")
	if m.AcceptJobFunc != nil {
		return m.AcceptJobFunc(ctx, jobID)
	}
	return nil
}

func (m *MockAPI) RejectJob(ctx context.Context, jobID, reason string) error {
	m.record("RejectJob")
	if m.RejectJobFunc != nil {
		return m.RejectJobFunc(ctx, jobID, reason)
	}
	return nil
}

func (m *MockAPI) BulkAccept(ctx context.Context, jobIDs []string) (core.BulkOutcome, error) {
	m.record("BulkAccept")
	if m.BulkAcceptFunc != nil {
		return m.BulkAcceptFunc(ctx, jobIDs)
	}
	return core.BulkOutcome{Succeeded: len(jobIDs)}, nil
}

func (m *MockAPI) BulkReject(ctx context.Context, jobIDs []string, reason string) (core.BulkOutcome, error) {
	m.record("BulkReject")
	if m.BulkRejectFunc != nil {
		return m.BulkRejectFunc(ctx, jobIDs, reason)
	}
	return core.BulkOutcome{Succeeded: len(jobIDs)}, nil
}

func (m *MockAPI) RetryPipelineSteps(ctx context.Context, jobID string) (*platform.RetryReceipt, error) {
	m.record("RetryPipelineSteps")
	if m.RetryPipelineStepsFunc != nil {
		return m.RetryPipelineStepsFunc(ctx, jobID)
	}
	return &platform.RetryReceipt{}, nil
}

func (m *MockAPI) RetryPipelineStepsBulk(ctx context.Context, jobIDs []string) (core.BulkOutcome, error) {
	m.record("RetryPipelineStepsBulk")
	if m.RetryPipelineStepsBulkFunc != nil {
		return m.RetryPipelineStepsBulkFunc(ctx, jobIDs)
	}
	return core.BulkOutcome{Succeeded: len(jobIDs)}, nil
}

func (m *MockAPI) RetryVectorIndex(ctx context.Context, jobID string) (*platform.RetryReceipt, error) {
	m.record("RetryVectorIndex")
	if m.RetryVectorIndexFunc != nil {
		return m.RetryVectorIndexFunc(ctx, jobID)
	}
	return &platform.RetryReceipt{}, nil
}

func (m *MockAPI) RetryVectorIndexBulk(ctx context.Context, jobIDs []string) (core.BulkOutcome, error) {
	m.record("RetryVectorIndexBulk")
	if m.RetryVectorIndexBulkFunc != nil {
		return m.RetryVectorIndexBulkFunc(ctx, jobIDs)
	}
	return core.BulkOutcome{Succeeded: len(jobIDs)}, nil
}

func (m *MockAPI) Close() error { return nil }
