package platform

import (
	"context"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
)

// JobLister provides read access to the ingestion review queue.
// Implementations must be thread-safe for concurrent use.
type JobLister interface {
	// ListJobs returns one page of ingestion jobs matching the filter,
	// together with queue-wide status counts. The counts cover all pages
	// regardless of the requested page, so consumers can show totals
	// without a separate request.
	// Transport failures are returned as *TransportError.
	ListJobs(ctx context.Context, filter core.Filter) (*core.QueuePage, error)
}

// JobResolver performs terminal accept/reject transitions on jobs.
// Accepted and rejected jobs leave the queue's visible set; the document
// itself persists elsewhere.
type JobResolver interface {
	// AcceptJob accepts a single reviewed job into the library.
	AcceptJob(ctx context.Context, jobID string) error

	// RejectJob rejects a single job with a reason.
	RejectJob(ctx context.Context, jobID, reason string) error

	// BulkAccept accepts many jobs in one call. Each job's outcome is
	// independent; partial success is the normal case.
	BulkAccept(ctx context.Context, jobIDs []string) (core.BulkOutcome, error)

	// BulkReject rejects many jobs in one call with a shared reason.
	BulkReject(ctx context.Context, jobIDs []string, reason string) (core.BulkOutcome, error)
}

// RetryReceipt reports the server's response to a single-job retry.
type RetryReceipt struct {
	Message       string
	StepsRetried  int
	ChunksRetried int
}

// RetryService exposes the two independent retry subsystems.
// Pipeline-step retry re-runs failed extraction stages; vector-index retry
// re-synchronizes the document into the vector index. Callers decide which
// subsystem applies; the service never routes.
type RetryService interface {
	RetryPipelineSteps(ctx context.Context, jobID string) (*RetryReceipt, error)
	RetryPipelineStepsBulk(ctx context.Context, jobIDs []string) (core.BulkOutcome, error)
	RetryVectorIndex(ctx context.Context, jobID string) (*RetryReceipt, error)
	RetryVectorIndexBulk(ctx context.Context, jobIDs []string) (core.BulkOutcome, error)
}

// API aggregates all backend operations the coordinator consumes.
type API interface {
	JobLister
	JobResolver
	RetryService

	// Close releases resources held by the client.
	Close() error
}
