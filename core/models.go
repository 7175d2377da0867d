package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// RawStatus is the authoritative pipeline state reported by the server.
type RawStatus string

const (
	// StatusPending means the document is queued but processing has not started.
	StatusPending RawStatus = "pending"
	// StatusProcessing means extraction/classification is in progress.
	StatusProcessing RawStatus = "processing"
	// StatusNeedsReview means extraction succeeded and the document awaits operator review.
	StatusNeedsReview RawStatus = "needs_review"
	// StatusFailed means the pipeline reported a failure for this document.
	StatusFailed RawStatus = "failed"
)

// VectorSyncStatus is the state reported by the vector-index subsystem.
// It evolves independently of RawStatus; the empty value means the sync
// has not been attempted yet.
type VectorSyncStatus string

const (
	VectorSyncNone      VectorSyncStatus = ""
	VectorSyncPending   VectorSyncStatus = "pending"
	VectorSyncSyncing   VectorSyncStatus = "syncing"
	VectorSyncCompleted VectorSyncStatus = "completed"
	VectorSyncFailed    VectorSyncStatus = "failed"
	VectorSyncPartial   VectorSyncStatus = "partial"
)

// ReviewState is the unified, derived status shown to an operator.
// It is recomputed on every read and never stored.
type ReviewState int

const (
	// ReviewStatePending means the job is queued and has produced nothing yet.
	ReviewStatePending ReviewState = iota + 1
	// ReviewStateProcessing means the pipeline is actively working on the job.
	ReviewStateProcessing
	// ReviewStateReady means the job finished extraction and can be accepted.
	ReviewStateReady
	// ReviewStateError means the job failed in one of the subsystems.
	ReviewStateError
)

// String returns the operator-facing name of the state.
func (s ReviewState) String() string {
	switch s {
	case ReviewStatePending:
		return "pending"
	case ReviewStateProcessing:
		return "processing"
	case ReviewStateReady:
		return "ready"
	case ReviewStateError:
		return "error"
	default:
		return fmt.Sprintf("ReviewState(%d)", int(s))
	}
}

// Submitter is identity metadata attached to a job. Informational only.
type Submitter struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DocumentMetadata holds the best-effort structured fields the pipeline has
// produced so far. Any field may be empty while processing is incomplete.
type DocumentMetadata struct {
	Title        string     `json:"title,omitempty"`
	Category     string     `json:"category,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Keywords     []string   `json:"keywords,omitempty"`
	Sender       string     `json:"sender,omitempty"`
	Receiver     string     `json:"receiver,omitempty"`
	DocumentDate *time.Time `json:"documentDate,omitempty"`
	Subject      string     `json:"subject,omitempty"`
	Summary      string     `json:"summary,omitempty"`
}

// IngestionJob is one document submission in flight or recently resolved.
//
// RawStatus and the vector-sync signals are independent axes: a job can be
// needs_review while its vector-index signals show failure. The unified
// review state is derived via ReviewState(), never stored.
type IngestionJob struct {
	JobID      string    `json:"jobId"`
	DocumentID string    `json:"documentId"`
	RawStatus  RawStatus `json:"status"`

	SubmittedAt         time.Time  `json:"submittedAt"`
	ProcessingStartedAt *time.Time `json:"processingStartedAt,omitempty"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`

	// FailureReason is present only when RawStatus is failed.
	FailureReason string `json:"failureReason,omitempty"`

	Metadata DocumentMetadata `json:"extractedMetadata"`

	VectorSyncStatus   VectorSyncStatus `json:"vectorSyncStatus,omitempty"`
	VectorStepsFailed  int              `json:"vectorStepsFailed"`
	VectorChunksFailed int              `json:"vectorChunksFailed"`

	Submitter Submitter `json:"submitter"`
}

// ReviewState derives the unified review state for this job.
func (j *IngestionJob) ReviewState() ReviewState {
	return MapReviewState(j.RawStatus, j.VectorSyncStatus, j.VectorStepsFailed, j.VectorChunksFailed)
}

// Filter describes one logical queue query.
type Filter struct {
	// Status restricts the listing to one raw status. Empty means all.
	Status RawStatus
	// Search is free-text search over job metadata.
	Search string
	// Page is 1-based.
	Page     int
	PageSize int
}

// QueryKey identifies a logical query for supersession and caching.
type QueryKey uint64

// Key derives a deterministic QueryKey from the filter using BLAKE2b hashing.
// Identical filters always produce identical keys.
func (f Filter) Key() QueryKey {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	fmt.Fprintf(h, "%s|%s|%d|%d", f.Status, f.Search, f.Page, f.PageSize)
	sum := h.Sum(nil)
	return QueryKey(binary.LittleEndian.Uint64(sum))
}

// QueuePage is one page of the review queue plus queue-wide aggregates.
type QueuePage struct {
	Items      []*IngestionJob `json:"items"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`

	// StatusCounts holds per-raw-status totals across all pages, independent
	// of the requested page.
	StatusCounts map[RawStatus]int `json:"statusCounts"`
}

// JobByID returns the job with the given ID from this page, or nil.
func (p *QueuePage) JobByID(jobID string) *IngestionJob {
	for _, job := range p.Items {
		if job.JobID == jobID {
			return job
		}
	}
	return nil
}

// BulkOutcome aggregates per-item results of one bulk operation.
// Partial success is the normal case, not an error.
type BulkOutcome struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Add merges another outcome additively. A job is counted in exactly one
// outcome, so additive merging never double-counts.
func (o BulkOutcome) Add(other BulkOutcome) BulkOutcome {
	return BulkOutcome{
		Succeeded: o.Succeeded + other.Succeeded,
		Failed:    o.Failed + other.Failed,
		Skipped:   o.Skipped + other.Skipped,
	}
}

// Total returns the number of jobs accounted for in this outcome.
func (o BulkOutcome) Total() int {
	return o.Succeeded + o.Failed + o.Skipped
}
