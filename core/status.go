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


package core

// MapReviewState translates the raw pipeline state and the per-subsystem
// failure signals into the unified review state.
//
// The mapping is total and side-effect-free. It must be re-derived on every
// fetch because the vector-sync signals can change independently of the raw
// status between polls. The vector signals never move a job between state
// buckets; they only steer retry routing (see RequiresVectorRetry). An
// unrecognized raw status maps to Pending so that a future server enum never
// crashes the consumer.
func MapReviewState(raw RawStatus, sync VectorSyncStatus, stepsFailed, chunksFailed int) ReviewState {
	switch raw {
	case StatusNeedsReview:
		return ReviewStateReady
	case StatusProcessing:
		return ReviewStateProcessing
	case StatusFailed:
		return ReviewStateError
	case StatusPending:
		return ReviewStatePending
	default:
		return ReviewStatePending
	}
}

// RequiresVectorRetry decides which retry subsystem applies to a job.
//
// A job routes to the vector-index retry when the vector-sync status is
// failed or partial, or when any step or chunk failure count is non-zero.
// Otherwise it routes to the pipeline-step retry. Exactly one subsystem is
// ever invoked for a given job.
func RequiresVectorRetry(job *IngestionJob) bool {
	if job.VectorSyncStatus == VectorSyncFailed || job.VectorSyncStatus == VectorSyncPartial {
		return true
	}
	return job.VectorStepsFailed > 0 || job.VectorChunksFailed > 0
}
