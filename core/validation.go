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

import "fmt"

// ValidateFilter validates a Filter according to domain rules.
//
// Validation rules:
//   - Page must be at least 1
//   - PageSize must be greater than 0
//
// NOT validated:
//   - Status (unknown raw statuses are passed through; the server decides)
//   - Search (any text is a valid search, including empty)
func ValidateFilter(f Filter) error {
	if f.Page < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, ErrInvalidPage)
	}
	if f.PageSize < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, ErrInvalidPageSize)
	}
	return nil
}

// ValidateJob validates an IngestionJob according to domain rules.
//
// Validation rules:
//   - JobID must not be empty
//
// NOT validated (populated server-side, may be absent mid-pipeline):
//   - DocumentID, timestamps, metadata, vector-sync signals
func ValidateJob(job *IngestionJob) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}
	if job.JobID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyJobID)
	}
	return nil
}

// ValidateJobIDs checks that a slice of job IDs is non-empty and contains no
// empty IDs.
func ValidateJobIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no job ids", ErrInvalidJob)
	}
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyJobID)
		}
	}
	return nil
}
