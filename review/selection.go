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


package review

import (
	"sort"
	"sync"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
)

// Eligible reports whether a job may be selected for bulk actions.
// Only jobs whose derived review state is Ready or Error are eligible.
func Eligible(job *core.IngestionJob) bool {
	state := job.ReviewState()
	return state == core.ReviewStateReady || state == core.ReviewStateError
}

// Selection is the authoritative client-side memory of which jobs are
// selected. It never reaches across unfetched pages: callers hand it the
// currently visible jobs. Safe for concurrent use.
type Selection struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle adds the job to the selection, or removes it if already selected.
// Toggling an ineligible job is a no-op.
func (s *Selection) Toggle(job *core.IngestionJob) {
	if job == nil || !Eligible(job) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[job.JobID]; ok {
		delete(s.ids, job.JobID)
		return
	}
	s.ids[job.JobID] = struct{}{}
}

// SelectAll replaces the selection with the eligible subset of the visible
// jobs.
func (s *Selection) SelectAll(visible []*core.IngestionJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
	for _, job := range visible {
		if Eligible(job) {
			s.ids[job.JobID] = struct{}{}
		}
	}
}

// SelectByState replaces the selection with the visible jobs in the given
// review state. States other than Ready and Error select nothing.
func (s *Selection) SelectByState(visible []*core.IngestionJob, state core.ReviewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
	if state != core.ReviewStateReady && state != core.ReviewStateError {
		return
	}
	for _, job := range visible {
		if job.ReviewState() == state {
			s.ids[job.JobID] = struct{}{}
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

// Contains reports whether the job is selected.
func (s *Selection) Contains(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[jobID]
	return ok
}

// Len returns the number of selected jobs.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selected job IDs in stable sorted order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
