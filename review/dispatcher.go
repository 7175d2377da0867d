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
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
)

// RetrySubsystem identifies which backend subsystem handled a retry.
type RetrySubsystem string

const (
	// RetryPipeline is the pipeline-step retry subsystem.
	RetryPipeline RetrySubsystem = "pipeline"
	// RetryVector is the vector-index retry subsystem.
	RetryVector RetrySubsystem = "vector"
)

// RetryOutcome reports the result of a single-job retry.
type RetryOutcome struct {
	JobID     string
	Subsystem RetrySubsystem
	Receipt   *platform.RetryReceipt
}

// Dispatcher routes retries to the correct backend subsystem.
//
// The two subsystems fail and retry independently: pipeline-step retry
// re-runs extraction stages, vector-index retry re-synchronizes the search
// index. Exactly one of them is invoked per job, decided by
// core.RequiresVectorRetry.
type Dispatcher struct {
	api    platform.RetryService
	logger *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets a custom logger.
// Default is slog.Default().
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// NewDispatcher creates a retry dispatcher over the given retry service.
func NewDispatcher(api platform.RetryService, opts ...DispatcherOption) (*Dispatcher, error) {
	if api == nil {
		return nil, ErrAPIRequired
	}
	d := &Dispatcher{
		api:    api,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Retry dispatches a single job to the subsystem its failure signals select.
func (d *Dispatcher) Retry(ctx context.Context, job *core.IngestionJob) (*RetryOutcome, error) {
	if err := core.ValidateJob(job); err != nil {
		return nil, err
	}

	if core.RequiresVectorRetry(job) {
		receipt, err := d.api.RetryVectorIndex(ctx, job.JobID)
		if err != nil {
			return nil, err
		}
		return &RetryOutcome{JobID: job.JobID, Subsystem: RetryVector, Receipt: receipt}, nil
	}

	receipt, err := d.api.RetryPipelineSteps(ctx, job.JobID)
	if err != nil {
		return nil, err
	}
	return &RetryOutcome{JobID: job.JobID, Subsystem: RetryPipeline, Receipt: receipt}, nil
}

// RetryMany partitions the jobs by the per-job routing rule and issues at
// most two backend calls, one bulk request per subsystem. The two result
// sets are merged additively; a job is counted in exactly one partition, so
// the merge never double-counts.
//
// A transport failure in one partition counts that partition's jobs as
// failed without discarding the other partition's results.
func (d *Dispatcher) RetryMany(ctx context.Context, jobs []*core.IngestionJob) (core.BulkOutcome, error) {
	var pipelineIDs, vectorIDs []string
	for _, job := range jobs {
		if err := core.ValidateJob(job); err != nil {
			return core.BulkOutcome{}, err
		}
		if core.RequiresVectorRetry(job) {
			vectorIDs = append(vectorIDs, job.JobID)
		} else {
			pipelineIDs = append(pipelineIDs, job.JobID)
		}
	}

	if len(pipelineIDs) == 0 && len(vectorIDs) == 0 {
		return core.BulkOutcome{}, nil
	}

	var pipelineOutcome, vectorOutcome core.BulkOutcome

	// The partitions are independent backend calls; each records its own
	// outcome so one partition's failure never cancels the other.
	g, gctx := errgroup.WithContext(ctx)

	if len(pipelineIDs) > 0 {
		g.Go(func() error {
			outcome, err := d.api.RetryPipelineStepsBulk(gctx, pipelineIDs)
			if err != nil {
				d.logger.Warn("pipeline-step bulk retry failed", "jobs", len(pipelineIDs), "err", err)
				pipelineOutcome = core.BulkOutcome{Failed: len(pipelineIDs)}
				return nil
			}
			pipelineOutcome = outcome
			return nil
		})
	}

	if len(vectorIDs) > 0 {
		g.Go(func() error {
			outcome, err := d.api.RetryVectorIndexBulk(gctx, vectorIDs)
			if err != nil {
				d.logger.Warn("vector-index bulk retry failed", "jobs", len(vectorIDs), "err", err)
				vectorOutcome = core.BulkOutcome{Failed: len(vectorIDs)}
				return nil
			}
			vectorOutcome = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return core.BulkOutcome{}, err
	}

	return pipelineOutcome.Add(vectorOutcome), nil
}
