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


package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	briefly "github.com/nyx-solutions-team/briefly-app-sub002"
	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/platform"
	"github.com/nyx-solutions-team/briefly-app-sub002/review"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "reviewq",
		Usage: "Review queue client for the document ingestion platform",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Platform API base URL",
				Value: "http://localhost:8420/api/v1",
			},
			&cli.StringFlag{
				Name:  "api-token",
				Usage: "Bearer token for the platform API",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "Directory for the offline snapshot cache (in-memory when empty)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Poll the review queue and print each applied snapshot",
				Action: watchCommand,
				Flags: append(filterFlags(),
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Poll interval",
						Value: review.DefaultPollInterval,
					},
				),
			},
			{
				Name:   "list",
				Usage:  "Fetch and print one page of the review queue",
				Action: listCommand,
				Flags: append(filterFlags(),
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Print the last cached page instead of fetching",
					},
				),
			},
			{
				Name:   "accept",
				Usage:  "Accept reviewed jobs",
				Action: acceptCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "ids",
						Usage:    "Job IDs to accept",
						Required: true,
					},
				},
			},
			{
				Name:   "reject",
				Usage:  "Reject jobs with a reason",
				Action: rejectCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "ids",
						Usage:    "Job IDs to reject",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "reason",
						Usage:    "Reason recorded with the rejection",
						Required: true,
					},
				},
			},
			{
				Name:   "retry",
				Usage:  "Retry failed jobs, routed to the failing subsystem",
				Action: retryCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "ids",
						Usage:    "Job IDs to retry",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "status",
			Usage: "Restrict to one raw status (pending, processing, needs_review, failed)",
		},
		&cli.StringFlag{
			Name:  "search",
			Usage: "Free-text search over job metadata",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "1-based page number",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Jobs per page",
			Value: 25,
		},
	}
}

func newSession(c *cli.Context, extra ...briefly.SessionOption) (*briefly.Session, error) {
	cfg := platform.NewConfig(
		platform.WithBaseURL(c.String("api-url")),
		platform.WithAPIToken(c.String("api-token")),
	)

	opts := append([]briefly.SessionOption{
		briefly.WithPlatformConfig(cfg),
		briefly.WithLogger(slog.Default()),
	}, extra...)
	if dir := c.String("cache-dir"); dir != "" {
		opts = append(opts, briefly.WithCachePath(dir))
	}

	return briefly.NewSession(opts...)
}

func buildFilter(c *cli.Context) (core.Filter, error) {
	filter := core.Filter{
		Status:   core.RawStatus(c.String("status")),
		Search:   c.String("search"),
		Page:     c.Int("page"),
		PageSize: c.Int("page-size"),
	}
	if err := core.ValidateFilter(filter); err != nil {
		return core.Filter{}, err
	}
	return filter, nil
}

func watchCommand(c *cli.Context) error {
	filter, err := buildFilter(c)
	if err != nil {
		return err
	}

	session, err := newSession(c,
		briefly.WithPollInterval(c.Duration("interval")),
		briefly.WithPollMonitor(&consoleMonitor{out: os.Stdout}),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	ctx := c.Context

	// Warm start: show the last cached page, if any, while the first fetch
	// is in flight.
	if page, savedAt, err := session.Queue().Cached(ctx, filter); err == nil {
		fmt.Fprintf(os.Stdout, "--- cached snapshot from %s ---\n", savedAt.Local().Format(time.RFC3339))
		renderPage(os.Stdout, page)
	}

	if err := session.Poller().SetFilter(ctx, filter); err != nil {
		return fmt.Errorf("initial fetch failed: %w", err)
	}

	go watchVisibility(session.Poller(), os.Stdin)

	session.Poller().Run(ctx)
	return nil
}

// watchVisibility suspends and resumes background polling from stdin
// commands: "p" pauses, "r" resumes.
func watchVisibility(poller *review.Poller, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "p", "pause":
			poller.SetVisible(false)
			fmt.Fprintln(os.Stderr, "polling paused")
		case "r", "resume":
			poller.SetVisible(true)
			fmt.Fprintln(os.Stderr, "polling resumed")
		}
	}
}

func listCommand(c *cli.Context) error {
	filter, err := buildFilter(c)
	if err != nil {
		return err
	}

	session, err := newSession(c)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	ctx := c.Context
	if c.Bool("cached") {
		page, savedAt, err := session.Queue().Cached(ctx, filter)
		if err != nil {
			return fmt.Errorf("no cached page: %w", err)
		}
		fmt.Fprintf(os.Stdout, "cached %s\n", savedAt.Local().Format(time.RFC3339))
		renderPage(os.Stdout, page)
		return nil
	}

	page, err := session.Queue().List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}
	renderPage(os.Stdout, page)
	return nil
}

func acceptCommand(c *cli.Context) error {
	job, session, err := singleJob(c, core.ReviewStateReady)
	if err != nil {
		return err
	}
	if job != nil {
		defer session.Close()
		if err := session.API().AcceptJob(c.Context, job.JobID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "accepted %s\n", job.JobID)
		return nil
	}
	return runBulkAction(c, func(ctx context.Context, coordinator *review.Coordinator) (core.BulkOutcome, error) {
		return coordinator.Accept(ctx)
	})
}

func rejectCommand(c *cli.Context) error {
	reason := c.String("reason")
	job, session, err := singleJob(c, 0)
	if err != nil {
		return err
	}
	if job != nil {
		defer session.Close()
		if err := session.API().RejectJob(c.Context, job.JobID, reason); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "rejected %s\n", job.JobID)
		return nil
	}
	return runBulkAction(c, func(ctx context.Context, coordinator *review.Coordinator) (core.BulkOutcome, error) {
		return coordinator.Reject(ctx, reason)
	})
}

func retryCommand(c *cli.Context) error {
	job, session, err := singleJob(c, core.ReviewStateError)
	if err != nil {
		return err
	}
	if job != nil {
		defer session.Close()
		dispatcher, err := review.NewDispatcher(session.API())
		if err != nil {
			return err
		}
		outcome, err := dispatcher.Retry(c.Context, job)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "retried %s via %s subsystem\n", outcome.JobID, outcome.Subsystem)
		if outcome.Receipt != nil && outcome.Receipt.Message != "" {
			fmt.Fprintln(os.Stdout, outcome.Receipt.Message)
		}
		return nil
	}
	return runBulkAction(c, func(ctx context.Context, coordinator *review.Coordinator) (core.BulkOutcome, error) {
		return coordinator.RetryFailed(ctx)
	})
}

// singleJob resolves the one-ID case for the single-item endpoints. It
// returns (nil, nil, nil) when more than one ID was given and the bulk path
// should run instead. On success the caller owns the session and must close
// it. requireState of 0 accepts any eligible job.
func singleJob(c *cli.Context, requireState core.ReviewState) (*core.IngestionJob, *briefly.Session, error) {
	ids := c.StringSlice("ids")
	if len(ids) != 1 {
		return nil, nil, nil
	}
	id := strings.TrimSpace(ids[0])
	if id == "" {
		return nil, nil, fmt.Errorf("empty job id")
	}

	session, err := newSession(c, briefly.WithSettleDelay(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := session.Poller().Refresh(c.Context); err != nil {
		session.Close()
		return nil, nil, fmt.Errorf("failed to fetch the queue: %w", err)
	}

	job := session.Coordinator().Snapshot().JobByID(id)
	switch {
	case job == nil:
		err = fmt.Errorf("job %s is not on the current queue page", id)
	case !review.Eligible(job):
		err = fmt.Errorf("job %s is %s and cannot be acted on", id, job.ReviewState())
	case requireState != 0 && job.ReviewState() != requireState:
		err = fmt.Errorf("job %s is %s, want %s", id, job.ReviewState(), requireState)
	}
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	return job, session, nil
}

// runBulkAction fetches the queue, selects the requested jobs, and executes
// one coordinator action against them.
func runBulkAction(c *cli.Context, action func(context.Context, *review.Coordinator) (core.BulkOutcome, error)) error {
	session, err := newSession(c, briefly.WithSettleDelay(0))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	ctx := c.Context
	if err := session.Poller().Refresh(ctx); err != nil {
		return fmt.Errorf("failed to fetch the queue: %w", err)
	}

	coordinator := session.Coordinator()
	if err := selectJobs(coordinator, c.StringSlice("ids")); err != nil {
		return err
	}

	outcome, err := action(ctx, coordinator)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "succeeded: %d  failed: %d  skipped: %d\n",
		outcome.Succeeded, outcome.Failed, outcome.Skipped)
	return nil
}

// selectJobs resolves each requested ID against the fetched queue page and
// adds it to the coordinator's selection. An unknown or ineligible job is an
// error; partial selections must not be acted on silently.
func selectJobs(coordinator *review.Coordinator, ids []string) error {
	snapshot := coordinator.Snapshot()
	if snapshot == nil {
		return fmt.Errorf("no queue snapshot loaded")
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		job := snapshot.JobByID(id)
		if job == nil {
			return fmt.Errorf("job %s is not on the current queue page", id)
		}
		if !review.Eligible(job) {
			return fmt.Errorf("job %s is %s and cannot be acted on", id, job.ReviewState())
		}
		coordinator.Selection().Toggle(job)
	}
	if coordinator.Selection().Len() == 0 {
		return fmt.Errorf("no jobs selected")
	}
	return nil
}

// renderPage prints one queue page as a table.
func renderPage(w io.Writer, page *core.QueuePage) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tDOCUMENT\tSTATE\tVECTOR\tSUBMITTED\tREASON")
	for _, job := range page.Items {
		vector := string(job.VectorSyncStatus)
		if vector == "" {
			vector = "-"
		}
		reason := job.FailureReason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			job.JobID,
			job.DocumentID,
			job.ReviewState(),
			vector,
			job.SubmittedAt.Local().Format("2006-01-02 15:04"),
			reason,
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d jobs", page.Total)
	for _, status := range []core.RawStatus{core.StatusPending, core.StatusProcessing, core.StatusNeedsReview, core.StatusFailed} {
		if n := page.StatusCounts[status]; n > 0 {
			fmt.Fprintf(w, "  %s: %d", status, n)
		}
	}
	fmt.Fprintln(w)
}

// consoleMonitor prints every applied snapshot. Discarded and failed fetches
// stay on the log, not stdout.
type consoleMonitor struct {
	out io.Writer
}

func (m *consoleMonitor) Started(uint64) {}

func (m *consoleMonitor) Applied(seq uint64, page *core.QueuePage) {
	fmt.Fprintf(m.out, "--- snapshot #%d at %s ---\n", seq, time.Now().Local().Format("15:04:05"))
	renderPage(m.out, page)
}

func (m *consoleMonitor) Discarded(seq uint64) {
	slog.Debug("discarded stale fetch", "seq", seq)
}

func (m *consoleMonitor) Failed(seq uint64, err error) {
	slog.Warn("background fetch failed", "seq", seq, "err", err)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
