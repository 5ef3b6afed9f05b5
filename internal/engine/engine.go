// Package engine implements the Collection Engine: it resolves a
// declarative artifact list into acquisition jobs, validates each job's
// destination stays within the staging root, and runs the jobs either
// sequentially or across a worker pool, merging results into a
// CollectionReport.
package engine

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hostforensics/collector/internal/metrics"
	"github.com/hostforensics/collector/internal/rawaccess"
	"github.com/hostforensics/collector/pkg/errors"
	"github.com/hostforensics/collector/pkg/memmon"
	"github.com/hostforensics/collector/pkg/types"
	"github.com/hostforensics/collector/pkg/utils"
)

const (
	minWorkers = 2
	maxWorkers = 16
)

// Reader is the capability the engine needs from the Raw Reader.
type Reader interface {
	Collect(ctx context.Context, source, destination string) (types.ArtifactMetadata, error)
}

// Engine runs artifact collection against a staging root.
type Engine struct {
	reader    Reader
	logger    *utils.StructuredLogger
	tracker   *PermissionTracker
	metrics   *metrics.Collector
	cancelMu  sync.Mutex
	cancelled bool
}

// New constructs an Engine with the given Reader. reader may be nil, in
// which case a default rawaccess.Reader is used. logger may be nil.
func New(reader Reader, logger *utils.StructuredLogger) *Engine {
	if logger == nil {
		logger, _ = utils.NewStructuredLogger(utils.DefaultStructuredLoggerConfig())
	}
	if reader == nil {
		reader = rawaccess.New(logger)
	}
	// The collector is never Start()ed, so no HTTP listener opens; it only
	// accumulates in-process counters acquire records per job.
	collector, _ := metrics.NewCollector(&metrics.Config{Enabled: true, Namespace: "collector"})
	return &Engine{reader: reader, logger: logger.WithComponent("engine"), tracker: NewPermissionTracker(), metrics: collector}
}

// PermissionTracker exposes the engine's shared authorization-failure set.
func (e *Engine) PermissionTracker() *PermissionTracker {
	return e.tracker
}

// startMemoryWatchdog runs a background memory monitor for the duration of
// one collection pass, logging an alert if heap usage grows unexpectedly
// during a large tree walk. It never fails or blocks Collect/CollectParallel
// on its own account; the returned stop func is safe to call unconditionally.
func (e *Engine) startMemoryWatchdog(ctx context.Context) func() {
	cfg := memmon.DefaultMonitorConfig()
	cfg.Logger = e.logger
	monitor := memmon.NewMemoryMonitor(cfg)
	if err := monitor.Start(ctx); err != nil {
		e.logger.Warn("memory watchdog failed to start", map[string]interface{}{"error": err.Error()})
		return func() {}
	}
	return func() { _ = monitor.Stop() }
}

// Cancel requests cooperative cancellation: from then on, jobs that have
// not started are skipped and Collect/CollectParallel return the report
// with whatever succeeded. A job already running is not interrupted by
// Cancel.
func (e *Engine) Cancel() {
	e.cancelMu.Lock()
	e.cancelled = true
	e.cancelMu.Unlock()
}

// isCancelled reports whether Cancel has been called.
func (e *Engine) isCancelled() bool {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()
	return e.cancelled
}

// Collect runs jobs sequentially on the calling goroutine.
func (e *Engine) Collect(ctx context.Context, artifacts []types.Artifact, stagingRoot string) (*types.CollectionReport, error) {
	stop := e.startMemoryWatchdog(ctx)
	defer stop()

	jobs, report := e.resolveAll(artifacts, stagingRoot)
	for _, j := range jobs {
		select {
		case <-ctx.Done():
			return report, nil
		default:
		}
		if e.isCancelled() {
			return report, nil
		}
		e.runJob(ctx, j, stagingRoot, report)
	}
	return report, nil
}

// CollectParallel dispatches jobs to a worker pool sized to
// hardware_threads, clamped to [2, 16]. Job outcomes merge into
// the CollectionReport in arrival order, not submission order.
func (e *Engine) CollectParallel(ctx context.Context, artifacts []types.Artifact, stagingRoot string) (*types.CollectionReport, error) {
	stop := e.startMemoryWatchdog(ctx)
	defer stop()

	jobs, report := e.resolveAll(artifacts, stagingRoot)
	if len(jobs) == 0 {
		return report, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < minWorkers {
		workers = minWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan job, len(jobs))
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	type outcome struct {
		entry  *types.ReportEntry
		denied string
	}
	results := make(chan outcome, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if e.isCancelled() {
					return
				}
				entry, denied := e.acquire(ctx, j, stagingRoot)
				results <- outcome{entry: entry, denied: denied}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.entry != nil {
			report.Entries = append(report.Entries, *r.entry)
		}
		if r.denied != "" {
			e.tracker.Record(r.denied)
		}
	}
	report.PermissionFailures = e.tracker.Names()
	return report, nil
}

// resolveAll resolves every artifact into jobs, rejecting jobs whose
// destination escapes the staging root.
func (e *Engine) resolveAll(artifacts []types.Artifact, stagingRoot string) ([]job, *types.CollectionReport) {
	report := &types.CollectionReport{}
	var jobs []job

	for _, artifact := range artifacts {
		resolved, err := resolve(artifact)
		if err != nil {
			e.logger.Warn("failed to resolve artifact", map[string]interface{}{
				"artifact": artifact.Name, "error": err.Error(),
			})
			continue
		}
		for _, j := range resolved {
			if _, err := utils.SecureJoin(stagingRoot, j.destination); err != nil {
				e.logger.Warn("rejected job with invalid destination", map[string]interface{}{
					"artifact": artifact.Name, "destination": j.destination, "error": err.Error(),
				})
				continue
			}
			jobs = append(jobs, j)
		}
	}
	return jobs, report
}

// runJob acquires one job sequentially and appends its outcome to report.
func (e *Engine) runJob(ctx context.Context, j job, stagingRoot string, report *types.CollectionReport) {
	entry, denied := e.acquire(ctx, j, stagingRoot)
	if entry != nil {
		report.Entries = append(report.Entries, *entry)
	}
	if denied != "" {
		e.tracker.Record(denied)
	}
	report.PermissionFailures = e.tracker.Names()
}

// acquire runs the Raw Reader for one job and classifies the outcome by
// error code: missing sources are logged and dropped, unauthorized
// sources are recorded in the permission tracker, locked sources still
// contribute partial metadata to the report.
func (e *Engine) acquire(ctx context.Context, j job, stagingRoot string) (*types.ReportEntry, string) {
	dest, err := utils.SecureJoin(stagingRoot, j.destination)
	if err != nil {
		// Already filtered in resolveAll; defensive guard against a future
		// caller that skips it.
		return nil, ""
	}

	start := time.Now()
	meta, err := e.reader.Collect(ctx, j.source, dest)
	e.metrics.RecordOperation("acquire", time.Since(start), meta.FileSize, err == nil)
	if err != nil {
		code := errors.CodeOf(err)
		switch code {
		case errors.ErrCodeSourceMissing:
			if j.artifact.Required {
				e.logger.Warn("required artifact missing", map[string]interface{}{
					"artifact": j.artifact.Name, "source": j.source,
				})
			} else {
				e.logger.Debug("optional artifact missing", map[string]interface{}{
					"artifact": j.artifact.Name, "source": j.source,
				})
			}
			return nil, ""
		case errors.ErrCodeUnauthorized:
			e.logger.Warn("permission denied acquiring artifact", map[string]interface{}{
				"artifact": j.artifact.Name, "source": j.source,
			})
			return nil, j.artifact.Name
		case errors.ErrCodeLocked:
			// IoError mid-copy: partial metadata still goes in the report
			// with is_locked = true.
			rel, _ := filepath.Rel(stagingRoot, dest)
			return &types.ReportEntry{RelativeOutputPath: rel, Metadata: meta}, ""
		default:
			e.logger.Warn("unrecognized acquisition error", map[string]interface{}{
				"artifact": j.artifact.Name, "source": j.source, "error": err.Error(),
			})
			return nil, ""
		}
	}

	rel, relErr := filepath.Rel(stagingRoot, dest)
	if relErr != nil {
		rel = j.destination
	}
	return &types.ReportEntry{RelativeOutputPath: rel, Metadata: meta}, ""
}

// WriteSummary serializes the report's collection-summary.json into
// stagingRoot.
func WriteSummary(report *types.CollectionReport, stagingRoot string) error {
	path := filepath.Join(stagingRoot, "collection-summary.json")
	f, err := os.Create(path)
	if err != nil {
		return errors.New(errors.ErrCodeInternal, "failed to write collection summary").
			WithComponent("engine").WithOperation("write_summary").WithContext("path", path).WithCause(err)
	}
	defer f.Close()

	return encodeSummary(f, report.ToSummary())
}

func encodeSummary(w io.Writer, summary types.CollectionSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return errors.New(errors.ErrCodeInternal, "failed to encode collection summary").
			WithComponent("engine").WithOperation("write_summary").WithCause(err)
	}
	return nil
}

// ExitCode computes the process exit code from a completed report: 0 if
// every required artifact was acquired, 2 if a required artifact is
// missing or denied, 1 on an unexpected internal error (signaled by
// runErr != nil).
func ExitCode(report *types.CollectionReport, artifacts []types.Artifact, runErr error) int {
	if runErr != nil {
		return 1
	}
	required := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		if a.Required {
			required[a.Name] = true
		}
	}
	for _, name := range report.PermissionFailures {
		if required[name] {
			return 2
		}
	}

	acquired := make(map[string]struct{}, len(report.Entries))
	for _, e := range report.Entries {
		acquired[e.RelativeOutputPath] = struct{}{}
	}
	for _, a := range artifacts {
		if !a.Required {
			continue
		}
		if _, ok := acquired[a.DestinationName]; !ok {
			return 2
		}
	}
	return 0
}
