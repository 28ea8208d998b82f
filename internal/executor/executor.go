// Package executor fans analysis out across a bounded pool of workers.
//
// Workers pull entries from a shared queue, so a slow file never holds back the others. Every entry produces
// exactly one outcome; a failure (or a panic) in one analysis never affects another. Outcomes are returned in
// completion order: callers that need a deterministic order must sort.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/farcloser/lrascan/internal/types"
)

// Analyzer measures the loudness range of a single file.
type Analyzer interface {
	Analyze(ctx context.Context, filePath string) (float64, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, filePath string) (float64, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, filePath string) (float64, error) {
	return f(ctx, filePath)
}

// Progress is reported once per completed entry. Done comes from a shared counter that is observational only:
// it never orders or identifies results.
type Progress struct {
	Done     int
	Total    int
	Outcome  types.Outcome
	Duration time.Duration
}

// ProgressFunc receives progress reports. It is called concurrently from workers and must be safe for that.
type ProgressFunc func(Progress)

// Options configures Run.
type Options struct {
	// Workers is the pool size. Zero or less means runtime.NumCPU().
	Workers int
	// Progress is optional.
	Progress ProgressFunc
}

func (o Options) workers(total int) int {
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return max(min(workers, total), 1)
}

// Run analyzes every entry and returns one outcome per entry, in completion order.
func Run(ctx context.Context, analyzer Analyzer, entries []types.FileEntry, opts Options) []types.Outcome {
	total := len(entries)
	if total == 0 {
		return []types.Outcome{}
	}

	workers := opts.workers(total)

	slog.Debug("executor.Run", "entries", total, "workers", workers, "stage", "start")

	queue := make(chan types.FileEntry, total)
	for _, entry := range entries {
		queue <- entry
	}

	close(queue)

	completed := make(chan types.Outcome, total)

	var (
		done  atomic.Int64
		group errgroup.Group
	)

	for range workers {
		group.Go(func() error {
			for entry := range queue {
				start := time.Now()
				outcome := analyzeOne(ctx, analyzer, entry)
				completed <- outcome

				count := done.Add(1)

				if opts.Progress != nil {
					opts.Progress(Progress{
						Done:     int(count),
						Total:    total,
						Outcome:  outcome,
						Duration: time.Since(start),
					})
				}
			}

			return nil
		})
	}

	//nolint:errcheck // workers never return errors, failures are carried by outcomes
	group.Wait()
	close(completed)

	outcomes := make([]types.Outcome, 0, total)
	for outcome := range completed {
		outcomes = append(outcomes, outcome)
	}

	slog.Debug("executor.Run", "entries", total, "outcomes", len(outcomes), "stage", "done")

	return outcomes
}

// analyzeOne never panics: a panicking analyzer becomes a failure for that entry only.
func analyzeOne(ctx context.Context, analyzer Analyzer, entry types.FileEntry) (outcome types.Outcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = types.Failure(entry.DisplayPath, fmt.Errorf("analyzer panicked: %v", recovered))
		}
	}()

	if err := ctx.Err(); err != nil {
		return types.Failure(entry.DisplayPath, fmt.Errorf("analysis interrupted: %w", err))
	}

	lra, err := analyzer.Analyze(ctx, entry.AbsolutePath)
	if err != nil {
		return types.Failure(entry.DisplayPath, err)
	}

	if math.IsNaN(lra) || math.IsInf(lra, 0) || lra < 0 {
		return types.Failure(entry.DisplayPath,
			fmt.Errorf("%w: %v is not a finite, non-negative loudness range", types.ErrValueParsing, lra))
	}

	return types.Success(entry.DisplayPath, lra)
}
