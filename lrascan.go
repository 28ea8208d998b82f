// Package lrascan measures the EBU R128 loudness range of every audio file in a directory tree, using ffmpeg,
// and keeps the results in a text file sorted from widest to narrowest dynamics.
//
//nolint:wrapcheck
package lrascan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/farcloser/lrascan/internal/aggregate"
	"github.com/farcloser/lrascan/internal/config"
	"github.com/farcloser/lrascan/internal/discovery"
	"github.com/farcloser/lrascan/internal/executor"
	"github.com/farcloser/lrascan/internal/integration/ffmpeg"
	"github.com/farcloser/lrascan/internal/metrics"
	"github.com/farcloser/lrascan/internal/store"
	"github.com/farcloser/lrascan/internal/types"
)

/*
Usage:

report, err := lrascan.Scan(ctx, lrascan.Options{Root: "/srv/music"})
if err != nil {
    return err
}

fmt.Printf("%d measured, %d failed, results in %s\n",
    report.Stats.Successful, report.Stats.Failed, report.ResultsPath)

// Widest dynamics first
for _, record := range report.Records[:min(5, len(report.Records))] {
    fmt.Printf("%s: %.1f LU\n", record.DisplayPath, record.LRA)
}
*/

var (
	// ErrInvalidRoot is returned when the scan root does not exist, is not a directory, or cannot be listed.
	ErrInvalidRoot = errors.New("invalid scan root")

	errNotDirectory = errors.New("not a directory")
)

// Analyzer measures the loudness range of a single file. ffmpeg.Analyzer is the production implementation.
type Analyzer = executor.Analyzer

// Options configures Scan. Zero values select the defaults.
type Options struct {
	// Root is the directory to scan.
	Root string
	// ResultsFile is the result file path. Relative paths are resolved against Root. Default "lra_results.txt".
	ResultsFile string
	// Header is the first line of the result file.
	Header string
	// Extensions is the audio allow-list. Nil means discovery.DefaultExtensions.
	Extensions []string
	// Workers is the pool size. Zero or less means one per CPU.
	Workers int
	// AnalyzerBinary is the ffmpeg executable used when Analyzer is nil.
	AnalyzerBinary string
	// Timeout bounds a single analysis. Zero means none.
	Timeout time.Duration
	// Analyzer overrides the ffmpeg analyzer.
	Analyzer Analyzer
	// Progress receives one report per completed file.
	Progress executor.ProgressFunc
	// Metrics, when set, observes every completed file.
	Metrics *metrics.Collector
}

// Report is the outcome of a scan.
type Report struct {
	Root        string
	ResultsPath string
	// Entries are the discovered files, in discovery order.
	Entries []types.FileEntry
	Stats   aggregate.Stats
	// Records are the successful results, ordered by LRA descending then path ascending.
	Records []types.Record
	Formats []aggregate.FormatCount
	Spread  aggregate.Distribution
	// Sorted is true when the result file was re-sorted on disk.
	Sorted bool
	// SortErr is set when the sort step failed. The unsorted result file is still in place.
	SortErr error
	Elapsed time.Duration
}

// ValidateRoot verifies that root exists, is a directory, and can be listed.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRoot, root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRoot, root, errNotDirectory)
	}

	dir, err := os.Open(root) //nolint:gosec // scan root is user-provided by design
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRoot, root, err)
	}
	defer dir.Close()

	if _, err = dir.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRoot, root, err)
	}

	return nil
}

// CheckAvailability verifies that the analyzer binary runs and returns its version, if it reports one.
func CheckAvailability(ctx context.Context, analyzerBinary string) (string, error) {
	return ffmpeg.CheckAvailability(ctx, analyzerBinary)
}

// ResultsPath resolves the result file location for a scan of root.
func ResultsPath(root, resultsFile string) string {
	if resultsFile == "" {
		resultsFile = config.DefaultResultsFile
	}

	if filepath.IsAbs(resultsFile) {
		return resultsFile
	}

	return filepath.Join(root, resultsFile)
}

// Scan discovers audio files under opts.Root, analyzes them in parallel, writes the successful results and sorts
// the result file. Per-file failures never fail the scan: they are reported in Report.Stats. An error is returned
// only when the root is invalid or the result file cannot be written.
func Scan(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()

	if err := ValidateRoot(opts.Root); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRoot, opts.Root, err)
	}

	header := opts.Header
	if header == "" {
		header = store.DefaultHeader
	}

	report := &Report{
		Root:        root,
		ResultsPath: ResultsPath(root, opts.ResultsFile),
	}

	slog.Debug("lrascan.Scan", "root", root, "results", report.ResultsPath, "stage", "discovery")

	report.Entries = discovery.Discover(root, report.ResultsPath, opts.Extensions)
	report.Formats = aggregate.Formats(report.Entries)

	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = ffmpeg.Analyzer{Binary: opts.AnalyzerBinary, Timeout: opts.Timeout}
	}

	slog.Debug("lrascan.Scan", "entries", len(report.Entries), "stage", "analysis")

	outcomes := executor.Run(ctx, analyzer, report.Entries, executor.Options{
		Workers:  opts.Workers,
		Progress: progressWithMetrics(opts.Progress, opts.Metrics),
	})

	report.Stats, report.Records = aggregate.Analyze(outcomes)

	if err = store.Write(report.ResultsPath, header, report.Records); err != nil {
		return nil, err
	}

	if report.Stats.Successful > 0 {
		slog.Debug("lrascan.Scan", "records", len(report.Records), "stage", "sort")

		if _, err = store.Sort(report.ResultsPath, header); err != nil {
			slog.Warn("sorting result file failed, results are left in completion order",
				"path", report.ResultsPath, "error", err)

			report.SortErr = err
		} else {
			report.Sorted = true
		}
	}

	store.SortRecords(report.Records)
	report.Spread = aggregate.Summarize(report.Records)
	report.Elapsed = time.Since(start)

	if opts.Metrics != nil {
		opts.Metrics.Finish(time.Now())
	}

	slog.Debug("lrascan.Scan", "elapsed", report.Elapsed, "stage", "done")

	return report, nil
}

func progressWithMetrics(progress executor.ProgressFunc, collector *metrics.Collector) executor.ProgressFunc {
	if collector == nil {
		return progress
	}

	return func(update executor.Progress) {
		collector.Observe(update.Outcome, update.Duration)

		if progress != nil {
			progress(update)
		}
	}
}
