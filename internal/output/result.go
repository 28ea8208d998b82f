// Package output builds the maps handed to primordium formatters for the scan, sort and check summaries.
package output

import (
	"fmt"
	"slices"
	"time"

	"github.com/farcloser/lrascan/internal/aggregate"
	"github.com/farcloser/lrascan/internal/store"
	"github.com/farcloser/lrascan/internal/types"
)

// MaxFailureDetails caps the number of failure messages listed in a summary.
const MaxFailureDetails = 10

// Scan describes a finished scan for rendering.
type Scan struct {
	Root        string
	ResultsPath string
	Discovered  int
	Stats       aggregate.Stats
	Formats     []aggregate.FormatCount
	Spread      aggregate.Distribution
	Top         []types.Record
	Sorted      bool
	SortErr     error
	Elapsed     time.Duration
}

// ScanToMap converts a scan summary into its canonical map structure.
func ScanToMap(scan Scan) map[string]any {
	meta := map[string]any{
		"summary": map[string]any{
			"discovered":   scan.Discovered,
			"successful":   scan.Stats.Successful,
			"failed":       scan.Stats.Failed,
			"success_rate": fmt.Sprintf("%.1f%%", scan.Stats.SuccessRate()),
			"elapsed":      scan.Elapsed.Truncate(time.Millisecond).String(),
		},
		"root":         scan.Root,
		"results_file": scan.ResultsPath,
		"sorted":       scan.Sorted,
	}

	if scan.SortErr != nil {
		meta["sort_error"] = scan.SortErr.Error()
	}

	if len(scan.Formats) > 0 {
		formats := make(map[string]any, len(scan.Formats))
		for _, format := range scan.Formats {
			formats[format.Extension] = format.Count
		}

		meta["formats"] = formats
	}

	if scan.Spread.Count > 0 {
		meta["loudness_range"] = DistributionToMap(scan.Spread)
	}

	if len(scan.Top) > 0 {
		top := make([]any, 0, len(scan.Top))
		for _, record := range scan.Top {
			top = append(top, store.FormatLine(record))
		}

		meta["widest"] = top
	}

	if scan.Stats.HasFailures() {
		meta["failures"] = FailuresToMap(scan.Stats)
	}

	return meta
}

// DistributionToMap renders an LRA distribution in LU, one decimal.
func DistributionToMap(dist aggregate.Distribution) map[string]any {
	return map[string]any{
		"count":  dist.Count,
		"min":    fmt.Sprintf("%.1f LU", dist.Min),
		"max":    fmt.Sprintf("%.1f LU", dist.Max),
		"mean":   fmt.Sprintf("%.1f LU", dist.Mean),
		"median": fmt.Sprintf("%.1f LU", dist.Median),
		"stddev": fmt.Sprintf("%.1f LU", dist.StdDev),
	}
}

// FailuresToMap lists per-kind counts and at most MaxFailureDetails messages.
func FailuresToMap(stats aggregate.Stats) map[string]any {
	kinds := make(map[string]any, len(stats.FailuresByKind))
	for kind, count := range stats.FailuresByKind {
		kinds[kind.String()] = count
	}

	return map[string]any{
		"by_kind": kinds,
		"details": TruncateFailures(stats.FailureMessages, MaxFailureDetails),
	}
}

// TruncateFailures keeps the first limit messages and appends a "... and N more" line for the rest.
func TruncateFailures(messages []string, limit int) []string {
	if len(messages) <= limit {
		return slices.Clone(messages)
	}

	out := slices.Clone(messages[:limit])

	return append(out, fmt.Sprintf("... and %d more", len(messages)-limit))
}

// SortToMap summarizes a standalone sort of a result file.
func SortToMap(path string, result store.SortResult) map[string]any {
	meta := map[string]any{
		"results_file": path,
		"kept":         result.Kept,
		"skipped":      len(result.Skipped),
	}

	if len(result.Skipped) > 0 {
		lines := make([]string, 0, len(result.Skipped))
		for _, skipped := range result.Skipped {
			lines = append(lines, skipped.Error())
		}

		meta["skipped_lines"] = TruncateFailures(lines, MaxFailureDetails)
	}

	return meta
}

// CheckToMap summarizes an analyzer availability probe.
func CheckToMap(binary, analyzerVersion string) map[string]any {
	if analyzerVersion == "" {
		analyzerVersion = "unknown"
	}

	return map[string]any{
		"analyzer":  binary,
		"available": true,
		"version":   analyzerVersion,
	}
}
