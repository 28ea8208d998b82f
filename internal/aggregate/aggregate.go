// Package aggregate partitions analysis outcomes and summarizes them.
package aggregate

import (
	"cmp"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/lrascan/internal/types"
)

// Stats summarizes a processing pass. It is read-only once built.
type Stats struct {
	Successful int
	Failed     int
	// FailureMessages are formatted as "<path> [<kind>]: <message>", in encounter order.
	FailureMessages []string
	// FailuresByKind counts failures per kind.
	FailuresByKind map[types.ErrorKind]int
}

// Total is Successful + Failed.
func (s Stats) Total() int {
	return s.Successful + s.Failed
}

// SuccessRate is the percentage of successful outcomes, 0 when there were none.
func (s Stats) SuccessRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}

	return float64(s.Successful) / float64(total) * 100
}

// HasFailures reports whether any outcome failed.
func (s Stats) HasFailures() bool {
	return s.Failed > 0
}

// Analyze splits outcomes into records (successes, in input order) and failure statistics.
func Analyze(outcomes []types.Outcome) (Stats, []types.Record) {
	stats := Stats{
		FailureMessages: []string{},
		FailuresByKind:  map[types.ErrorKind]int{},
	}
	records := make([]types.Record, 0, len(outcomes))

	for _, outcome := range outcomes {
		if outcome.OK() {
			records = append(records, types.Record{DisplayPath: outcome.DisplayPath, LRA: outcome.LRA})
			stats.Successful++

			continue
		}

		stats.Failed++
		stats.FailuresByKind[outcome.Kind]++
		stats.FailureMessages = append(stats.FailureMessages,
			fmt.Sprintf("%s [%s]: %s", outcome.DisplayPath, outcome.Kind.Description(), outcome.Message()))
	}

	return stats, records
}

// Distribution describes the spread of loudness range values. All fields are zero when Count is zero.
// StdDev is the sample standard deviation, zero for a single value.
type Distribution struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

// Summarize computes the LRA distribution of records.
func Summarize(records []types.Record) Distribution {
	if len(records) == 0 {
		return Distribution{}
	}

	values := make([]float64, 0, len(records))
	for _, record := range records {
		values = append(values, record.LRA)
	}

	slices.Sort(values)

	dist := Distribution{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
		Median: stat.Quantile(0.5, stat.Empirical, values, nil),
	}

	if len(values) > 1 {
		dist.StdDev = stat.StdDev(values, nil)
	}

	if math.IsNaN(dist.StdDev) {
		dist.StdDev = 0
	}

	return dist
}

// FormatCount is the number of discovered files with a given extension.
type FormatCount struct {
	Extension string
	Count     int
}

// Formats counts entries per lower-cased extension, most frequent first, ties by extension.
func Formats(entries []types.FileEntry) []FormatCount {
	counts := map[string]int{}

	for _, entry := range entries {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(entry.AbsolutePath), "."))
		counts[ext]++
	}

	out := make([]FormatCount, 0, len(counts))
	for ext, count := range counts {
		out = append(out, FormatCount{Extension: ext, Count: count})
	}

	slices.SortFunc(out, func(a, b FormatCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}

		return strings.Compare(a.Extension, b.Extension)
	})

	return out
}
