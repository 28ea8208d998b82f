package output_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/lrascan/internal/aggregate"
	"github.com/farcloser/lrascan/internal/output"
	"github.com/farcloser/lrascan/internal/store"
	"github.com/farcloser/lrascan/internal/types"
)

func TestTruncateFailures(t *testing.T) {
	t.Parallel()

	messages := make([]string, 0, 13)
	for i := range 13 {
		messages = append(messages, fmt.Sprintf("f%d", i))
	}

	got := output.TruncateFailures(messages, output.MaxFailureDetails)
	require.Len(t, got, 11)
	assert.Equal(t, "f9", got[9])
	assert.Equal(t, "... and 3 more", got[10])

	assert.Equal(t, messages[:10], output.TruncateFailures(messages[:10], output.MaxFailureDetails))
	assert.Empty(t, output.TruncateFailures(nil, output.MaxFailureDetails))
}

func TestScanToMap(t *testing.T) {
	t.Parallel()

	stats, records := aggregate.Analyze([]types.Outcome{
		types.Success("a.wav", 15.2),
		types.Failure("bad.mp3", fmt.Errorf("%w: exit code 1", types.ErrAnalyzerExecution)),
	})

	meta := output.ScanToMap(output.Scan{
		Root:        "/music",
		ResultsPath: "/music/lra_results.txt",
		Discovered:  2,
		Stats:       stats,
		Formats:     []aggregate.FormatCount{{Extension: "mp3", Count: 1}, {Extension: "wav", Count: 1}},
		Spread:      aggregate.Summarize(records),
		Top:         records,
		Sorted:      true,
		SortErr:     errors.New("disk full"),
		Elapsed:     1500 * time.Millisecond,
	})

	summary, ok := meta["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "50.0%", summary["success_rate"])
	assert.Equal(t, "1.5s", summary["elapsed"])
	assert.Equal(t, "disk full", meta["sort_error"])
	assert.Equal(t, []any{"a.wav - 15.2"}, meta["widest"])
	assert.Equal(t, map[string]any{"mp3": 1, "wav": 1}, meta["formats"])

	failures, ok := meta["failures"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"analyzer-execution": 1}, failures["by_kind"])
}

func TestScanToMapEmpty(t *testing.T) {
	t.Parallel()

	stats, _ := aggregate.Analyze(nil)
	meta := output.ScanToMap(output.Scan{ResultsPath: "/music/lra_results.txt", Stats: stats})

	assert.NotContains(t, meta, "failures")
	assert.NotContains(t, meta, "loudness_range")
	assert.NotContains(t, meta, "sort_error")
	assert.Equal(t, false, meta["sorted"])
}

func TestSortToMap(t *testing.T) {
	t.Parallel()

	meta := output.SortToMap("r.txt", store.SortResult{
		Kept:    4,
		Skipped: []store.LineError{{Line: 3, Err: store.ErrMalformedLine}},
	})

	assert.Equal(t, 4, meta["kept"])
	assert.Equal(t, 1, meta["skipped"])
	assert.Equal(t, []string{"line 3: malformed result line"}, meta["skipped_lines"])
}

func TestCheckToMap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", output.CheckToMap("ffmpeg", "")["version"])
	assert.Equal(t, "6.1.1", output.CheckToMap("ffmpeg", "6.1.1")["version"])
}
