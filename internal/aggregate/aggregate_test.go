package aggregate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/farcloser/lrascan/internal/aggregate"
	"github.com/farcloser/lrascan/internal/types"
)

func TestAnalyzeMixed(t *testing.T) {
	t.Parallel()

	outcomes := []types.Outcome{
		types.Success("b.mp3", 8.5),
		types.Failure("corrupted.mp3", fmt.Errorf("%w: exit code 1", types.ErrAnalyzerExecution)),
		types.Success("a.wav", 15.2),
		types.Failure("invalid.wav", fmt.Errorf("%w: no LRA", types.ErrValueParsing)),
		types.Failure("other.ogg", errors.New("something else")),
	}

	stats, records := aggregate.Analyze(outcomes)

	want := []types.Record{{DisplayPath: "b.mp3", LRA: 8.5}, {DisplayPath: "a.wav", LRA: 15.2}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 3, stats.Failed)
	assert.Equal(t, 5, stats.Total())
	assert.InDelta(t, 40.0, stats.SuccessRate(), 1e-9)
	assert.True(t, stats.HasFailures())
	assert.Equal(t, []string{
		"corrupted.mp3 [analyzer execution failed]: analyzer execution failed: exit code 1",
		"invalid.wav [LRA parsing failed]: value parsing failed: no LRA",
		"other.ogg [other error]: something else",
	}, stats.FailureMessages)
	assert.Equal(t, map[types.ErrorKind]int{
		types.KindAnalyzerExecution: 1,
		types.KindValueParsing:      1,
		types.KindOther:             1,
	}, stats.FailuresByKind)
}

func TestAnalyzeEmpty(t *testing.T) {
	t.Parallel()

	stats, records := aggregate.Analyze(nil)

	assert.Empty(t, records)
	assert.Zero(t, stats.Total())
	assert.Zero(t, stats.SuccessRate())
	assert.False(t, stats.HasFailures())
	assert.Empty(t, stats.FailureMessages)
}

func TestAnalyzeOnlySuccesses(t *testing.T) {
	t.Parallel()

	stats, records := aggregate.Analyze([]types.Outcome{types.Success("x.flac", 3), types.Success("y.flac", 4)})

	assert.Len(t, records, 2)
	assert.InDelta(t, 100.0, stats.SuccessRate(), 1e-9)
	assert.False(t, stats.HasFailures())
}

func TestAnalyzeOnlyFailures(t *testing.T) {
	t.Parallel()

	stats, records := aggregate.Analyze([]types.Outcome{
		types.Failure("x.flac", fmt.Errorf("%w", types.ErrFileAccess)),
	})

	assert.Empty(t, records)
	assert.Zero(t, stats.SuccessRate())
	assert.Equal(t, 1, stats.FailuresByKind[types.KindFileAccess])
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, aggregate.Distribution{}, aggregate.Summarize(nil))

	single := aggregate.Summarize([]types.Record{{DisplayPath: "a", LRA: 7}})
	assert.Equal(t, aggregate.Distribution{Count: 1, Min: 7, Max: 7, Mean: 7, Median: 7}, single)

	dist := aggregate.Summarize([]types.Record{
		{DisplayPath: "a", LRA: 4},
		{DisplayPath: "b", LRA: 2},
		{DisplayPath: "c", LRA: 9},
	})

	assert.Equal(t, 3, dist.Count)
	assert.InDelta(t, 2.0, dist.Min, 1e-9)
	assert.InDelta(t, 9.0, dist.Max, 1e-9)
	assert.InDelta(t, 5.0, dist.Mean, 1e-9)
	assert.InDelta(t, 4.0, dist.Median, 1e-9)
	assert.InDelta(t, 3.605551, dist.StdDev, 1e-6)
}

func TestFormats(t *testing.T) {
	t.Parallel()

	got := aggregate.Formats([]types.FileEntry{
		{AbsolutePath: "/m/a.mp3"},
		{AbsolutePath: "/m/b.FLAC"},
		{AbsolutePath: "/m/c.flac"},
		{AbsolutePath: "/m/d.wav"},
	})

	want := []aggregate.FormatCount{{"flac", 2}, {"mp3", 1}, {"wav", 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
}
