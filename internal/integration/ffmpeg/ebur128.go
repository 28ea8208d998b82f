package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/lrascan/internal/integration/binary"
	"github.com/farcloser/lrascan/internal/types"
)

var (
	// ErrNoLoudnessRange is returned when the analyzer output carries no LRA summary.
	ErrNoLoudnessRange = errors.New("no LRA value in analyzer output")
	// ErrInvalidLoudnessRange is returned when the LRA text is not a finite, non-negative number.
	ErrInvalidLoudnessRange = errors.New("invalid LRA value")
)

var lraPattern = regexp.MustCompile(`LRA:\s*([\d.\-]+)\s*LU`)

// Analyzer measures the EBU R128 loudness range of a file by running ffmpeg's ebur128 filter.
// The zero value uses "ffmpeg" from PATH and no timeout.
type Analyzer struct {
	// Binary is the analyzer executable name or path.
	Binary string
	// Timeout bounds a single invocation. Zero means the process runs until it exits on its own.
	Timeout time.Duration
}

func (a Analyzer) binaryName() string {
	if a.Binary == "" {
		return name
	}

	return a.Binary
}

// Analyze runs the analyzer on filePath and returns the loudness range in LU.
// Errors wrap one of the types kind sentinels, except an interrupted run which carries the context error only.
func (a Analyzer) Analyze(ctx context.Context, filePath string) (float64, error) {
	slog.Debug("ffmpeg.Analyze", "file path", filePath, "stage", "start")

	info, err := os.Stat(filePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w: %w", types.ErrFileAccess, fault.ErrReadFailure, err)
	}

	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %w: %s is not a regular file", types.ErrFileAccess, fault.ErrReadFailure, filePath)
	}

	ffmpegPath, err := binary.Require(a.binaryName())
	if err != nil {
		return 0, fmt.Errorf("%w: %w (%s)", types.ErrAnalyzerExecution, err, installHint)
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	//nolint:gosec // filePath is a discovered audio file, passed as a single argument without shell interpolation
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", filePath,
		"-filter_complex", filter,
		"-f", "null",
		"-hide_banner",
		"-loglevel", "info",
		"-",
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.Analyze", "file path", filePath, "stage", "timeout")

			return 0, fmt.Errorf("%w: %w: after %v", types.ErrAnalyzerExecution, fault.ErrTimeout, a.Timeout)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("analysis interrupted: %w", ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Debug("ffmpeg.Analyze", "file path", filePath, "stage", "error", "exit code", exitErr.ExitCode())

			return 0, fmt.Errorf("%w: %w: exit code %d: %s",
				types.ErrAnalyzerExecution, fault.ErrCommandFailure,
				exitErr.ExitCode(), excerpt(stderr.String(), failureExcerptLines))
		}

		slog.Debug("ffmpeg.Analyze", "file path", filePath, "stage", "spawn failure")

		return 0, fmt.Errorf("%w: %w: could not start %s: %w (%s)",
			types.ErrAnalyzerExecution, fault.ErrCommandFailure, ffmpegPath, err, installHint)
	}

	lra, err := ParseLRA(stderr.String())
	if err != nil {
		return 0, err
	}

	slog.Debug("ffmpeg.Analyze", "file path", filePath, "stage", "done", "lra", lra)

	return lra, nil
}

// ParseLRA extracts the loudness range from ebur128 diagnostic output. When the value appears more than once
// (interim and final summaries), the last occurrence wins.
func ParseLRA(output string) (float64, error) {
	matches := lraPattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf(
			"%w: %w (the file may be too short or corrupt, in an unsupported format, "+
				"or the analyzer version may be incompatible); output: %s",
			types.ErrValueParsing, ErrNoLoudnessRange, excerpt(output, parsingExcerptLines))
	}

	raw := matches[len(matches)-1][1]

	lra, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w %q: %w", types.ErrValueParsing, ErrInvalidLoudnessRange, raw, err)
	}

	if math.IsNaN(lra) || math.IsInf(lra, 0) || lra < 0 {
		return 0, fmt.Errorf("%w: %w %q: must be finite and non-negative",
			types.ErrValueParsing, ErrInvalidLoudnessRange, raw)
	}

	return lra, nil
}

// excerpt joins the first n non-blank lines of output.
func excerpt(output string, n int) string {
	lines := make([]string, 0, n)

	for line := range strings.Lines(output) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}

	if len(lines) == 0 {
		return "(no output)"
	}

	return strings.Join(lines, "; ")
}
