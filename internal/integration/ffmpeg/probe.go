package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/lrascan/internal/integration/binary"
)

// CheckAvailability runs "<bin> -version" and returns the reported version (empty if it cannot be parsed).
// A missing binary or a non-zero exit wraps fault.ErrMissingRequirements.
func CheckAvailability(ctx context.Context, bin string) (string, error) {
	if bin == "" {
		bin = name
	}

	slog.Debug("ffmpeg.CheckAvailability", "binary", bin)

	binPath, err := binary.Require(bin)
	if err != nil {
		return "", fmt.Errorf("%w (%s)", err, installHint)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binPath, "-version")

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w: %s -version after %v", fault.ErrMissingRequirements, fault.ErrTimeout,
				bin, probeTimeout)
		}

		return "", fmt.Errorf("%w: %s is present but does not run (%s): %w",
			fault.ErrMissingRequirements, binPath, excerpt(stderr.String(), failureExcerptLines), err)
	}

	return ExtractVersion(output), nil
}

// ExtractVersion parses "<name> version <X> ..." from the first line of -version output.
func ExtractVersion(output []byte) string {
	first, _, _ := strings.Cut(string(output), "\n")

	fields := strings.Fields(first)
	if len(fields) >= 3 && fields[1] == "version" {
		return fields[2]
	}

	return ""
}
