// Package store persists loudness range results as a line-oriented text file:
//
//	<header>
//	<display path> - <lra, one decimal>
//	...
//
// Every write replaces the whole file.
package store

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/lrascan/internal/types"
)

// DefaultHeader is the first line of a result file.
const DefaultHeader = "File Path (relative) - LRA (LU)"

const separator = " - "

var (
	// ErrMalformedLine is returned for lines without the " - " separator.
	ErrMalformedLine = errors.New("malformed result line")
	// ErrInvalidValue is returned when the value is not a finite, non-negative number.
	ErrInvalidValue = errors.New("invalid LRA value")
)

// FormatLine renders a record as stored on disk.
func FormatLine(record types.Record) string {
	return fmt.Sprintf("%s%s%.1f", record.DisplayPath, separator, record.LRA)
}

// ParseLine splits a result line on its last " - " separator.
func ParseLine(line string) (types.Record, error) {
	path, raw, found := cutLast(line, separator)
	if !found {
		return types.Record{}, fmt.Errorf("%w: %q (expected \"<path>%s<lra>\")", ErrMalformedLine, line, separator)
	}

	raw = strings.TrimSpace(raw)

	lra, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.Record{}, fmt.Errorf("%w: %q: %w", ErrInvalidValue, raw, err)
	}

	if math.IsNaN(lra) || math.IsInf(lra, 0) || lra < 0 {
		return types.Record{}, fmt.Errorf("%w: %q must be finite and non-negative", ErrInvalidValue, raw)
	}

	return types.Record{DisplayPath: path, LRA: lra}, nil
}

func cutLast(s, sep string) (string, string, bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}

	return s[:idx], s[idx+len(sep):], true
}

// SortRecords orders records by LRA descending, then by display path ascending. It sorts in place.
func SortRecords(records []types.Record) {
	slices.SortStableFunc(records, func(a, b types.Record) int {
		if c := cmp.Compare(b.LRA, a.LRA); c != 0 {
			return c
		}

		return strings.Compare(a.DisplayPath, b.DisplayPath)
	})
}

// Write replaces the file at path with header followed by one line per record, in the given order.
// The content is written to a temporary file in the same directory and renamed over path, so readers never
// observe a partial file. An existing file keeps its permissions; a new one is created 0644.
func Write(path, header string, records []types.Record) error {
	slog.Debug("store.Write", "path", path, "records", len(records))

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating result file: %w", err)
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	writer := bufio.NewWriter(tmp)

	if _, err = fmt.Fprintln(writer, header); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}

	for _, record := range records {
		if _, err = fmt.Fprintln(writer, FormatLine(record)); err != nil {
			return fmt.Errorf("writing result file: %w", err)
		}
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}

	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing result file: %w", err)
	}

	committed = true

	return nil
}

// LineError describes a data line that could not be parsed. Line is 1-based.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Read parses a result file. The first line is the header and is always skipped; blank lines are ignored.
// Lines that fail to parse are returned separately and do not make Read fail.
func Read(path string) ([]types.Record, []LineError, error) {
	file, err := os.Open(path) //nolint:gosec // result file path is user-provided by design
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	var (
		records []types.Record
		skipped []LineError
		lineNum int
	)

	scanner := bufio.NewScanner(file)

	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		lineNum++

		if lineNum == 1 {
			continue
		}

		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := ParseLine(line)
		if err != nil {
			skipped = append(skipped, LineError{Line: lineNum, Err: err})

			continue
		}

		records = append(records, record)
	}

	if err = scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return records, skipped, nil
}

// SortResult reports what Sort kept and dropped.
type SortResult struct {
	Kept    int
	Skipped []LineError
}

// Sort reads the result file at path, drops (with a warning) lines that do not parse, and rewrites it with header
// followed by the records ordered by LRA descending then path ascending. An empty file is left untouched.
func Sort(path, header string) (SortResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SortResult{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	if info.Size() == 0 {
		return SortResult{}, nil
	}

	records, skipped, err := Read(path)
	if err != nil {
		return SortResult{}, err
	}

	for _, lineErr := range skipped {
		slog.Warn("skipping result line", "path", path, "line", lineErr.Line, "error", lineErr.Err)
	}

	SortRecords(records)

	if err = Write(path, header, records); err != nil {
		return SortResult{}, err
	}

	return SortResult{Kept: len(records), Skipped: skipped}, nil
}
