package types

import (
	"errors"
	"fmt"
)

// FileEntry is a discovered audio file.
type FileEntry struct {
	AbsolutePath string
	// DisplayPath is relative to the scan root, and is the on-disk record key.
	DisplayPath string
}

// ErrorKind classifies a per-file failure.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindAnalyzerExecution
	KindValueParsing
	KindFileAccess
)

func (k ErrorKind) String() string {
	switch k {
	case KindAnalyzerExecution:
		return "analyzer-execution"
	case KindValueParsing:
		return "value-parsing"
	case KindFileAccess:
		return "file-access"
	default:
		return "other"
	}
}

// Description is the human readable label used in failure reports.
func (k ErrorKind) Description() string {
	switch k {
	case KindAnalyzerExecution:
		return "analyzer execution failed"
	case KindValueParsing:
		return "LRA parsing failed"
	case KindFileAccess:
		return "file access failed"
	default:
		return "other error"
	}
}

// Structured failure kinds. Analyzers wrap exactly one of these so that classification never depends on
// message wording.
var (
	ErrAnalyzerExecution = errors.New("analyzer execution failed")
	ErrValueParsing      = errors.New("value parsing failed")
	ErrFileAccess        = errors.New("file access failed")
)

// KindOf maps an analyzer error to its ErrorKind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindOther
	case errors.Is(err, ErrFileAccess):
		return KindFileAccess
	case errors.Is(err, ErrAnalyzerExecution):
		return KindAnalyzerExecution
	case errors.Is(err, ErrValueParsing):
		return KindValueParsing
	default:
		return KindOther
	}
}

// Outcome is the per-file result of an analysis: either a success carrying the loudness range, or a classified
// failure. Err is nil on success.
type Outcome struct {
	DisplayPath string
	LRA         float64
	Err         error
	Kind        ErrorKind
}

// Success builds a successful outcome.
func Success(displayPath string, lra float64) Outcome {
	return Outcome{DisplayPath: displayPath, LRA: lra}
}

// Failure builds a failed outcome, classifying err.
func Failure(displayPath string, err error) Outcome {
	return Outcome{DisplayPath: displayPath, Err: err, Kind: KindOf(err)}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Message is the failure message, or an empty string on success.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}

	return o.Err.Error()
}

func (o Outcome) String() string {
	if o.OK() {
		return fmt.Sprintf("%s: %.1f LU", o.DisplayPath, o.LRA)
	}

	return fmt.Sprintf("%s [%s]: %s", o.DisplayPath, o.Kind.Description(), o.Message())
}

// Record is a persisted result. LRA must be finite and non-negative.
type Record struct {
	DisplayPath string
	LRA         float64
}
