package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrReportSink is returned when the report can no longer be written.
	// It is the only error that stops a run.
	ErrReportSink = errors.New("report sink is unavailable")
	// ErrRunInterrupted is returned when a run is canceled before completion.
	ErrRunInterrupted = errors.New("run interrupted")
	// ErrInputUnavailable is returned when the input source cannot be read.
	ErrInputUnavailable = errors.New("input source is unavailable")
)

// InputFormatError is returned for a non-empty, non-comment input line that
// is not made of the expected number of words.
type InputFormatError struct {
	Line      int
	WordCount int
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("line %d: invalid word count (%d)", e.Line, e.WordCount)
}
