package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while processing an event.
//
// Runtime errors include:
//   - Missing upstream data: input collection, label list, vertex or weight absent
//   - Duplicate record: an output key written twice in one event
//
// Both indicate broken pipeline wiring and end the run.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Selector names the algorithm instance.
	Selector string

	// Event is the event number.
	Event int64

	// Err is the underlying store error.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeMissingUpstreamData indicates required event data is absent.
	ErrCodeMissingUpstreamData RuntimeErrorCode = "MISSING_UPSTREAM_DATA"

	// ErrCodeDuplicateRecord indicates an output key was already recorded.
	ErrCodeDuplicateRecord RuntimeErrorCode = "DUPLICATE_RECORD"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("%s: %s (selector=%s, event=%d)", e.Code, e.Message, e.Selector, e.Event)
	}
	return fmt.Sprintf("%s: %s (event=%d)", e.Code, e.Message, e.Event)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsMissingUpstreamData returns true if the error reports absent event data.
// Uses errors.As to handle wrapped errors.
func IsMissingUpstreamData(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMissingUpstreamData
	}
	return false
}

// IsDuplicateRecord returns true if the error reports a double write.
// Uses errors.As to handle wrapped errors.
func IsDuplicateRecord(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeDuplicateRecord
	}
	return false
}

func newMissingUpstreamError(selector string, event int64, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeMissingUpstreamData,
		Message:  err.Error(),
		Selector: selector,
		Event:    event,
		Err:      err,
	}
}

func newDuplicateRecordError(selector string, event int64, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeDuplicateRecord,
		Message:  err.Error(),
		Selector: selector,
		Event:    event,
		Err:      err,
	}
}
