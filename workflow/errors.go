// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"fmt"
)

// SubmissionError represents a failure to start a workflow run: a
// transport fault, a rejected request, or a response without a run ID.
type SubmissionError struct {
	Err error
}

// Error returns the error message.
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("workflow submission failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ProcessFailedError represents a run that reached a failed or
// unrecognized terminal status.
type ProcessFailedError struct {
	RunID  string
	Status RunStatus
}

// Error returns the error message.
func (e *ProcessFailedError) Error() string {
	return fmt.Sprintf("workflow run %s failed with status: %s", e.RunID, e.Status)
}

// ProcessTimeoutError represents a run that did not reach a terminal
// status within the attempt ceiling.
type ProcessTimeoutError struct {
	RunID    string
	Attempts int
}

// Error returns the error message.
func (e *ProcessTimeoutError) Error() string {
	return fmt.Sprintf("workflow run %s did not complete within %d attempts", e.RunID, e.Attempts)
}

// ExtractionError represents a terminal run payload that does not carry
// the expected result shape. Callers receive either a complete record or
// this error, never a partially populated one.
type ExtractionError struct {
	Reason string
}

// Error returns the error message.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("workflow result extraction failed: %s", e.Reason)
}
