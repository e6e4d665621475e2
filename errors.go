// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agents

import (
	"fmt"
)

// Error codes for the task lifecycle protocol. The numbering follows the
// A2A JSON-RPC error space.
const (
	ErrorCodeTaskNotFound          = -32001
	ErrorCodeUnsupportedOperation  = -32004
	ErrorCodeContentTypeNotSupport = -32005
	ErrorCodeInternalError         = -32603
)

// LifecycleError represents a typed error in the task lifecycle protocol.
type LifecycleError interface {
	error
	Code() int
}

// TaskNotFoundError represents an error when a task is not found.
type TaskNotFoundError struct {
	TaskID string
}

// Error returns the error message.
func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// Code returns the protocol error code.
func (e TaskNotFoundError) Code() int {
	return ErrorCodeTaskNotFound
}

// IncompatibleModalityError represents a precondition failure: the
// request's accepted output modes do not overlap the agent's supported
// content types. No task state is created or mutated.
type IncompatibleModalityError struct {
	Accepted  []string
	Supported []string
}

// Error returns the error message.
func (e IncompatibleModalityError) Error() string {
	return fmt.Sprintf("incompatible output modes: accepted %v, supported %v", e.Accepted, e.Supported)
}

// Code returns the protocol error code.
func (e IncompatibleModalityError) Code() int {
	return ErrorCodeContentTypeNotSupport
}

// UnsupportedOperationError represents a request for a capability the
// agent backend does not implement, such as streaming on a synchronous
// only backend.
type UnsupportedOperationError struct {
	Operation string
}

// Error returns the error message.
func (e UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation not supported: %s", e.Operation)
}

// Code returns the protocol error code.
func (e UnsupportedOperationError) Code() int {
	return ErrorCodeUnsupportedOperation
}

// UnsupportedPartError represents a message part kind the lifecycle does
// not recognize.
type UnsupportedPartError struct {
	Kind string
}

// Error returns the error message.
func (e UnsupportedPartError) Error() string {
	if e.Kind == "" {
		return "unsupported message part kind"
	}
	return fmt.Sprintf("unsupported message part kind: %q", e.Kind)
}

// Code returns the protocol error code.
func (e UnsupportedPartError) Code() int {
	return ErrorCodeContentTypeNotSupport
}
