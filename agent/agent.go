// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent defines the contract between the task lifecycle manager
// and a concrete agent backend (an LLM crew, a graph agent, a remote
// workflow). Backends implement Invoker and, when capable, Streamer; the
// lifecycle manager never looks behind these interfaces.
package agent

import (
	"context"
	"fmt"
)

// Result is one notification produced by an agent backend.
//
// During streaming, the first Result with IsComplete or RequireUserInput
// set is terminal; the lifecycle manager stops consuming after it.
type Result struct {
	// Content is the human-readable output of this notification.
	Content string

	// RequireUserInput signals the agent needs another caller turn.
	RequireUserInput bool

	// IsComplete signals the agent finished the task.
	IsComplete bool
}

// Terminal reports whether this result ends the agent call.
func (r Result) Terminal() bool {
	return r.IsComplete || r.RequireUserInput
}

// Invoker is the synchronous agent capability: one query in, one result out.
type Invoker interface {
	// Invoke runs the query to completion for the given session and
	// returns the single terminal result. Failures are reported as
	// *AdapterError.
	Invoke(ctx context.Context, query, sessionID string) (*Result, error)

	// SupportedContentTypes returns the content types this backend can
	// produce, checked against a request's accepted output modes.
	SupportedContentTypes() []string
}

// Streamer is the progressive agent capability: zero or more intermediate
// results followed by exactly one terminal result.
type Streamer interface {
	// Stream starts the query and returns a result channel and an error
	// channel. The result channel is closed after the terminal result or
	// when ctx is canceled; at most one error is sent on the error
	// channel, after which both channels are closed.
	Stream(ctx context.Context, query, sessionID string) (<-chan Result, <-chan error)
}

// Agent combines the synchronous and streaming capabilities.
type Agent interface {
	Invoker
	Streamer
}

// AdapterError wraps a failure of the agent backend: network, parsing, or
// a backend-reported error. The lifecycle manager converts it into a
// terminal error task state instead of letting it escape as a transport
// fault.
type AdapterError struct {
	// Op names the failed backend operation.
	Op string

	// Err is the underlying cause.
	Err error
}

// Error returns the error message.
func (e *AdapterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("agent %s failed", e.Op)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError creates an AdapterError for the given operation.
func NewAdapterError(op string, err error) *AdapterError {
	return &AdapterError{Op: op, Err: err}
}
