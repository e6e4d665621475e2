// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"

	"github.com/go-a2a/agents"
)

// UnsupportedStream returns the channel pair a non-streaming backend
// hands out from Stream: an immediately failed stream carrying
// UnsupportedOperationError. The surrounding server routes only
// compatible request kinds to such a backend; this keeps the contract
// total for the ones that slip through.
func UnsupportedStream() (<-chan Result, <-chan error) {
	results := make(chan Result)
	errs := make(chan error, 1)
	errs <- agents.UnsupportedOperationError{Operation: "stream"}
	close(results)
	close(errs)
	return results, errs
}

// NonStreaming is an embeddable marker for backends that only implement
// Invoker. Its Stream always fails with UnsupportedOperationError.
type NonStreaming struct{}

// Stream reports that the backend does not support streaming.
func (NonStreaming) Stream(ctx context.Context, query, sessionID string) (<-chan Result, <-chan error) {
	return UnsupportedStream()
}

// InvokeAsStream adapts a synchronous Invoker into the streaming shape:
// a single terminal result (or error) on freshly created channels. Used
// by backends that want to expose both capabilities without duplicating
// the invoke path.
func InvokeAsStream(ctx context.Context, inv Invoker, query, sessionID string) (<-chan Result, <-chan error) {
	results := make(chan Result, 1)
	errs := make(chan error, 1)
	go func() {
		defer close(results)
		defer close(errs)

		result, err := inv.Invoke(ctx, query, sessionID)
		if err != nil {
			errs <- err
			return
		}
		select {
		case results <- *result:
		case <-ctx.Done():
		}
	}()
	return results, errs
}
