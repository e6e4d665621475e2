// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package event

import "errors"

var (
	// ErrQueueClosed is returned when operating on a closed queue.
	ErrQueueClosed = errors.New("event queue is closed")

	// ErrQueueFull is returned when enqueueing to a full queue.
	ErrQueueFull = errors.New("event queue is full")

	// ErrQueueEmpty is returned by a non-blocking dequeue on an empty
	// queue.
	ErrQueueEmpty = errors.New("event queue is empty")

	// ErrInvalidQueueSize is returned when creating a queue with a
	// negative size.
	ErrInvalidQueueSize = errors.New("queue size cannot be negative")
)
