// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package event provides a bounded queue for task lifecycle events. The
// lifecycle manager enqueues status and artifact updates as it persists
// them; subscribers dequeue in the same order.
package event

import (
	"context"
	"sync"

	"github.com/go-a2a/agents"
)

// DefaultMaxQueueSize is the default maximum queue size.
const DefaultMaxQueueSize = 1024

// Queue is a bounded FIFO of stream events. Events are delivered in
// enqueue order. Once closed, a queue rejects enqueues but still drains
// buffered events to dequeuers.
type Queue struct {
	events     chan agents.StreamEvent
	maxSize    int
	mu         sync.RWMutex
	closed     bool
	closeOnce  sync.Once
	doneSignal chan struct{}
}

// NewQueue creates a new event queue with the specified maximum size.
// If maxSize is 0, DefaultMaxQueueSize is used.
func NewQueue(maxSize int) (*Queue, error) {
	if maxSize < 0 {
		return nil, ErrInvalidQueueSize
	}
	if maxSize == 0 {
		maxSize = DefaultMaxQueueSize
	}

	return &Queue{
		events:     make(chan agents.StreamEvent, maxSize),
		maxSize:    maxSize,
		doneSignal: make(chan struct{}),
	}, nil
}

// Enqueue adds an event to the queue. Returns ErrQueueClosed if the
// queue is closed and ErrQueueFull if the buffer is at capacity.
func (q *Queue) Enqueue(ctx context.Context, event agents.StreamEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.events <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue retrieves an event from the queue.
// If noWait is true, returns immediately with ErrQueueEmpty if the queue
// is empty. Otherwise blocks until an event is available, the queue is
// closed and drained, or the context is canceled.
func (q *Queue) Dequeue(ctx context.Context, noWait bool) (agents.StreamEvent, error) {
	if noWait {
		select {
		case event := <-q.events:
			return event, nil
		default:
			if q.IsClosed() {
				return nil, ErrQueueClosed
			}
			return nil, ErrQueueEmpty
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case event := <-q.events:
		return event, nil
	case <-q.doneSignal:
		// Drain events buffered before the close.
		select {
		case event := <-q.events:
			return event, nil
		default:
			return nil, ErrQueueClosed
		}
	}
}

// Close closes the queue, preventing future enqueues. Buffered events
// remain dequeueable until drained.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		defer q.mu.Unlock()

		q.closed = true
		close(q.doneSignal)
	})
	return nil
}

// IsClosed returns true if the queue is closed.
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Size returns the current number of buffered events.
func (q *Queue) Size() int {
	return len(q.events)
}

// Capacity returns the maximum capacity of the queue.
func (q *Queue) Capacity() int {
	return q.maxSize
}
