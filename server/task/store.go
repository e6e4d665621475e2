// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides task persistence for the lifecycle manager: the
// TaskStore contract, an in-memory implementation with per-task write
// serialization, a GORM-backed database implementation, and the push
// notification configuration store and sender.
package task

import (
	"context"

	"github.com/go-a2a/agents"
)

// TaskStore defines the interface for task persistence operations.
//
// Save is an idempotent, last-write-wins upsert keyed by task ID; the
// caller supplies a full, already-merged task, never a partial record.
// Concurrent saves of the same task ID are serialized per key, so a
// reader always observes a complete task snapshot. There is no eviction
// or deletion; tasks live for the process (or database) lifetime.
type TaskStore interface {
	// Save persists a task. An existing task with the same ID is
	// replaced.
	Save(ctx context.Context, task *agents.Task) error

	// Get retrieves a task by its ID. Returns agents.TaskNotFoundError
	// if the task doesn't exist.
	Get(ctx context.Context, taskID string) (*agents.Task, error)

	// List retrieves tasks, optionally filtered by session ID.
	List(ctx context.Context, sessionID string, limit, offset int) ([]*agents.Task, error)

	// Count returns the number of stored tasks, optionally filtered by
	// session ID.
	Count(ctx context.Context, sessionID string) (int64, error)

	// Initialize prepares the storage backend for use.
	Initialize(ctx context.Context) error

	// Close cleanly shuts down the storage backend.
	Close(ctx context.Context) error
}
