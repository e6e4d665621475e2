// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agents

import (
	"fmt"
)

// StreamEvent represents an incremental notification delivered during a
// streaming send: either a status update or an artifact update.
type StreamEvent interface {
	// GetTaskID returns the task ID this event is for.
	GetTaskID() string

	// Validate ensures the event is in a valid state.
	Validate() error
}

// TaskStatusUpdateEvent notifies a subscriber of a task status change.
// Final is true only on the last event of a stream; no further events
// follow it.
type TaskStatusUpdateEvent struct {
	TaskID string     `json:"id"`
	Status TaskStatus `json:"status"`
	Final  bool       `json:"final"`
}

var _ StreamEvent = (*TaskStatusUpdateEvent)(nil)

// GetTaskID returns the task ID this event is for.
func (e *TaskStatusUpdateEvent) GetTaskID() string {
	return e.TaskID
}

// Validate ensures the TaskStatusUpdateEvent is valid.
func (e *TaskStatusUpdateEvent) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("status update event task ID cannot be empty")
	}
	return e.Status.Validate()
}

// String returns a string representation of the event.
func (e *TaskStatusUpdateEvent) String() string {
	return fmt.Sprintf("TaskStatusUpdateEvent{TaskID: %s, State: %s, Final: %t}",
		e.TaskID, e.Status.State, e.Final)
}

// TaskArtifactUpdateEvent notifies a subscriber of a new task artifact.
type TaskArtifactUpdateEvent struct {
	TaskID   string    `json:"id"`
	Artifact *Artifact `json:"artifact"`
}

var _ StreamEvent = (*TaskArtifactUpdateEvent)(nil)

// GetTaskID returns the task ID this event is for.
func (e *TaskArtifactUpdateEvent) GetTaskID() string {
	return e.TaskID
}

// Validate ensures the TaskArtifactUpdateEvent is valid.
func (e *TaskArtifactUpdateEvent) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("artifact update event task ID cannot be empty")
	}
	if e.Artifact == nil {
		return fmt.Errorf("artifact update event artifact cannot be nil")
	}
	return e.Artifact.Validate()
}

// String returns a string representation of the event.
func (e *TaskArtifactUpdateEvent) String() string {
	return fmt.Sprintf("TaskArtifactUpdateEvent{TaskID: %s}", e.TaskID)
}

// IsFinalEvent reports whether an event closes its stream.
func IsFinalEvent(event StreamEvent) bool {
	if e, ok := event.(*TaskStatusUpdateEvent); ok {
		return e.Final
	}
	return false
}
