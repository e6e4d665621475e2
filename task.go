// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agents

import (
	"fmt"
	"time"
)

// TaskState represents the lifecycle state of a task.
type TaskState string

// Task lifecycle states.
const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateError         TaskState = "error"
)

// Validate ensures the TaskState is one of the enumerated states.
func (s TaskState) Validate() error {
	switch s {
	case TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired, TaskStateCompleted, TaskStateError:
		return nil
	default:
		return fmt.Errorf("invalid task state: %q", s)
	}
}

// IsTerminal reports whether the state ends the task's current turn.
// input-required is terminal for the turn: the task pauses until the
// caller sends another message on the same session.
func (s TaskState) IsTerminal() bool {
	return s == TaskStateCompleted || s == TaskStateError || s == TaskStateInputRequired
}

// CanTransition reports whether a task may move from s to next.
//
// Status transitions only move forward under the partial order
// submitted < working < {completed, error, input-required}, except that
// any non-terminal state may move to error, and input-required may start
// a new turn as submitted.
func (s TaskState) CanTransition(next TaskState) bool {
	if s == next {
		return true
	}
	switch s {
	case TaskStateSubmitted:
		return next == TaskStateWorking || next == TaskStateError
	case TaskStateWorking:
		return next == TaskStateCompleted || next == TaskStateError || next == TaskStateInputRequired
	case TaskStateInputRequired:
		// New caller turn on the same task.
		return next == TaskStateSubmitted
	default:
		return false
	}
}

// TaskStatus represents the current status of a task, optionally carrying
// a human-readable agent message.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitzero"`
	Timestamp string    `json:"timestamp,omitzero"`
}

// Validate ensures the TaskStatus is valid.
func (ts TaskStatus) Validate() error {
	if err := ts.State.Validate(); err != nil {
		return err
	}
	if ts.Message != nil {
		if err := ts.Message.Validate(); err != nil {
			return fmt.Errorf("status message is invalid: %w", err)
		}
	}
	return nil
}

// NewTaskStatus creates a TaskStatus for the given state with the current
// timestamp. text, when non-empty, becomes an agent message on the status.
func NewTaskStatus(state TaskState, text string) TaskStatus {
	status := TaskStatus{
		State:     state,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if text != "" {
		status.Message = NewAgentTextMessage(text)
	}
	return status
}

// Task represents one unit of agent work with a lifecycle status and
// accumulated artifacts.
type Task struct {
	// ID is the task identifier. It is immutable once the task is created.
	ID string `json:"id"`

	// SessionID groups related tasks and correlates multi-turn
	// conversations with a stateful agent backend.
	SessionID string `json:"sessionId,omitzero"`

	// Status is the current lifecycle status.
	Status TaskStatus `json:"status"`

	// Message is the originating caller message for the current turn.
	Message *Message `json:"message,omitzero"`

	// Artifacts holds the output units produced by the agent.
	Artifacts []*Artifact `json:"artifacts,omitzero"`

	// Metadata holds optional caller-defined metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Task is valid.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if err := t.Status.Validate(); err != nil {
		return fmt.Errorf("task status is invalid: %w", err)
	}
	if t.Message != nil {
		if err := t.Message.Validate(); err != nil {
			return fmt.Errorf("task message is invalid: %w", err)
		}
	}
	for i, artifact := range t.Artifacts {
		if artifact == nil {
			return fmt.Errorf("artifact at index %d cannot be nil", i)
		}
		if err := artifact.Validate(); err != nil {
			return fmt.Errorf("artifact at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewSubmittedTask creates a Task in the submitted state from send
// parameters. Missing task and session ids are generated.
func NewSubmittedTask(params *SendTaskParams) (*Task, error) {
	if params == nil {
		return nil, fmt.Errorf("params cannot be nil")
	}
	if params.Message == nil {
		return nil, fmt.Errorf("params message cannot be nil")
	}
	if err := params.Message.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request message: %w", err)
	}

	taskID := params.ID
	if taskID == "" {
		taskID = GenerateID()
	}
	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = GenerateID()
	}

	return &Task{
		ID:        taskID,
		SessionID: sessionID,
		Status:    NewTaskStatus(TaskStateSubmitted, ""),
		Message:   params.Message,
		Metadata:  params.Metadata,
	}, nil
}

// SendTaskParams carries the parameters of a send or subscribe request.
type SendTaskParams struct {
	// ID is the caller-supplied task identifier. Generated when empty.
	ID string `json:"id,omitzero"`

	// SessionID is the caller-supplied session correlation key.
	// Generated when empty.
	SessionID string `json:"sessionId,omitzero"`

	// Message is the user message to process.
	Message *Message `json:"message"`

	// AcceptedOutputModes lists the content types the caller can consume.
	// Empty means any.
	AcceptedOutputModes []string `json:"acceptedOutputModes,omitzero"`

	// Metadata holds optional caller-defined metadata.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the SendTaskParams are valid.
func (p *SendTaskParams) Validate() error {
	if p.Message == nil {
		return fmt.Errorf("message cannot be nil")
	}
	return p.Message.Validate()
}

// AreModalitiesCompatible reports whether the accepted output modes of a
// request overlap the content types an agent can produce.
//
// An empty accepted list means the caller takes anything.
func AreModalitiesCompatible(accepted, supported []string) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, a := range accepted {
		for _, s := range supported {
			if a == s {
				return true
			}
		}
	}
	return false
}
