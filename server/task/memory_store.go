// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-a2a/agents"
)

// InMemoryTaskStore is an in-memory implementation of TaskStore. Task
// data is lost when the process stops.
//
// Writes to the same task ID are serialized through a per-key mutex, not
// a global lock, so a streaming send on one task never blocks writes for
// unrelated tasks. Reads and writes exchange deep copies, so a stored
// task is never mutated through a reference the caller retains.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*agents.Task

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

var _ TaskStore = (*InMemoryTaskStore)(nil)

// NewInMemoryTaskStore creates a new InMemoryTaskStore.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*agents.Task),
		locks: make(map[string]*sync.Mutex),
	}
}

// keyLock returns the write mutex for a task ID, creating it on first use.
func (s *InMemoryTaskStore) keyLock(taskID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.locks[taskID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[taskID] = lock
	}
	return lock
}

// Save persists a task to the in-memory storage.
//
// The deep copy and the map publish both happen under the task's key
// lock, so concurrent writers to one ID publish whole snapshots in
// order and never interleave field-by-field. Key locks are kept for
// the store's lifetime, matching the store contract of no task
// deletion.
func (s *InMemoryTaskStore) Save(ctx context.Context, task *agents.Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return NewTaskValidationError(task.ID, err)
	}

	lock := s.keyLock(task.ID)
	lock.Lock()
	defer lock.Unlock()

	taskCopy := copyTask(task)

	s.mu.Lock()
	s.tasks[task.ID] = taskCopy
	s.mu.Unlock()

	return nil
}

// Get retrieves a task by its ID from the in-memory storage.
func (s *InMemoryTaskStore) Get(ctx context.Context, taskID string) (*agents.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	s.mu.RLock()
	task, exists := s.tasks[taskID]
	s.mu.RUnlock()

	if !exists {
		return nil, agents.TaskNotFoundError{TaskID: taskID}
	}
	return copyTask(task), nil
}

// List retrieves tasks, optionally filtered by session ID.
func (s *InMemoryTaskStore) List(ctx context.Context, sessionID string, limit, offset int) ([]*agents.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*agents.Task
	skipped := 0
	for _, task := range s.tasks {
		if sessionID != "" && task.SessionID != sessionID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(tasks) >= limit {
			break
		}
		tasks = append(tasks, copyTask(task))
	}
	return tasks, nil
}

// Count returns the number of stored tasks, optionally filtered by
// session ID.
func (s *InMemoryTaskStore) Count(ctx context.Context, sessionID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sessionID == "" {
		return int64(len(s.tasks)), nil
	}
	count := int64(0)
	for _, task := range s.tasks {
		if task.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// Initialize prepares the in-memory storage for use.
func (s *InMemoryTaskStore) Initialize(ctx context.Context) error {
	return nil
}

// Close cleanly shuts down the in-memory storage.
func (s *InMemoryTaskStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*agents.Task)
	return nil
}

// Size returns the current number of stored tasks. Useful for tests.
func (s *InMemoryTaskStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// copyTask creates a deep copy of a task so readers and writers never
// share mutable state.
func copyTask(task *agents.Task) *agents.Task {
	if task == nil {
		return nil
	}

	cp := &agents.Task{
		ID:        task.ID,
		SessionID: task.SessionID,
		Status: agents.TaskStatus{
			State:     task.Status.State,
			Message:   copyMessage(task.Status.Message),
			Timestamp: task.Status.Timestamp,
		},
		Message:  copyMessage(task.Message),
		Metadata: copyMetadata(task.Metadata),
	}

	if task.Artifacts != nil {
		cp.Artifacts = make([]*agents.Artifact, len(task.Artifacts))
		for i, artifact := range task.Artifacts {
			if artifact == nil {
				continue
			}
			cp.Artifacts[i] = &agents.Artifact{
				ArtifactID: artifact.ArtifactID,
				Name:       artifact.Name,
				Parts:      copyParts(artifact.Parts),
				Metadata:   copyMetadata(artifact.Metadata),
			}
		}
	}

	return cp
}

func copyMessage(message *agents.Message) *agents.Message {
	if message == nil {
		return nil
	}
	return &agents.Message{
		Role:  message.Role,
		Parts: copyParts(message.Parts),
	}
}

// copyParts copies the part slice. Parts themselves are treated as
// immutable once wrapped, so the wrappers are shared.
func copyParts(parts []*agents.PartWrapper) []*agents.PartWrapper {
	if parts == nil {
		return nil
	}
	cp := make([]*agents.PartWrapper, len(parts))
	copy(cp, parts)
	return cp
}

func copyMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	cp := make(map[string]any, len(metadata))
	for k, v := range metadata {
		cp[k] = v
	}
	return cp
}
