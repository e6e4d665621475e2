// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/agents"
)

func newTestTask(id string) *agents.Task {
	return &agents.Task{
		ID:        id,
		SessionID: "session-1",
		Status:    agents.NewTaskStatus(agents.TaskStateSubmitted, ""),
		Message:   agents.NewUserTextMessage("hello"),
	}
}

func TestInMemoryTaskStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	want := newTestTask("task-1")
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(want.ID, got.ID); diff != "" {
		t.Errorf("Task ID mismatch (-want +got):\n%s", diff)
	}
	if got.Status.State != agents.TaskStateSubmitted {
		t.Errorf("Expected state %q, got %q", agents.TaskStateSubmitted, got.Status.State)
	}
}

func TestInMemoryTaskStore_GetNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	_, err := store.Get(ctx, "missing")
	if err == nil {
		t.Fatal("Expected error for missing task")
	}

	var notFound agents.TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected TaskNotFoundError, got %T: %v", err, err)
	}
	if notFound.TaskID != "missing" {
		t.Errorf("Expected task ID %q, got %q", "missing", notFound.TaskID)
	}
}

func TestInMemoryTaskStore_UpsertLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	task := newTestTask("task-1")
	if err := store.Save(ctx, task); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	task.Status = agents.NewTaskStatus(agents.TaskStateCompleted, "")
	if err := store.Save(ctx, task); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status.State != agents.TaskStateCompleted {
		t.Errorf("Expected state %q after upsert, got %q", agents.TaskStateCompleted, got.Status.State)
	}
	if store.Size() != 1 {
		t.Errorf("Expected 1 stored task, got %d", store.Size())
	}
}

func TestInMemoryTaskStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	if err := store.Save(ctx, newTestTask("task-1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	first, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	first.Status.State = agents.TaskStateError
	first.Artifacts = append(first.Artifacts, agents.NewTextArtifact("mutated"))

	second, err := store.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if second.Status.State != agents.TaskStateSubmitted {
		t.Errorf("Stored task was mutated through a returned reference: state %q", second.Status.State)
	}
	if len(second.Artifacts) != 0 {
		t.Errorf("Stored task gained %d artifacts through a returned reference", len(second.Artifacts))
	}
}

func TestInMemoryTaskStore_SaveValidates(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	err := store.Save(ctx, &agents.Task{Status: agents.TaskStatus{State: agents.TaskStateSubmitted}})
	if err == nil {
		t.Fatal("Expected error for task without ID")
	}

	var validation TaskValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Expected TaskValidationError, got %T: %v", err, err)
	}

	if err := store.Save(ctx, nil); err == nil {
		t.Error("Expected error for nil task")
	}
}

func TestInMemoryTaskStore_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	const writers = 16
	const rounds = 50

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			taskID := fmt.Sprintf("task-%d", w%4)
			for range rounds {
				task := newTestTask(taskID)
				task.Status = agents.NewTaskStatus(agents.TaskStateWorking, "")
				if err := store.Save(ctx, task); err != nil {
					t.Errorf("Save() error = %v", err)
					return
				}
				if _, err := store.Get(ctx, taskID); err != nil {
					t.Errorf("Get() error = %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if store.Size() != 4 {
		t.Errorf("Expected 4 stored tasks, got %d", store.Size())
	}
}

func TestInMemoryTaskStore_ConcurrentSavesKeepSnapshotsWhole(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	const writers = 8
	const rounds = 100

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			tag := fmt.Sprintf("writer-%d", w)
			for range rounds {
				task := newTestTask("task-1")
				task.SessionID = tag
				task.Status = agents.NewTaskStatus(agents.TaskStateWorking, tag)
				if err := store.Save(ctx, task); err != nil {
					t.Errorf("Save() error = %v", err)
					return
				}
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for reading := true; reading; {
		select {
		case <-done:
			reading = false
		default:
		}
		got, err := store.Get(ctx, "task-1")
		if err != nil {
			continue
		}
		if msg := agents.GetMessageText(got.Status.Message, "\n"); msg != got.SessionID {
			t.Fatalf("Torn snapshot: session %q but status message %q", got.SessionID, msg)
		}
	}
}

func TestInMemoryTaskStore_ListAndCount(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	for i := range 5 {
		task := newTestTask(fmt.Sprintf("task-%d", i))
		if i >= 3 {
			task.SessionID = "session-2"
		}
		if err := store.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	all, err := store.List(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected 5 tasks, got %d", len(all))
	}

	filtered, err := store.List(ctx, "session-2", 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("Expected 2 tasks for session-2, got %d", len(filtered))
	}

	count, err := store.Count(ctx, "session-1")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3 for session-1, got %d", count)
	}

	limited, err := store.List(ctx, "", 2, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 tasks with limit, got %d", len(limited))
	}
}

func TestInMemoryTaskStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTaskStore()

	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := store.Save(ctx, newTestTask("task-1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if store.Size() != 0 {
		t.Errorf("Expected empty store after Close, got %d tasks", store.Size())
	}
}
