// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/agents"
)

func TestInMemoryPushNotificationConfigStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryPushNotificationConfigStore()

	config := &agents.PushNotificationConfig{URL: "https://example.com/hook", Token: "t1"}
	if err := store.SetInfo(ctx, "task-1", config); err != nil {
		t.Fatalf("SetInfo() error = %v", err)
	}

	configs, err := store.GetInfo(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if len(configs) != 1 || configs[0].URL != config.URL {
		t.Fatalf("GetInfo() = %+v, want one config for %q", configs, config.URL)
	}

	// Same URL replaces, not duplicates.
	if err := store.SetInfo(ctx, "task-1", &agents.PushNotificationConfig{URL: config.URL, Token: "t2"}); err != nil {
		t.Fatalf("SetInfo() error = %v", err)
	}
	configs, err = store.GetInfo(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 config after re-registration, got %d", len(configs))
	}
	if configs[0].Token != "t2" {
		t.Errorf("Expected replaced token %q, got %q", "t2", configs[0].Token)
	}

	if err := store.DeleteInfo(ctx, "task-1"); err != nil {
		t.Fatalf("DeleteInfo() error = %v", err)
	}
	configs, err = store.GetInfo(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if len(configs) != 0 {
		t.Errorf("Expected no configs after delete, got %d", len(configs))
	}
}

func TestInMemoryPushNotificationConfigStore_Invalid(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryPushNotificationConfigStore()

	if err := store.SetInfo(ctx, "", &agents.PushNotificationConfig{URL: "https://example.com"}); err == nil {
		t.Error("Expected error for empty task ID")
	}
	if err := store.SetInfo(ctx, "task-1", nil); err == nil {
		t.Error("Expected error for nil config")
	}
	if err := store.SetInfo(ctx, "task-1", &agents.PushNotificationConfig{URL: "ftp://example.com"}); err == nil {
		t.Error("Expected error for non-http URL")
	}
}

func TestHTTPPushNotificationSender_SendTaskNotification(t *testing.T) {
	ctx := context.Background()

	var (
		mu       sync.Mutex
		received []agents.Task
		tokens   []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var task agents.Task
		if err := json.Unmarshal(body, &task); err != nil {
			t.Errorf("notification payload is not a task: %v", err)
		}
		mu.Lock()
		received = append(received, task)
		tokens = append(tokens, r.Header.Get("X-A2A-Notification-Token"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := NewInMemoryPushNotificationConfigStore()
	if err := store.SetInfo(ctx, "task-1", &agents.PushNotificationConfig{URL: server.URL, Token: "secret"}); err != nil {
		t.Fatalf("SetInfo() error = %v", err)
	}

	sender := NewHTTPPushNotificationSender(HTTPPushNotificationSenderConfig{
		ConfigStore: store,
		Logger:      slog.New(slog.DiscardHandler),
	})

	task := newTestTask("task-1")
	task.Status = agents.NewTaskStatus(agents.TaskStateCompleted, "")
	if err := sender.SendTaskNotification(ctx, task); err != nil {
		t.Fatalf("SendTaskNotification() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(received))
	}
	if received[0].ID != "task-1" {
		t.Errorf("Expected task ID %q in payload, got %q", "task-1", received[0].ID)
	}
	if tokens[0] != "secret" {
		t.Errorf("Expected notification token header, got %q", tokens[0])
	}
}

func TestHTTPPushNotificationSender_NoConfigsIsNoop(t *testing.T) {
	ctx := context.Background()
	sender := NewHTTPPushNotificationSender(HTTPPushNotificationSenderConfig{
		ConfigStore: NewInMemoryPushNotificationConfigStore(),
		Logger:      slog.New(slog.DiscardHandler),
	})

	if err := sender.SendTaskNotification(ctx, newTestTask("task-1")); err != nil {
		t.Errorf("SendTaskNotification() error = %v", err)
	}
}

func TestHTTPPushNotificationSender_EndpointFailureDoesNotError(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewInMemoryPushNotificationConfigStore()
	if err := store.SetInfo(ctx, "task-1", &agents.PushNotificationConfig{URL: server.URL}); err != nil {
		t.Fatalf("SetInfo() error = %v", err)
	}

	sender := NewHTTPPushNotificationSender(HTTPPushNotificationSenderConfig{
		ConfigStore: store,
		Logger:      slog.New(slog.DiscardHandler),
	})
	if err := sender.SendTaskNotification(ctx, newTestTask("task-1")); err != nil {
		t.Errorf("Expected delivery failure to be logged, not returned, got %v", err)
	}
}
