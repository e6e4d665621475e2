// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/agents"
)

// PushNotificationSender delivers task updates to registered endpoints.
type PushNotificationSender interface {
	// SendTaskNotification delivers the current task snapshot to every
	// endpoint registered for it. Delivery failures are logged, not
	// returned; a partial failure never aborts the remaining endpoints.
	SendTaskNotification(ctx context.Context, task *agents.Task) error

	// Close shuts down the notification sender and releases resources.
	Close() error
}

// HTTPPushNotificationSender implements PushNotificationSender using
// HTTP POST requests.
type HTTPPushNotificationSender struct {
	client      *http.Client
	timeout     time.Duration
	configStore PushNotificationConfigStore
	logger      *slog.Logger
}

var _ PushNotificationSender = (*HTTPPushNotificationSender)(nil)

// HTTPPushNotificationSenderConfig holds configuration for
// HTTPPushNotificationSender.
type HTTPPushNotificationSenderConfig struct {
	Client      *http.Client
	Timeout     time.Duration
	ConfigStore PushNotificationConfigStore
	Logger      *slog.Logger
}

// NewHTTPPushNotificationSender creates a new HTTP-based push
// notification sender.
func NewHTTPPushNotificationSender(config HTTPPushNotificationSenderConfig) *HTTPPushNotificationSender {
	client := config.Client
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPPushNotificationSender{
		client:      client,
		timeout:     timeout,
		configStore: config.ConfigStore,
		logger:      logger,
	}
}

// SendTaskNotification delivers the task snapshot to all registered
// endpoints concurrently.
func (s *HTTPPushNotificationSender) SendTaskNotification(ctx context.Context, task *agents.Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	if s.configStore == nil {
		s.logger.Debug("no configuration store available, skipping notification", "task_id", task.ID)
		return nil
	}

	configs, err := s.configStore.GetInfo(ctx, task.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch push notification configs: %w", err)
	}
	if len(configs) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		failures = make(chan string, len(configs))
	)
	for _, config := range configs {
		wg.Add(1)
		go func(cfg *agents.PushNotificationConfig) {
			defer wg.Done()
			if !s.dispatch(ctx, task, cfg) {
				failures <- cfg.URL
			}
		}(config)
	}
	wg.Wait()
	close(failures)

	failed := 0
	for range failures {
		failed++
	}
	if failed > 0 {
		s.logger.Warn("some push notifications failed to send",
			"task_id", task.ID,
			"failure_count", failed,
			"endpoint_count", len(configs))
	}
	return nil
}

// dispatch sends the task snapshot to a single endpoint. Returns true
// on success.
func (s *HTTPPushNotificationSender) dispatch(ctx context.Context, task *agents.Task, config *agents.PushNotificationConfig) bool {
	if err := config.Validate(); err != nil {
		s.logger.Error("invalid push notification config",
			"task_id", task.ID,
			"url", config.URL,
			"error", err)
		return false
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	jsonData, err := json.Marshal(task)
	if err != nil {
		s.logger.Error("failed to marshal task",
			"task_id", task.ID,
			"url", config.URL,
			"error", err)
		return false
	}

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, config.URL, bytes.NewReader(jsonData))
	if err != nil {
		s.logger.Error("failed to create HTTP request",
			"task_id", task.ID,
			"url", config.URL,
			"error", err)
		return false
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "agents-push-notification-sender")
	if config.Token != "" {
		req.Header.Set("X-A2A-Notification-Token", config.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("error sending push notification",
			"task_id", task.ID,
			"url", config.URL,
			"error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("error sending push notification",
			"task_id", task.ID,
			"url", config.URL,
			"error", fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)))
		return false
	}

	s.logger.Info("push notification sent",
		"task_id", task.ID,
		"url", config.URL)
	return true
}

// Close shuts down the notification sender and releases resources.
func (s *HTTPPushNotificationSender) Close() error {
	return nil
}

// NoOpPushNotificationSender is a no-op implementation used when push
// notifications are disabled.
type NoOpPushNotificationSender struct{}

var _ PushNotificationSender = (*NoOpPushNotificationSender)(nil)

// NewNoOpPushNotificationSender creates a new no-op push notification
// sender.
func NewNoOpPushNotificationSender() *NoOpPushNotificationSender {
	return &NoOpPushNotificationSender{}
}

// SendTaskNotification does nothing in the no-op implementation.
func (s *NoOpPushNotificationSender) SendTaskNotification(ctx context.Context, task *agents.Task) error {
	return nil
}

// Close does nothing in the no-op implementation.
func (s *NoOpPushNotificationSender) Close() error {
	return nil
}
