// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/go-a2a/agents/server/task"
)

// Option represents an option for configuring the [AgentTaskManager].
type Option func(*AgentTaskManager)

// WithTaskStore sets the task store for the [AgentTaskManager]. Defaults
// to an in-memory store.
func WithTaskStore(store task.TaskStore) Option {
	return func(m *AgentTaskManager) {
		m.store = store
	}
}

// WithLogger sets the [*slog.Logger] for the [AgentTaskManager].
func WithLogger(logger *slog.Logger) Option {
	return func(m *AgentTaskManager) {
		m.logger = logger
	}
}

// WithTracer sets the [trace.Tracer] for the [AgentTaskManager].
func WithTracer(tracer trace.Tracer) Option {
	return func(m *AgentTaskManager) {
		m.tracer = tracer
	}
}

// WithPushNotifications sets the push notification config store and
// sender. When configured, the manager delivers the task snapshot to
// registered endpoints on every terminal transition.
func WithPushNotifications(configStore task.PushNotificationConfigStore, sender task.PushNotificationSender) Option {
	return func(m *AgentTaskManager) {
		m.configStore = configStore
		m.notifier = sender
	}
}

// WithQueueSize sets the per-subscription event queue size for the
// [AgentTaskManager].
func WithQueueSize(size int) Option {
	return func(m *AgentTaskManager) {
		m.queueSize = size
	}
}
