// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-a2a/agents"
)

// PushNotificationConfigStore defines the interface for persisting push
// notification registrations per task.
type PushNotificationConfigStore interface {
	// SetInfo registers a push notification config for a task.
	SetInfo(ctx context.Context, taskID string, config *agents.PushNotificationConfig) error

	// GetInfo returns all push notification configs registered for a
	// task. A task with no registrations yields an empty slice, not an
	// error.
	GetInfo(ctx context.Context, taskID string) ([]*agents.PushNotificationConfig, error)

	// DeleteInfo removes all push notification configs for a task.
	DeleteInfo(ctx context.Context, taskID string) error
}

// InMemoryPushNotificationConfigStore is an in-memory implementation of
// PushNotificationConfigStore.
type InMemoryPushNotificationConfigStore struct {
	mu      sync.RWMutex
	configs map[string][]*agents.PushNotificationConfig
}

var _ PushNotificationConfigStore = (*InMemoryPushNotificationConfigStore)(nil)

// NewInMemoryPushNotificationConfigStore creates a new in-memory config
// store.
func NewInMemoryPushNotificationConfigStore() *InMemoryPushNotificationConfigStore {
	return &InMemoryPushNotificationConfigStore{
		configs: make(map[string][]*agents.PushNotificationConfig),
	}
}

// SetInfo registers a push notification config for a task. Registering
// the same URL again replaces the earlier entry.
func (s *InMemoryPushNotificationConfigStore) SetInfo(ctx context.Context, taskID string, config *agents.PushNotificationConfig) error {
	if taskID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if config == nil {
		return fmt.Errorf("push notification config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid push notification config: %w", err)
	}

	cp := *config

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.configs[taskID] {
		if existing.URL == cp.URL {
			s.configs[taskID][i] = &cp
			return nil
		}
	}
	s.configs[taskID] = append(s.configs[taskID], &cp)
	return nil
}

// GetInfo returns all push notification configs registered for a task.
func (s *InMemoryPushNotificationConfigStore) GetInfo(ctx context.Context, taskID string) ([]*agents.PushNotificationConfig, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	configs := s.configs[taskID]
	out := make([]*agents.PushNotificationConfig, len(configs))
	for i, config := range configs {
		cp := *config
		out[i] = &cp
	}
	return out, nil
}

// DeleteInfo removes all push notification configs for a task.
func (s *InMemoryPushNotificationConfigStore) DeleteInfo(ctx context.Context, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.configs, taskID)
	return nil
}
