// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/go-a2a/agents"
)

// DatabaseTaskStore is a database implementation of TaskStore using GORM.
// The driver is the caller's choice; the store accepts an already-opened
// *gorm.DB.
//
// Same-key write serialization relies on the primary key: Save runs as a
// single upsert statement on the task ID, which the database serializes.
type DatabaseTaskStore struct {
	db          *gorm.DB
	createTable bool
}

var _ TaskStore = (*DatabaseTaskStore)(nil)

// DatabaseTaskStoreConfig holds configuration for DatabaseTaskStore.
type DatabaseTaskStoreConfig struct {
	DB *gorm.DB

	// CreateTable auto-migrates the tasks table during Initialize.
	CreateTable bool
}

// NewDatabaseTaskStore creates a new DatabaseTaskStore.
func NewDatabaseTaskStore(config DatabaseTaskStoreConfig) (*DatabaseTaskStore, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &DatabaseTaskStore{
		db:          config.DB,
		createTable: config.CreateTable,
	}, nil
}

// Save persists a task to the database.
func (s *DatabaseTaskStore) Save(ctx context.Context, task *agents.Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return NewTaskValidationError(task.ID, err)
	}

	model, err := NewTaskModelFromTask(task)
	if err != nil {
		return NewTaskStoreError("save", task.ID, err)
	}

	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return NewTaskStoreError("save", task.ID, err)
	}
	return nil
}

// Get retrieves a task by its ID from the database.
func (s *DatabaseTaskStore) Get(ctx context.Context, taskID string) (*agents.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	var model TaskModel
	if err := s.db.WithContext(ctx).Where("id = ?", taskID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, agents.TaskNotFoundError{TaskID: taskID}
		}
		return nil, NewTaskStoreError("get", taskID, err)
	}

	task, err := model.ToTask()
	if err != nil {
		return nil, NewTaskStoreError("get", taskID, err)
	}
	return task, nil
}

// List retrieves tasks, optionally filtered by session ID.
func (s *DatabaseTaskStore) List(ctx context.Context, sessionID string, limit, offset int) ([]*agents.Task, error) {
	db := s.db.WithContext(ctx)
	if sessionID != "" {
		db = db.Where("session_id = ?", sessionID)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}

	var models []TaskModel
	if err := db.Find(&models).Error; err != nil {
		return nil, NewTaskStoreError("list", "", err)
	}

	tasks := make([]*agents.Task, 0, len(models))
	for i := range models {
		task, err := models[i].ToTask()
		if err != nil {
			return nil, NewTaskStoreError("list", models[i].ID, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Count returns the number of stored tasks, optionally filtered by
// session ID.
func (s *DatabaseTaskStore) Count(ctx context.Context, sessionID string) (int64, error) {
	db := s.db.WithContext(ctx).Model(&TaskModel{})
	if sessionID != "" {
		db = db.Where("session_id = ?", sessionID)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, NewTaskStoreError("count", "", err)
	}
	return count, nil
}

// Initialize prepares the database for use, migrating the tasks table
// when configured to.
func (s *DatabaseTaskStore) Initialize(ctx context.Context) error {
	if !s.createTable {
		return nil
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&TaskModel{}); err != nil {
		return NewTaskStoreError("initialize", "", err)
	}
	return nil
}

// Close cleanly shuts down the database store.
func (s *DatabaseTaskStore) Close(ctx context.Context) error {
	db, err := s.db.DB()
	if err != nil {
		return NewTaskStoreError("close", "", err)
	}
	return db.Close()
}
