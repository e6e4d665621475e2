// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"database/sql/driver"
	"fmt"

	"github.com/go-json-experiment/json"
	"gorm.io/gorm"

	"github.com/go-a2a/agents"
)

// TaskStatusJSON stores a TaskStatus as a JSON column.
type TaskStatusJSON struct {
	agents.TaskStatus
}

// Value implements the driver.Valuer interface for database storage.
func (ts TaskStatusJSON) Value() (driver.Value, error) {
	data, err := json.Marshal(ts.TaskStatus)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface for database retrieval.
func (ts *TaskStatusJSON) Scan(value any) error {
	if value == nil {
		*ts = TaskStatusJSON{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("cannot scan %T into TaskStatusJSON: %w", value, err)
	}

	var status agents.TaskStatus
	if err := json.Unmarshal(bytes, &status); err != nil {
		return fmt.Errorf("cannot unmarshal TaskStatusJSON: %w", err)
	}
	ts.TaskStatus = status
	return nil
}

// MessageJSON stores a Message as a JSON column.
type MessageJSON struct {
	Message *agents.Message
}

// Value implements the driver.Valuer interface for database storage.
func (m MessageJSON) Value() (driver.Value, error) {
	if m.Message == nil {
		return nil, nil
	}
	data, err := json.Marshal(m.Message)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface for database retrieval.
func (m *MessageJSON) Scan(value any) error {
	if value == nil {
		*m = MessageJSON{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("cannot scan %T into MessageJSON: %w", value, err)
	}

	var message agents.Message
	if err := json.Unmarshal(bytes, &message); err != nil {
		return fmt.Errorf("cannot unmarshal MessageJSON: %w", err)
	}
	m.Message = &message
	return nil
}

// ArtifactSliceJSON stores an artifact slice as a JSON column.
type ArtifactSliceJSON struct {
	Artifacts []*agents.Artifact
}

// Value implements the driver.Valuer interface for database storage.
func (as ArtifactSliceJSON) Value() (driver.Value, error) {
	if as.Artifacts == nil {
		return nil, nil
	}
	data, err := json.Marshal(as.Artifacts)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface for database retrieval.
func (as *ArtifactSliceJSON) Scan(value any) error {
	if value == nil {
		*as = ArtifactSliceJSON{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("cannot scan %T into ArtifactSliceJSON: %w", value, err)
	}

	var artifacts []*agents.Artifact
	if err := json.Unmarshal(bytes, &artifacts); err != nil {
		return fmt.Errorf("cannot unmarshal ArtifactSliceJSON: %w", err)
	}
	as.Artifacts = artifacts
	return nil
}

// MetadataJSON stores caller-defined task metadata as a JSON column.
type MetadataJSON struct {
	Metadata map[string]any
}

// Value implements the driver.Valuer interface for database storage.
func (m MetadataJSON) Value() (driver.Value, error) {
	if m.Metadata == nil {
		return nil, nil
	}
	data, err := json.Marshal(m.Metadata)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface for database retrieval.
func (m *MetadataJSON) Scan(value any) error {
	if value == nil {
		*m = MetadataJSON{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("cannot scan %T into MetadataJSON: %w", value, err)
	}

	var metadata map[string]any
	if err := json.Unmarshal(bytes, &metadata); err != nil {
		return fmt.Errorf("cannot unmarshal MetadataJSON: %w", err)
	}
	m.Metadata = metadata
	return nil
}

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type")
	}
}

// TaskModel is the database row for a task.
type TaskModel struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	SessionID string            `gorm:"size:36;index" json:"sessionId"`
	Status    TaskStatusJSON    `gorm:"type:json" json:"status"`
	Message   MessageJSON       `gorm:"type:json" json:"message"`
	Artifacts ArtifactSliceJSON `gorm:"type:json" json:"artifacts"`
	Metadata  MetadataJSON      `gorm:"type:json" json:"metadata"`
}

// TableName returns the table name for the TaskModel.
func (TaskModel) TableName() string {
	return "tasks"
}

// Validate ensures the TaskModel is in a valid state.
func (tm *TaskModel) Validate() error {
	if tm.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if err := tm.Status.TaskStatus.Validate(); err != nil {
		return fmt.Errorf("task status is invalid: %w", err)
	}
	return nil
}

// BeforeCreate is a GORM hook called before creating a record.
func (tm *TaskModel) BeforeCreate(tx *gorm.DB) error {
	return tm.Validate()
}

// BeforeUpdate is a GORM hook called before updating a record.
func (tm *TaskModel) BeforeUpdate(tx *gorm.DB) error {
	return tm.Validate()
}

// NewTaskModelFromTask converts an agents.Task to its database row.
func NewTaskModelFromTask(task *agents.Task) (*TaskModel, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("task is invalid: %w", err)
	}

	return &TaskModel{
		ID:        task.ID,
		SessionID: task.SessionID,
		Status:    TaskStatusJSON{task.Status},
		Message:   MessageJSON{Message: task.Message},
		Artifacts: ArtifactSliceJSON{Artifacts: task.Artifacts},
		Metadata:  MetadataJSON{Metadata: task.Metadata},
	}, nil
}

// ToTask converts a database row back to an agents.Task.
func (tm *TaskModel) ToTask() (*agents.Task, error) {
	if err := tm.Validate(); err != nil {
		return nil, fmt.Errorf("task model is invalid: %w", err)
	}

	return &agents.Task{
		ID:        tm.ID,
		SessionID: tm.SessionID,
		Status:    tm.Status.TaskStatus,
		Message:   tm.Message.Message,
		Artifacts: tm.Artifacts.Artifacts,
		Metadata:  tm.Metadata.Metadata,
	}, nil
}
