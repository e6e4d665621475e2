// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agents provides the shared task lifecycle data model for the
// Agent-to-Agent (A2A) sample agents.
//
// The package defines the Task, Message, Artifact and stream event types
// that every sample agent's task manager operates on, together with the
// typed errors of the lifecycle protocol. The lifecycle manager itself
// lives in the server package; concrete agent backends live under agent
// and workflow.
package agents

import (
	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier for tasks, sessions and
// artifacts.
func GenerateID() string {
	return uuid.NewString()
}
