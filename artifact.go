// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agents

import (
	"fmt"
)

// Artifact represents a discrete output unit attached to a task.
type Artifact struct {
	ArtifactID string         `json:"artifactId,omitzero"`
	Name       string         `json:"name,omitzero"`
	Parts      []*PartWrapper `json:"parts"`
	Metadata   map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Artifact is valid.
func (a *Artifact) Validate() error {
	if len(a.Parts) == 0 {
		return fmt.Errorf("artifact must contain at least one part")
	}
	for i, part := range a.Parts {
		if part == nil || part.GetPart() == nil {
			return fmt.Errorf("artifact part at index %d cannot be nil", i)
		}
		if err := part.GetPart().Validate(); err != nil {
			return fmt.Errorf("artifact part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewTextArtifact creates an Artifact containing a single TextPart.
func NewTextArtifact(text string) *Artifact {
	return &Artifact{
		ArtifactID: GenerateID(),
		Parts:      []*PartWrapper{NewPartWrapper(NewTextPart(text))},
	}
}
