// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agents

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
)

// Role represents the role of a message sender.
type Role string

// Role constants for message senders.
const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Part kinds recognized by the data model. The part union is closed:
// adding a new kind means adding a variant here, not a runtime type check.
const (
	PartKindText = "text"
)

// Part represents one segment of a message's or artifact's content.
// Text is currently the only recognized variant.
type Part interface {
	GetKind() string
	Validate() error
}

// TextPart represents a plain text segment.
type TextPart struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

var _ Part = (*TextPart)(nil)

// GetKind returns the part kind.
func (tp *TextPart) GetKind() string {
	return tp.Kind
}

// Validate ensures the TextPart is valid.
func (tp *TextPart) Validate() error {
	if tp.Kind != PartKindText {
		return fmt.Errorf("text part kind must be %q, got %q", PartKindText, tp.Kind)
	}
	if tp.Text == "" {
		return fmt.Errorf("text part text cannot be empty")
	}
	return nil
}

// NewTextPart creates a TextPart with the given content.
func NewTextPart(text string) *TextPart {
	return &TextPart{
		Kind: PartKindText,
		Text: text,
	}
}

// PartWrapper wraps a Part to enable JSON serialization of the tagged union.
type PartWrapper struct {
	part Part
}

// NewPartWrapper creates a new PartWrapper.
func NewPartWrapper(part Part) *PartWrapper {
	return &PartWrapper{part: part}
}

// GetPart returns the wrapped part.
func (pw *PartWrapper) GetPart() Part {
	if pw == nil {
		return nil
	}
	return pw.part
}

// MarshalJSON implements custom JSON marshaling for PartWrapper.
func (pw PartWrapper) MarshalJSON() ([]byte, error) {
	if pw.part == nil {
		return nil, fmt.Errorf("cannot marshal nil part")
	}
	return json.Marshal(pw.part)
}

// UnmarshalJSON implements custom JSON unmarshaling for PartWrapper.
// Unknown part kinds are rejected with UnsupportedPartError rather than
// silently dropped.
func (pw *PartWrapper) UnmarshalJSON(data []byte) error {
	var kind struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &kind); err != nil {
		return fmt.Errorf("failed to unmarshal part kind: %w", err)
	}

	switch kind.Kind {
	case PartKindText:
		var tp TextPart
		if err := json.Unmarshal(data, &tp); err != nil {
			return fmt.Errorf("failed to unmarshal text part: %w", err)
		}
		pw.part = &tp
		return nil
	default:
		return UnsupportedPartError{Kind: kind.Kind}
	}
}

// Message represents a single turn of conversation between a user and an
// agent. A message carries an ordered sequence of parts.
type Message struct {
	Role  Role           `json:"role"`
	Parts []*PartWrapper `json:"parts"`
}

// Validate ensures the Message is valid.
func (m *Message) Validate() error {
	if m.Role != RoleUser && m.Role != RoleAgent {
		return fmt.Errorf("invalid message role: %q", m.Role)
	}
	if len(m.Parts) == 0 {
		return fmt.Errorf("message must contain at least one part")
	}
	for i, part := range m.Parts {
		if part == nil || part.GetPart() == nil {
			return fmt.Errorf("message part at index %d cannot be nil", i)
		}
		if err := part.GetPart().Validate(); err != nil {
			return fmt.Errorf("message part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewUserTextMessage creates a user message containing a single TextPart.
func NewUserTextMessage(text string) *Message {
	return &Message{
		Role:  RoleUser,
		Parts: []*PartWrapper{NewPartWrapper(NewTextPart(text))},
	}
}

// NewAgentTextMessage creates an agent message containing a single TextPart.
func NewAgentTextMessage(text string) *Message {
	return &Message{
		Role:  RoleAgent,
		Parts: []*PartWrapper{NewPartWrapper(NewTextPart(text))},
	}
}

// GetTextParts extracts text content from all TextParts in a part list.
// Parts of other kinds are skipped.
func GetTextParts(parts []*PartWrapper) []string {
	var texts []string
	for _, part := range parts {
		if part == nil {
			continue
		}
		if tp, ok := part.GetPart().(*TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return texts
}

// GetMessageText extracts and joins all text content from a message's parts.
func GetMessageText(message *Message, delimiter string) string {
	if message == nil {
		return ""
	}
	return strings.Join(GetTextParts(message.Parts), delimiter)
}

// UserQuery returns the text of the first part of a message.
//
// The task lifecycle only understands text input; a message whose first
// part is not a TextPart yields an UnsupportedPartError so the caller
// receives an explicit rejection instead of a silently dropped part.
func UserQuery(message *Message) (string, error) {
	if message == nil || len(message.Parts) == 0 {
		return "", fmt.Errorf("message has no parts")
	}
	part := message.Parts[0].GetPart()
	tp, ok := part.(*TextPart)
	if !ok {
		kind := ""
		if part != nil {
			kind = part.GetKind()
		}
		return "", UnsupportedPartError{Kind: kind}
	}
	return tp.Text, nil
}
