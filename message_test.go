// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agents

import (
	"errors"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
)

func TestMessage_JSONRoundTrip(t *testing.T) {
	message := &Message{
		Role: RoleUser,
		Parts: []*PartWrapper{
			NewPartWrapper(NewTextPart("hello")),
			NewPartWrapper(NewTextPart("world")),
		},
	}

	data, err := json.Marshal(message)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.Role != RoleUser {
		t.Errorf("Expected role %q, got %q", RoleUser, got.Role)
	}
	if diff := cmp.Diff([]string{"hello", "world"}, GetTextParts(got.Parts)); diff != "" {
		t.Errorf("Text parts mismatch (-want +got):\n%s", diff)
	}
}

func TestPartWrapper_UnmarshalUnknownKind(t *testing.T) {
	var pw PartWrapper
	err := json.Unmarshal([]byte(`{"kind":"file","uri":"file:///x"}`), &pw)
	if err == nil {
		t.Fatal("Expected error for unknown part kind")
	}

	var unsupported UnsupportedPartError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected UnsupportedPartError, got %T: %v", err, err)
	}
	if unsupported.Kind != "file" {
		t.Errorf("Expected kind %q, got %q", "file", unsupported.Kind)
	}
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		message *Message
		wantErr bool
	}{
		{"valid user message", NewUserTextMessage("hi"), false},
		{"valid agent message", NewAgentTextMessage("hi"), false},
		{"invalid role", &Message{Role: "system", Parts: []*PartWrapper{NewPartWrapper(NewTextPart("x"))}}, true},
		{"no parts", &Message{Role: RoleUser}, true},
		{"nil part", &Message{Role: RoleUser, Parts: []*PartWrapper{nil}}, true},
		{"empty text", &Message{Role: RoleUser, Parts: []*PartWrapper{NewPartWrapper(NewTextPart(""))}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.message.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserQuery(t *testing.T) {
	query, err := UserQuery(NewUserTextMessage("look up customer 42"))
	if err != nil {
		t.Fatalf("UserQuery() error = %v", err)
	}
	if query != "look up customer 42" {
		t.Errorf("Expected query text, got %q", query)
	}
}

func TestUserQuery_NoParts(t *testing.T) {
	if _, err := UserQuery(&Message{Role: RoleUser}); err == nil {
		t.Error("Expected error for message without parts")
	}
	if _, err := UserQuery(nil); err == nil {
		t.Error("Expected error for nil message")
	}
}

func TestGetMessageText(t *testing.T) {
	message := &Message{
		Role: RoleAgent,
		Parts: []*PartWrapper{
			NewPartWrapper(NewTextPart("line one")),
			NewPartWrapper(NewTextPart("line two")),
		},
	}

	if got := GetMessageText(message, "\n"); got != "line one\nline two" {
		t.Errorf("GetMessageText() = %q", got)
	}
	if got := GetMessageText(nil, "\n"); got != "" {
		t.Errorf("GetMessageText(nil) = %q, want empty", got)
	}
}

func TestNewTextArtifact(t *testing.T) {
	artifact := NewTextArtifact("result text")
	if err := artifact.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if artifact.ArtifactID == "" {
		t.Error("Expected a generated artifact ID")
	}
	if diff := cmp.Diff([]string{"result text"}, GetTextParts(artifact.Parts)); diff != "" {
		t.Errorf("Artifact parts mismatch (-want +got):\n%s", diff)
	}
}
