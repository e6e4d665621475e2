// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package openai adapts the OpenAI Chat Completions API to the agent
// backend contract. Conversation history is kept per session so that
// input-required turns resume with context.
package openai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openai/openai-go"

	"github.com/go-a2a/agents/agent"
)

// Options configure the OpenAI adapter. Fields mirror a minimal subset
// of Chat Completion parameters.
type Options struct {
	Model               string
	Instruction         string
	Temperature         float64
	MaxCompletionTokens int64
}

// Adapter wraps the OpenAI Chat Completions API behind the agent backend
// contract.
type Adapter struct {
	client *openai.Client
	opts   Options

	mu       sync.Mutex
	sessions map[string][]openai.ChatCompletionMessageParamUnion
}

var _ agent.Agent = (*Adapter)(nil)

// New creates a new OpenAI adapter using the default client, which reads
// its credentials from the environment.
func New(optFns ...func(o *Options)) *Adapter {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI adapter from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Adapter {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{
		client:   client,
		opts:     opts,
		sessions: make(map[string][]openai.ChatCompletionMessageParamUnion),
	}
}

// SupportedContentTypes returns the content types this backend can
// produce.
func (a *Adapter) SupportedContentTypes() []string {
	return []string{"text", "text/plain"}
}

// Invoke runs a single completion for the query and returns the terminal
// result.
func (a *Adapter) Invoke(ctx context.Context, query, sessionID string) (*agent.Result, error) {
	params := a.buildParams(sessionID, query)

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, agent.NewAdapterError("completion", fmt.Errorf("openai api error: %w", err))
	}
	if len(resp.Choices) == 0 {
		return nil, agent.NewAdapterError("completion", fmt.Errorf("no choices returned"))
	}

	content := resp.Choices[0].Message.Content
	a.remember(sessionID, query, content)

	return &agent.Result{
		Content:    content,
		IsComplete: true,
	}, nil
}

// Stream runs a streaming completion, emitting accumulated partial
// output as intermediate results and the full text as the terminal one.
func (a *Adapter) Stream(ctx context.Context, query, sessionID string) (<-chan agent.Result, <-chan error) {
	results := make(chan agent.Result, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(results)
		defer close(errs)

		params := a.buildParams(sessionID, query)
		stream := a.client.Chat.Completions.NewStreaming(ctx, params)

		var builder strings.Builder
		for stream.Next() {
			chunk := stream.Current()
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				builder.WriteString(choice.Delta.Content)
				select {
				case results <- agent.Result{Content: choice.Delta.Content}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			errs <- agent.NewAdapterError("streaming completion", fmt.Errorf("openai streaming error: %w", err))
			return
		}

		content := builder.String()
		a.remember(sessionID, query, content)
		select {
		case results <- agent.Result{Content: content, IsComplete: true}:
		case <-ctx.Done():
		}
	}()

	return results, errs
}

// buildParams assembles the request from the session history plus the
// new user query.
func (a *Adapter) buildParams(sessionID, query string) openai.ChatCompletionNewParams {
	a.mu.Lock()
	history := a.sessions[sessionID]
	a.mu.Unlock()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if a.opts.Instruction != "" {
		messages = append(messages, openai.SystemMessage(a.opts.Instruction))
	}
	messages = append(messages, history...)
	messages = append(messages, openai.UserMessage(query))

	return openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               a.opts.Model,
		Temperature:         openai.Float(a.opts.Temperature),
		MaxCompletionTokens: openai.Int(a.opts.MaxCompletionTokens),
	}
}

// remember appends a completed exchange to the session history.
func (a *Adapter) remember(sessionID, query, answer string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sessions[sessionID] = append(a.sessions[sessionID],
		openai.UserMessage(query),
		openai.AssistantMessage(answer),
	)
}
