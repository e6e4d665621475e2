// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-a2a/agents/agent"
)

// CustomerAgent answers customer-details queries by running the remote
// workflow. It implements both agent capabilities: Invoke submits the
// workflow and waits for the terminal result; Stream additionally
// reports progress between the submit and the final poll.
type CustomerAgent struct {
	client      *Client
	maxAttempts int
}

var _ agent.Agent = (*CustomerAgent)(nil)

// NewCustomerAgent creates a CustomerAgent on top of a workflow Client.
func NewCustomerAgent(client *Client) (*CustomerAgent, error) {
	if client == nil {
		return nil, fmt.Errorf("workflow client cannot be nil")
	}
	return &CustomerAgent{
		client:      client,
		maxAttempts: DefaultMaxAttempts,
	}, nil
}

// SupportedContentTypes returns the content types this agent produces.
func (a *CustomerAgent) SupportedContentTypes() []string {
	return []string{"text", "text/plain"}
}

// Invoke runs the customer-details workflow to completion for the query.
//
// A query without a customer ID terminates immediately with
// RequireUserInput; everything else runs submit, awaitCompletion and
// extraction, with failures normalized to *agent.AdapterError.
func (a *CustomerAgent) Invoke(ctx context.Context, query, sessionID string) (*agent.Result, error) {
	customerID := digits(query)
	if customerID == "" {
		return &agent.Result{
			RequireUserInput: true,
			Content:          "Please provide a valid customer ID (numbers only).",
		}, nil
	}

	customer, err := a.lookup(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &agent.Result{
		IsComplete: true,
		Content:    customer.String(),
	}, nil
}

// Stream runs the workflow while reporting progress notifications. The
// producer stops promptly when ctx is canceled.
func (a *CustomerAgent) Stream(ctx context.Context, query, sessionID string) (<-chan agent.Result, <-chan error) {
	results := make(chan agent.Result, 4)
	errs := make(chan error, 1)

	go func() {
		defer close(results)
		defer close(errs)

		customerID := digits(query)
		if customerID == "" {
			emit(ctx, results, agent.Result{
				RequireUserInput: true,
				Content:          "Please provide a valid customer ID (numbers only).",
			})
			return
		}

		if !emit(ctx, results, agent.Result{
			Content: fmt.Sprintf("Looking up details for customer ID: %s...", customerID),
		}) {
			return
		}

		runID, err := a.client.Submit(ctx, customerID)
		if err != nil {
			errs <- agent.NewAdapterError("submit", err)
			return
		}

		if !emit(ctx, results, agent.Result{
			Content: "Processing customer information...",
		}) {
			return
		}

		state, err := a.client.AwaitCompletion(ctx, runID, a.maxAttempts)
		if err != nil {
			errs <- agent.NewAdapterError("await completion", err)
			return
		}

		customer, err := ExtractCustomer(state)
		if err != nil {
			errs <- agent.NewAdapterError("extract", err)
			return
		}

		emit(ctx, results, agent.Result{
			IsComplete: true,
			Content:    customer.String(),
		})
	}()

	return results, errs
}

// lookup is the shared submit/poll/extract pipeline behind Invoke.
func (a *CustomerAgent) lookup(ctx context.Context, customerID string) (*Customer, error) {
	runID, err := a.client.Submit(ctx, customerID)
	if err != nil {
		return nil, agent.NewAdapterError("submit", err)
	}

	state, err := a.client.AwaitCompletion(ctx, runID, a.maxAttempts)
	if err != nil {
		return nil, agent.NewAdapterError("await completion", err)
	}

	customer, err := ExtractCustomer(state)
	if err != nil {
		return nil, agent.NewAdapterError("extract", err)
	}
	return customer, nil
}

// emit sends a result unless the consumer is gone. Reports whether the
// send happened.
func emit(ctx context.Context, results chan<- agent.Result, r agent.Result) bool {
	select {
	case results <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// digits extracts the digit characters of a query, the loose parsing the
// reference agent applies to free-form customer ID questions.
func digits(query string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(query) {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
