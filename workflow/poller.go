// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package workflow drives a request/poll protocol against a long-running
// remote workflow job: submit the job, poll its status until it reaches a
// terminal state, then extract a normalized result from the reported node
// graph. It converts a fire-and-forget remote API into a bounded
// synchronous wait for the agent adapters built on top of it.
package workflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-json-experiment/json"
)

// Defaults for the poll loop, matching the reference deployment where the
// workflow completes within a few seconds.
const (
	// DefaultRequestTimeout bounds each HTTP round trip.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultPollDelay is the fixed delay between poll attempts.
	DefaultPollDelay = 2 * time.Second

	// DefaultMaxAttempts is the hard ceiling on poll attempts.
	DefaultMaxAttempts = 5
)

// RunStatus is the status reported by the remote workflow for a run.
type RunStatus string

// Run statuses. Anything else is treated as a hard failure: the observed
// API never reports other retryable statuses, and guessing a larger
// retryable set would mask real failures.
const (
	RunStatusPending    RunStatus = "pending"
	RunStatusProcessing RunStatus = "processing"
	RunStatusSuccess    RunStatus = "success"
	RunStatusFailed     RunStatus = "failed"
)

// Retryable reports whether a poll loop should keep waiting on this status.
func (s RunStatus) Retryable() bool {
	return s == RunStatusPending || s == RunStatusProcessing
}

// RunState is the remote workflow's view of one run: its status plus the
// node output graph available once the run finishes.
type RunState struct {
	Status RunStatus       `json:"status"`
	Nodes  map[string]Node `json:"nodes,omitzero"`
}

// Node is one node of the workflow's execution graph. Output is the
// node's raw JSON output, encoded as a string by the remote API.
type Node struct {
	NodeType string `json:"nodeType"`
	Output   string `json:"output,omitzero"`
}

// Config holds the connection settings for a workflow Client.
type Config struct {
	// BaseURL is the workflow API endpoint, without a trailing slash.
	BaseURL string

	// APIKey authenticates every request.
	APIKey string

	// AppID identifies the workflow application to run.
	AppID string

	// UserID identifies the calling principal. A single shared principal
	// is sufficient here.
	UserID string

	// HTTPClient overrides the default client. Its timeout bounds each
	// round trip.
	HTTPClient *http.Client

	// PollDelay overrides the fixed inter-attempt delay.
	PollDelay time.Duration

	// Logger overrides the default logger.
	Logger *slog.Logger
}

// Client calls the remote workflow API.
type Client struct {
	baseURL    string
	apiKey     string
	appID      string
	userID     string
	httpClient *http.Client
	pollDelay  time.Duration
	logger     *slog.Logger
}

// NewClient creates a workflow Client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}
	if config.AppID == "" {
		return nil, fmt.Errorf("app ID cannot be empty")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	pollDelay := config.PollDelay
	if pollDelay == 0 {
		pollDelay = DefaultPollDelay
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		appID:      config.AppID,
		userID:     config.UserID,
		httpClient: httpClient,
		pollDelay:  pollDelay,
		logger:     logger,
	}, nil
}

// submitRequest is the payload of the run submission call. InputData is a
// nested JSON document carried as a string, as the remote API expects.
type submitRequest struct {
	UserID    string `json:"UserID"`
	AppID     string `json:"AppID"`
	InputData string `json:"InputData"`
}

type submitResponse struct {
	RunID string `json:"runId"`
}

type pollRequest struct {
	UserID string `json:"UserID"`
	AppID  string `json:"AppID"`
	RunID  string `json:"RunID"`
}

// Submit starts a workflow run for the given user input and returns the
// run ID. Transport and validation failures are reported as
// *SubmissionError.
func (c *Client) Submit(ctx context.Context, input string) (string, error) {
	inputData, err := json.Marshal(map[string]string{"user_input": input})
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	var resp submitResponse
	if err := c.post(ctx, "/run_app_workflow", submitRequest{
		UserID:    c.userID,
		AppID:     c.appID,
		InputData: string(inputData),
	}, &resp); err != nil {
		return "", &SubmissionError{Err: err}
	}

	if resp.RunID == "" {
		return "", &SubmissionError{Err: fmt.Errorf("workflow response carries no run ID")}
	}

	c.logger.InfoContext(ctx, "workflow run submitted", "run_id", resp.RunID)
	return resp.RunID, nil
}

// Poll performs a single status query for a run. Each call is one HTTP
// round trip bounded by the client timeout.
func (c *Client) Poll(ctx context.Context, runID string) (*RunState, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}

	var state RunState
	if err := c.post(ctx, "/query_run_app_process", pollRequest{
		UserID: c.userID,
		AppID:  c.appID,
		RunID:  runID,
	}, &state); err != nil {
		return nil, err
	}

	if state.Status == "" {
		return nil, fmt.Errorf("poll response for run %s carries no status", runID)
	}
	return &state, nil
}

// AwaitCompletion polls a run with a fixed inter-attempt delay until it
// succeeds, fails, or maxAttempts is exhausted.
//
// A successful run returns its terminal state. A failed or unrecognized
// status yields *ProcessFailedError; exhausting maxAttempts yields
// *ProcessTimeoutError. maxAttempts is a hard ceiling regardless of the
// delay strategy.
func (c *Client) AwaitCompletion(ctx context.Context, runID string, maxAttempts int) (*RunState, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		state, err := c.Poll(ctx, runID)
		if err != nil {
			return nil, err
		}

		switch {
		case state.Status == RunStatusSuccess:
			return state, nil
		case state.Status.Retryable():
			c.logger.InfoContext(ctx, "workflow run still in progress",
				"run_id", runID, "status", string(state.Status),
				"attempt", attempt, "max_attempts", maxAttempts)
		default:
			return nil, &ProcessFailedError{RunID: runID, Status: state.Status}
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(c.pollDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, &ProcessTimeoutError{RunID: runID, Attempts: maxAttempts}
}

// post sends one JSON request and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("workflow request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("workflow API returned %d %s: %s", resp.StatusCode, resp.Status, string(respBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
