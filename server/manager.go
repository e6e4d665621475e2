// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the task lifecycle manager: it drives an
// agent backend through the task state machine, persists every status
// change before exposing it, and streams incremental updates to
// subscribers.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-a2a/agents"
	"github.com/go-a2a/agents/agent"
	"github.com/go-a2a/agents/server/event"
	"github.com/go-a2a/agents/server/task"
)

// TaskManager is the interface that task managers must implement.
type TaskManager interface {
	// OnSendTask handles a synchronous send: the task is driven to a
	// terminal state before the call returns.
	OnSendTask(ctx context.Context, params *agents.SendTaskParams) (*agents.Task, error)

	// OnSendTaskSubscribe handles a streaming send: the returned channel
	// delivers status and artifact updates in order, ending with exactly
	// one final status update.
	OnSendTaskSubscribe(ctx context.Context, params *agents.SendTaskParams) (<-chan agents.StreamEvent, error)

	// OnGetTask retrieves the current snapshot of a task.
	OnGetTask(ctx context.Context, taskID string) (*agents.Task, error)
}

// AgentTaskManager drives an agent backend through the task lifecycle.
//
// Every status change is written to the task store before the
// corresponding event is emitted, so a reader that wakes up on an event
// always observes a store at least as new as the event.
type AgentTaskManager struct {
	invoker  agent.Invoker
	streamer agent.Streamer

	store       task.TaskStore
	configStore task.PushNotificationConfigStore
	notifier    task.PushNotificationSender

	logger    *slog.Logger
	tracer    trace.Tracer
	queueSize int
}

var _ TaskManager = (*AgentTaskManager)(nil)

// NewAgentTaskManager creates a new AgentTaskManager for the given agent
// backend. If the backend also implements [agent.Streamer], streaming
// sends use it; otherwise OnSendTaskSubscribe fails with
// UnsupportedOperationError.
func NewAgentTaskManager(backend agent.Invoker, opts ...Option) *AgentTaskManager {
	m := &AgentTaskManager{
		invoker:   backend,
		store:     task.NewInMemoryTaskStore(),
		logger:    slog.Default(),
		tracer:    otel.GetTracerProvider().Tracer("github.com/go-a2a/agents/server"),
		queueSize: event.DefaultMaxQueueSize,
	}
	if streamer, ok := backend.(agent.Streamer); ok {
		m.streamer = streamer
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnSendTask handles a synchronous send.
//
// A modality mismatch fails with IncompatibleModalityError before any
// store write. Agent backend failures do not escape as errors: the task
// ends in the error state with the failure text as its status message,
// and the terminal task is returned.
func (m *AgentTaskManager) OnSendTask(ctx context.Context, params *agents.SendTaskParams) (*agents.Task, error) {
	ctx, span := m.tracer.Start(ctx, "agents.task_manager.OnSendTask",
		trace.WithAttributes(attribute.String("agents.task_id", paramsID(params))))
	defer span.End()

	query, err := m.admit(ctx, params)
	if err != nil {
		return nil, err
	}

	t, err := m.upsertSubmitted(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := m.applyStatus(ctx, t, agents.NewTaskStatus(agents.TaskStateWorking, "")); err != nil {
		return nil, err
	}

	result, err := m.invoker.Invoke(ctx, query, t.SessionID)
	if err != nil {
		m.logger.WarnContext(ctx, "agent invocation failed", "task_id", t.ID, "error", err)
		if serr := m.applyStatus(ctx, t, agents.NewTaskStatus(agents.TaskStateError, err.Error())); serr != nil {
			return nil, serr
		}
		m.notify(ctx, t)
		return t, nil
	}

	if err := m.applyResult(ctx, t, result); err != nil {
		return nil, err
	}

	m.notify(ctx, t)
	m.logger.InfoContext(ctx, "task completed turn", "task_id", t.ID, "state", t.Status.State)
	return t, nil
}

// OnSendTaskSubscribe handles a streaming send.
//
// The channel delivers one status update per agent notification, plus
// artifact updates for produced outputs, ending with exactly one
// terminal status update with Final set, which is always last. Canceling
// ctx stops the producer and closes the channel.
func (m *AgentTaskManager) OnSendTaskSubscribe(ctx context.Context, params *agents.SendTaskParams) (<-chan agents.StreamEvent, error) {
	ctx, span := m.tracer.Start(ctx, "agents.task_manager.OnSendTaskSubscribe",
		trace.WithAttributes(attribute.String("agents.task_id", paramsID(params))))
	defer span.End()

	if m.streamer == nil {
		return nil, agents.UnsupportedOperationError{Operation: "tasks/sendSubscribe"}
	}

	query, err := m.admit(ctx, params)
	if err != nil {
		return nil, err
	}

	t, err := m.upsertSubmitted(ctx, params)
	if err != nil {
		return nil, err
	}

	queue, err := event.NewQueue(m.queueSize)
	if err != nil {
		return nil, err
	}

	go m.produce(ctx, queue, t, query)

	out := make(chan agents.StreamEvent)
	go m.pump(ctx, queue, out)

	m.logger.InfoContext(ctx, "task subscription created", "task_id", t.ID)
	return out, nil
}

// OnGetTask retrieves the current snapshot of a task.
func (m *AgentTaskManager) OnGetTask(ctx context.Context, taskID string) (*agents.Task, error) {
	ctx, span := m.tracer.Start(ctx, "agents.task_manager.OnGetTask",
		trace.WithAttributes(attribute.String("agents.task_id", taskID)))
	defer span.End()

	if taskID == "" {
		return nil, errors.New("task ID cannot be empty")
	}

	t, err := m.store.Get(ctx, taskID)
	if err != nil {
		m.logger.InfoContext(ctx, "task not found", "task_id", taskID)
		return nil, err
	}
	return t, nil
}

// OnSetTaskPushNotification registers a push notification endpoint for a
// task. The task must already exist.
func (m *AgentTaskManager) OnSetTaskPushNotification(ctx context.Context, taskID string, config *agents.PushNotificationConfig) error {
	ctx, span := m.tracer.Start(ctx, "agents.task_manager.OnSetTaskPushNotification",
		trace.WithAttributes(attribute.String("agents.task_id", taskID)))
	defer span.End()

	if m.configStore == nil {
		return agents.UnsupportedOperationError{Operation: "tasks/pushNotification/set"}
	}
	if _, err := m.store.Get(ctx, taskID); err != nil {
		return err
	}
	if err := m.configStore.SetInfo(ctx, taskID, config); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "task push notification configured", "task_id", taskID, "url", config.URL)
	return nil
}

// OnGetTaskPushNotification returns the push notification endpoints
// registered for a task.
func (m *AgentTaskManager) OnGetTaskPushNotification(ctx context.Context, taskID string) ([]*agents.PushNotificationConfig, error) {
	ctx, span := m.tracer.Start(ctx, "agents.task_manager.OnGetTaskPushNotification",
		trace.WithAttributes(attribute.String("agents.task_id", taskID)))
	defer span.End()

	if m.configStore == nil {
		return nil, agents.UnsupportedOperationError{Operation: "tasks/pushNotification/get"}
	}
	if _, err := m.store.Get(ctx, taskID); err != nil {
		return nil, err
	}
	return m.configStore.GetInfo(ctx, taskID)
}

// admit validates a send request against the backend without touching
// the store: parameter shape, output modality overlap, and a text query
// part.
func (m *AgentTaskManager) admit(ctx context.Context, params *agents.SendTaskParams) (string, error) {
	if params == nil {
		return "", errors.New("params cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return "", err
	}

	supported := m.invoker.SupportedContentTypes()
	if !agents.AreModalitiesCompatible(params.AcceptedOutputModes, supported) {
		m.logger.WarnContext(ctx, "unsupported output modes",
			"task_id", params.ID,
			"accepted", params.AcceptedOutputModes,
			"supported", supported)
		return "", agents.IncompatibleModalityError{
			Accepted:  params.AcceptedOutputModes,
			Supported: supported,
		}
	}

	return agents.UserQuery(params.Message)
}

// upsertSubmitted creates the submitted task for this turn, resuming an
// existing task when the caller supplied a known ID.
func (m *AgentTaskManager) upsertSubmitted(ctx context.Context, params *agents.SendTaskParams) (*agents.Task, error) {
	if params.ID != "" {
		existing, err := m.store.Get(ctx, params.ID)
		var notFound agents.TaskNotFoundError
		switch {
		case err == nil:
			if !existing.Status.State.CanTransition(agents.TaskStateSubmitted) {
				return nil, fmt.Errorf("task %s cannot accept a new message in state %s", existing.ID, existing.Status.State)
			}
			existing.Status = agents.NewTaskStatus(agents.TaskStateSubmitted, "")
			existing.Message = params.Message
			if err := m.store.Save(ctx, existing); err != nil {
				return nil, err
			}
			m.logger.InfoContext(ctx, "task resumed", "task_id", existing.ID, "session_id", existing.SessionID)
			return existing, nil
		case !errors.As(err, &notFound):
			return nil, err
		}
	}

	t, err := agents.NewSubmittedTask(params)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, t); err != nil {
		return nil, err
	}
	m.logger.InfoContext(ctx, "task created", "task_id", t.ID, "session_id", t.SessionID)
	return t, nil
}

// applyStatus persists a status change on the task.
func (m *AgentTaskManager) applyStatus(ctx context.Context, t *agents.Task, status agents.TaskStatus) error {
	t.Status = status
	return m.store.Save(ctx, t)
}

// applyResult folds a terminal agent result into the task and persists
// it: input-required with the content as status message, or completed
// with the content as a text artifact.
func (m *AgentTaskManager) applyResult(ctx context.Context, t *agents.Task, result *agent.Result) error {
	if result == nil {
		return errors.New("agent result cannot be nil")
	}
	if result.RequireUserInput {
		return m.applyStatus(ctx, t, agents.NewTaskStatus(agents.TaskStateInputRequired, result.Content))
	}
	t.Artifacts = append(t.Artifacts, agents.NewTextArtifact(result.Content))
	return m.applyStatus(ctx, t, agents.NewTaskStatus(agents.TaskStateCompleted, ""))
}

// produce runs the agent stream, persisting each update before
// enqueueing its event. Every emitted event derives from one agent
// notification; the submitted-to-working transition is persisted but not
// emitted. The queue is closed when the turn reaches a terminal state or
// ctx is canceled.
func (m *AgentTaskManager) produce(ctx context.Context, queue *event.Queue, t *agents.Task, query string) {
	defer queue.Close()

	if err := m.applyStatus(ctx, t, agents.NewTaskStatus(agents.TaskStateWorking, "")); err != nil {
		m.logger.WarnContext(ctx, "failed to persist working status", "task_id", t.ID, "error", err)
		return
	}

	results, errs := m.streamer.Stream(ctx, query, t.SessionID)
	for {
		select {
		case <-ctx.Done():
			m.logger.InfoContext(ctx, "subscriber canceled", "task_id", t.ID)
			return

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			m.failTask(ctx, queue, t, err)
			return

		case result, ok := <-results:
			if !ok {
				// Producer stopped without a terminal result.
				m.failTask(ctx, queue, t, errors.New("agent stream ended without a terminal result"))
				return
			}

			if !result.Terminal() {
				if err := m.applyStatus(ctx, t, agents.NewTaskStatus(agents.TaskStateWorking, result.Content)); err != nil {
					m.logger.WarnContext(ctx, "failed to persist progress", "task_id", t.ID, "error", err)
					return
				}
				m.emitStatus(ctx, queue, t, false)
				continue
			}

			if err := m.applyResult(ctx, t, &result); err != nil {
				m.logger.WarnContext(ctx, "failed to persist terminal result", "task_id", t.ID, "error", err)
				return
			}
			if result.IsComplete {
				m.emitArtifacts(ctx, queue, t)
			}
			m.emitStatus(ctx, queue, t, true)
			m.notify(ctx, t)
			m.logger.InfoContext(ctx, "task completed turn", "task_id", t.ID, "state", t.Status.State)
			return
		}
	}
}

// failTask drives the task to the error state and emits the final event.
func (m *AgentTaskManager) failTask(ctx context.Context, queue *event.Queue, t *agents.Task, cause error) {
	m.logger.WarnContext(ctx, "agent stream failed", "task_id", t.ID, "error", cause)
	if err := m.applyStatus(ctx, t, agents.NewTaskStatus(agents.TaskStateError, cause.Error())); err != nil {
		m.logger.WarnContext(ctx, "failed to persist error status", "task_id", t.ID, "error", err)
		return
	}
	m.emitStatus(ctx, queue, t, true)
	m.notify(ctx, t)
}

// emitStatus enqueues a status update for the task's current status.
func (m *AgentTaskManager) emitStatus(ctx context.Context, queue *event.Queue, t *agents.Task, final bool) bool {
	err := queue.Enqueue(ctx, &agents.TaskStatusUpdateEvent{
		TaskID: t.ID,
		Status: t.Status,
		Final:  final,
	})
	if err != nil {
		m.logger.WarnContext(ctx, "failed to enqueue status update", "task_id", t.ID, "error", err)
		return false
	}
	return true
}

// emitArtifacts enqueues an artifact update for the most recent artifact.
func (m *AgentTaskManager) emitArtifacts(ctx context.Context, queue *event.Queue, t *agents.Task) {
	if len(t.Artifacts) == 0 {
		return
	}
	err := queue.Enqueue(ctx, &agents.TaskArtifactUpdateEvent{
		TaskID:   t.ID,
		Artifact: t.Artifacts[len(t.Artifacts)-1],
	})
	if err != nil {
		m.logger.WarnContext(ctx, "failed to enqueue artifact update", "task_id", t.ID, "error", err)
	}
}

// pump drains the queue into the subscriber channel, preserving order,
// and closes the channel when the queue is closed and empty or the
// subscriber's context is canceled.
func (m *AgentTaskManager) pump(ctx context.Context, queue *event.Queue, out chan<- agents.StreamEvent) {
	defer close(out)

	for {
		ev, err := queue.Dequeue(ctx, false)
		if err != nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// paramsID returns the caller-supplied task ID for tracing, tolerating
// nil params.
func paramsID(params *agents.SendTaskParams) string {
	if params == nil {
		return ""
	}
	return params.ID
}

// notify delivers the task snapshot to registered push notification
// endpoints, when configured.
func (m *AgentTaskManager) notify(ctx context.Context, t *agents.Task) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.SendTaskNotification(ctx, t); err != nil {
		m.logger.WarnContext(ctx, "push notification delivery failed", "task_id", t.ID, "error", err)
	}
}
