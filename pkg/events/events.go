// Package events defines event types for automation run lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic for run lifecycle events.
const Topic = "automation.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Run lifecycle events.
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"

	// Per-step events.
	StepFinishedEvent EventType = "execution.step.finished"
	StepFailedEvent   EventType = "execution.step.failed"
)

type BaseEvent struct {
	ID           string         `json:"id"`
	Type         EventType      `json:"type"`
	Timestamp    time.Time      `json:"timestamp"`
	AutomationID string         `json:"automation_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, automationID string) BaseEvent {
	return BaseEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		AutomationID: automationID,
		Metadata:     make(map[string]any),
	}
}

type ExecutionStarted struct {
	BaseEvent

	ExecutionID    string         `json:"execution_id,omitempty"`
	AutomationName string         `json:"automation_name"`
	UserID         string         `json:"user_id"`
	TotalSteps     int            `json:"total_steps"`
	TriggerData    map[string]any `json:"trigger_data,omitempty"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	ExecutionID      string `json:"execution_id,omitempty"`
	Status           string `json:"status"`
	DurationMs       int64  `json:"duration_ms"`
	ActionsCompleted int    `json:"actions_completed"`
	ActionsFailed    int    `json:"actions_failed"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	ExecutionID      string `json:"execution_id,omitempty"`
	Status           string `json:"status"`
	DurationMs       int64  `json:"duration_ms"`
	Error            string `json:"error"`
	FailedStepIndex  int    `json:"failed_step_index"`
	ActionsCompleted int    `json:"actions_completed"`
	ActionsFailed    int    `json:"actions_failed"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type StepFinished struct {
	BaseEvent

	ExecutionID string        `json:"execution_id,omitempty"`
	StepIndex   int           `json:"step_index"`
	StepType    string        `json:"step_type"`
	OutputData  any           `json:"output_data,omitempty"`
	Duration    time.Duration `json:"duration"`
}

func (e StepFinished) GetType() EventType {
	return StepFinishedEvent
}

type StepFailed struct {
	BaseEvent

	ExecutionID string        `json:"execution_id,omitempty"`
	StepIndex   int           `json:"step_index"`
	StepType    string        `json:"step_type"`
	Error       string        `json:"error"`
	Halted      bool          `json:"halted"`
	Duration    time.Duration `json:"duration"`
}

func (e StepFailed) GetType() EventType {
	return StepFailedEvent
}
