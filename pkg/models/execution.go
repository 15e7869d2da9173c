package models

import "time"

// Execution is one run of an automation. Created in running state before the
// first step, finalized exactly once with a terminal status. Never deleted
// by the engine.
type Execution struct {
	ID               string          `json:"id"`
	AutomationID     string          `json:"automation_id" validate:"required"`
	UserID           string          `json:"user_id"       validate:"required"`
	Status           ExecutionStatus `json:"status"`
	TriggerData      map[string]any  `json:"trigger_data,omitempty"`
	ActionsCompleted int             `json:"actions_completed"`
	ActionsFailed    int             `json:"actions_failed"`
	TotalSteps       int             `json:"total_steps"`
	Result           []any           `json:"result,omitempty"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	StartedAt        time.Time       `json:"started_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	Duration         time.Duration   `json:"duration"`
}

// ActionLog is the audit record of one step's attempt within one execution.
// Created immediately before the executor is invoked, finalized immediately
// after it returns, and never updated again.
type ActionLog struct {
	ID           string          `json:"id"`
	ExecutionID  string          `json:"execution_id" validate:"required"`
	StepIndex    int             `json:"step_index"`
	StepType     string          `json:"step_type"`
	InputData    map[string]any  `json:"input_data,omitempty"`
	Status       ExecutionStatus `json:"status"`
	OutputData   any             `json:"output_data,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	Duration     time.Duration   `json:"duration"`
}

// RunSummary is what callers of the engine get back for a completed run.
// ExecutionID is empty when the run executed unaudited (degraded mode).
type RunSummary struct {
	Success          bool            `json:"success"`
	ExecutionID      string          `json:"execution_id,omitempty"`
	Status           ExecutionStatus `json:"status"`
	Duration         time.Duration   `json:"duration"`
	ActionsCompleted int             `json:"actions_completed"`
	ActionsFailed    int             `json:"actions_failed"`
	Outputs          []any           `json:"outputs"`
}
