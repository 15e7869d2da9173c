// Package web provides HTTP handlers and request/response types for the
// automation API.
package web

import "github.com/freeflowhq/automation-engine/pkg/models"

// CreateAutomationRequest represents the request body for creating a new automation.
type CreateAutomationRequest struct {
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Steps       []*StepRequest `json:"steps"       validate:"dive"`
}

// StepRequest is one step inside a create request.
type StepRequest struct {
	Type   string         `json:"type" validate:"required"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config"`
}

// RunAutomationRequest represents the request body for triggering a run.
type RunAutomationRequest struct {
	TriggerData map[string]any `json:"trigger_data"`
}

// ExecutionDetailResponse is an execution together with its per-step audit
// records.
type ExecutionDetailResponse struct {
	Execution  *models.Execution  `json:"execution"`
	ActionLogs []*models.ActionLog `json:"action_logs"`
}
