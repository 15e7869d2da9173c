// Package models defines the core domain models for the automation execution engine.
package models

import "time"

// ExecutionStatus represents the lifecycle state of an execution or of the
// last run recorded on an automation.
type ExecutionStatus string

const (
	ExecutionStatusRunning ExecutionStatus = "running"
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// Automation is a named, user-owned, ordered list of steps. Insertion order
// is execution order; there is no branching between steps.
type Automation struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"    validate:"required"`
	Name        string          `json:"name"        validate:"required,min=3"`
	Description string          `json:"description"`
	Steps       []*Step         `json:"steps"`
	Stats       AutomationStats `json:"stats"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
}

// Step is one typed, configured unit of work inside an automation. Type is
// resolved against the action registry; Config is validated only by the
// executor that consumes it.
type Step struct {
	Type   string         `json:"type" validate:"required"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config"`
}

// AutomationStats carries the aggregate counters rolled up after every run.
// Counters are monotonically non-decreasing; updates happen through the
// store's atomic increment, never read-modify-write.
type AutomationStats struct {
	TotalExecutions      int64           `json:"total_executions"`
	SuccessfulExecutions int64           `json:"successful_executions"`
	FailedExecutions     int64           `json:"failed_executions"`
	LastExecutionStatus  ExecutionStatus `json:"last_execution_status,omitempty"`
	LastExecutionAt      *time.Time      `json:"last_execution_at,omitempty"`
}
