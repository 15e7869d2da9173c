// Package persistence provides the data storage abstraction for automations,
// executions and per-step action logs.
package persistence

import (
	"context"
	"time"

	"github.com/freeflowhq/automation-engine/pkg/models"
)

// StatsDelta describes one run's contribution to an automation's aggregate
// counters. Implementations must apply it atomically (database-level
// increment), never read-modify-write, so concurrent runs do not lose
// updates.
type StatsDelta struct {
	Success    bool
	LastStatus models.ExecutionStatus
	LastAt     time.Time
}

// AutomationRepository stores automation definitions. Reads are scoped to an
// owner and exclude soft-deleted records.
type AutomationRepository interface {
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Automation, error)
	List(ctx context.Context, ownerID string) ([]*models.Automation, error)
	Save(ctx context.Context, automation *models.Automation) error
	Delete(ctx context.Context, id, ownerID string) error
	IncrementStats(ctx context.Context, id string, delta StatsDelta) error
}

// ExecutionRepository stores run records.
type ExecutionRepository interface {
	Create(ctx context.Context, execution *models.Execution) error
	Finalize(ctx context.Context, execution *models.Execution) error
	GetByID(ctx context.Context, id string) (*models.Execution, error)
	ListByAutomation(ctx context.Context, automationID string) ([]*models.Execution, error)
}

// ActionLogRepository stores per-step audit records.
type ActionLogRepository interface {
	Create(ctx context.Context, actionLog *models.ActionLog) error
	Finalize(ctx context.Context, actionLog *models.ActionLog) error
	ListByExecution(ctx context.Context, executionID string) ([]*models.ActionLog, error)
}

type Persistence interface {
	AutomationRepository() AutomationRepository
	ExecutionRepository() ExecutionRepository
	ActionLogRepository() ActionLogRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
