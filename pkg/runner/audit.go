package runner

import (
	"context"
	"log/slog"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
)

// AuditSink receives the durable execution and per-step records of one run.
// Implementations never return errors: a failing audit write must not fail or
// abort the run it describes.
type AuditSink interface {
	// ExecutionID returns the durable execution id, or "" when the run is
	// unaudited.
	ExecutionID() string
	BeginStep(ctx context.Context, actionLog *models.ActionLog)
	FinalizeStep(ctx context.Context, actionLog *models.ActionLog)
	FinalizeExecution(ctx context.Context, execution *models.Execution)
}

// storeSink writes audit records through the execution and action log
// repositories. Write failures are logged as operational warnings and
// swallowed.
type storeSink struct {
	executionID   string
	executionRepo persistence.ExecutionRepository
	actionLogRepo persistence.ActionLogRepository
	logger        *slog.Logger
}

func (s *storeSink) ExecutionID() string {
	return s.executionID
}

func (s *storeSink) BeginStep(ctx context.Context, actionLog *models.ActionLog) {
	err := s.actionLogRepo.Create(ctx, actionLog)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to create action log", "step_index", actionLog.StepIndex, "error", err)
	}
}

func (s *storeSink) FinalizeStep(ctx context.Context, actionLog *models.ActionLog) {
	err := s.actionLogRepo.Finalize(ctx, actionLog)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to finalize action log", "step_index", actionLog.StepIndex, "error", err)
	}
}

func (s *storeSink) FinalizeExecution(ctx context.Context, execution *models.Execution) {
	err := s.executionRepo.Finalize(ctx, execution)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to finalize execution", "execution_id", execution.ID, "error", err)
	}
}

// NopAuditSink is substituted for the store-backed sink when the durable
// store is unavailable at run start. The run executes unaudited.
type NopAuditSink struct{}

func (NopAuditSink) ExecutionID() string { return "" }

func (NopAuditSink) BeginStep(_ context.Context, _ *models.ActionLog) {}

func (NopAuditSink) FinalizeStep(_ context.Context, _ *models.ActionLog) {}

func (NopAuditSink) FinalizeExecution(_ context.Context, _ *models.Execution) {}
