package runner

import (
	"context"

	"github.com/freeflowhq/automation-engine/pkg/eventbus"
	"github.com/freeflowhq/automation-engine/pkg/events"
	"github.com/freeflowhq/automation-engine/pkg/models"
)

// Event publishing is best-effort: a failing publish is logged and never
// affects the run.

func (r *Runner) publishStarted(ctx context.Context, automation *models.Automation, executionID, userID string, triggerData map[string]any) {
	if r.publisher == nil {
		return
	}

	event := events.ExecutionStarted{
		BaseEvent:      events.NewBaseEvent(events.ExecutionStartedEvent, automation.ID),
		ExecutionID:    executionID,
		AutomationName: automation.Name,
		UserID:         userID,
		TotalSteps:     len(automation.Steps),
		TriggerData:    triggerData,
	}

	err := r.publisher.Publish(ctx, automation.ID, event)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to publish execution started event", "error", err)
	}
}

func (r *Runner) publishCompleted(ctx context.Context, automationID, executionID string, execution *models.Execution, outcome *runOutcome) {
	if r.publisher == nil {
		return
	}

	var event eventbus.Event

	if execution.Status == models.ExecutionStatusFailed {
		event = events.ExecutionFailed{
			BaseEvent:        events.NewBaseEvent(events.ExecutionFailedEvent, automationID),
			ExecutionID:      executionID,
			Status:           string(execution.Status),
			DurationMs:       execution.Duration.Milliseconds(),
			Error:            outcome.lastError,
			FailedStepIndex:  outcome.failedStepIndex,
			ActionsCompleted: execution.ActionsCompleted,
			ActionsFailed:    execution.ActionsFailed,
		}
	} else {
		event = events.ExecutionCompleted{
			BaseEvent:        events.NewBaseEvent(events.ExecutionCompletedEvent, automationID),
			ExecutionID:      executionID,
			Status:           string(execution.Status),
			DurationMs:       execution.Duration.Milliseconds(),
			ActionsCompleted: execution.ActionsCompleted,
			ActionsFailed:    execution.ActionsFailed,
		}
	}

	err := r.publisher.Publish(ctx, automationID, event)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to publish execution completed event", "error", err)
	}
}

func (r *Runner) publishStepFinished(ctx context.Context, automationID, executionID string, actionLog *models.ActionLog) {
	if r.publisher == nil {
		return
	}

	event := events.StepFinished{
		BaseEvent:   events.NewBaseEvent(events.StepFinishedEvent, automationID),
		ExecutionID: executionID,
		StepIndex:   actionLog.StepIndex,
		StepType:    actionLog.StepType,
		OutputData:  actionLog.OutputData,
		Duration:    actionLog.Duration,
	}

	err := r.publisher.Publish(ctx, automationID, event)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to publish step finished event", "error", err)
	}
}

func (r *Runner) publishStepFailed(ctx context.Context, automationID, executionID string, actionLog *models.ActionLog, halted bool) {
	if r.publisher == nil {
		return
	}

	event := events.StepFailed{
		BaseEvent:   events.NewBaseEvent(events.StepFailedEvent, automationID),
		ExecutionID: executionID,
		StepIndex:   actionLog.StepIndex,
		StepType:    actionLog.StepType,
		Error:       actionLog.ErrorMessage,
		Halted:      halted,
		Duration:    actionLog.Duration,
	}

	err := r.publisher.Publish(ctx, automationID, event)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to publish step failed event", "error", err)
	}
}
