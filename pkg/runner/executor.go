// Package runner orchestrates one automation run: it iterates steps in
// order, resolves executors through the registry, writes per-step audit
// records, applies the halt rule and rolls the outcome into the automation's
// aggregate counters.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/freeflowhq/automation-engine/pkg/eventbus"
	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/otelhelper"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
	"github.com/freeflowhq/automation-engine/pkg/registry"
)

const conditionStepType = "condition"

const runFailedMessage = "one or more actions failed"

// Runner executes automations. Steps of one run execute sequentially on the
// calling goroutine; multiple runs may execute concurrently, which is why
// stats updates go through the store's atomic increment.
type Runner struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
}

func NewRunner(
	persistence persistence.Persistence,
	registry *registry.Registry,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		persistence: persistence,
		registry:    registry,
		publisher:   publisher,
		tracer:      tracer,
		logger:      logger,
	}
}

// Run executes the automation identified by automationID on behalf of the
// given user. The caller always gets back a RunSummary once the run has
// started; only not-found before the run begins is returned as an error.
func (r *Runner) Run(ctx context.Context, automationID, userID, userEmail string, triggerData map[string]any) (*models.RunSummary, error) {
	logger := r.logger.With("automation_id", automationID, "user_id", userID)

	automation, err := r.persistence.AutomationRepository().GetByIDForOwner(ctx, automationID, userID)
	if err != nil {
		if persistence.IsAutomationNotFound(err) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to fetch automation %s: %w", automationID, err)
	}

	startedAt := time.Now().UTC()

	execution := &models.Execution{
		ID:           uuid.New().String(),
		AutomationID: automation.ID,
		UserID:       userID,
		Status:       models.ExecutionStatusRunning,
		TriggerData:  triggerData,
		TotalSteps:   len(automation.Steps),
		StartedAt:    startedAt,
	}

	sink := r.newAuditSink(ctx, execution, logger)
	if sink.ExecutionID() != "" {
		logger = logger.With("execution_id", sink.ExecutionID())
	}

	if r.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, r.tracer, "automation.run",
			attribute.String(otelhelper.AutomationIDKey, automation.ID),
			attribute.String(otelhelper.AutomationNameKey, automation.Name),
			attribute.String(otelhelper.UserIDKey, userID),
		)
		defer span.End()
	}

	logger.InfoContext(ctx, "Starting automation run", "total_steps", len(automation.Steps))

	executionCtx := models.NewExecutionContext(automation.ID, userID, userEmail, triggerData)
	executionCtx.ExecutionID = sink.ExecutionID()

	r.publishStarted(ctx, automation, sink.ExecutionID(), userID, triggerData)

	outcome := r.runSteps(ctx, automation, executionCtx, sink, logger)

	execution.Status = outcome.status()
	execution.ActionsCompleted = outcome.actionsCompleted
	execution.ActionsFailed = outcome.actionsFailed
	execution.Result = outcome.outputs
	execution.Duration = time.Since(startedAt)

	completedAt := startedAt.Add(execution.Duration)
	execution.CompletedAt = &completedAt

	if execution.Status == models.ExecutionStatusFailed {
		execution.ErrorMessage = runFailedMessage
	}

	sink.FinalizeExecution(ctx, execution)

	r.updateStats(ctx, automation.ID, execution, logger)
	r.publishCompleted(ctx, automation.ID, sink.ExecutionID(), execution, outcome)

	logger.InfoContext(ctx, "Automation run completed",
		"status", execution.Status,
		"actions_completed", execution.ActionsCompleted,
		"actions_failed", execution.ActionsFailed,
		"duration", execution.Duration,
	)

	return &models.RunSummary{
		Success:          execution.Status == models.ExecutionStatusSuccess,
		ExecutionID:      sink.ExecutionID(),
		Status:           execution.Status,
		Duration:         execution.Duration,
		ActionsCompleted: execution.ActionsCompleted,
		ActionsFailed:    execution.ActionsFailed,
		Outputs:          outcome.outputs,
	}, nil
}

// newAuditSink creates the execution row and returns a store-backed sink.
// When the store cannot record the run, the no-op sink is substituted and the
// run proceeds unaudited.
func (r *Runner) newAuditSink(ctx context.Context, execution *models.Execution, logger *slog.Logger) AuditSink {
	err := r.persistence.ExecutionRepository().Create(ctx, execution)
	if err != nil {
		logger.WarnContext(ctx, "Audit store unavailable, run proceeds unaudited", "error", err)

		return NopAuditSink{}
	}

	return &storeSink{
		executionID:   execution.ID,
		executionRepo: r.persistence.ExecutionRepository(),
		actionLogRepo: r.persistence.ActionLogRepository(),
		logger:        logger,
	}
}

// runOutcome aggregates what the step loop produced.
type runOutcome struct {
	actionsCompleted   int
	actionsFailed      int
	nonConditionFailed bool
	failedStepIndex    int
	lastError          string
	outputs            []any
}

func (o *runOutcome) status() models.ExecutionStatus {
	if o.nonConditionFailed {
		return models.ExecutionStatusFailed
	}

	return models.ExecutionStatusSuccess
}

// runSteps iterates the step list in order. A failing step halts the run
// unless it is a condition step: a false condition means "condition not met"
// and must not abort the automation.
func (r *Runner) runSteps(
	ctx context.Context,
	automation *models.Automation,
	executionCtx *models.ExecutionContext,
	sink AuditSink,
	logger *slog.Logger,
) *runOutcome {
	outcome := &runOutcome{outputs: make([]any, 0, len(automation.Steps)), failedStepIndex: -1}

	for index, step := range automation.Steps {
		stepLogger := logger.With("step_index", index, "action_type", step.Type)

		stepStarted := time.Now().UTC()

		actionLog := &models.ActionLog{
			ID:          uuid.New().String(),
			ExecutionID: sink.ExecutionID(),
			StepIndex:   index,
			StepType:    step.Type,
			InputData:   step.Config,
			Status:      models.ExecutionStatusRunning,
			StartedAt:   stepStarted,
		}

		sink.BeginStep(ctx, actionLog)

		stepOutcome := r.executeStep(ctx, step, executionCtx, stepLogger)

		duration := time.Since(stepStarted)
		completedAt := stepStarted.Add(duration)

		actionLog.CompletedAt = &completedAt
		actionLog.Duration = duration

		if stepOutcome.Success {
			outcome.actionsCompleted++
			outcome.outputs = append(outcome.outputs, stepOutcome.Output)

			actionLog.Status = models.ExecutionStatusSuccess
			actionLog.OutputData = stepOutcome.Output

			sink.FinalizeStep(ctx, actionLog)
			r.publishStepFinished(ctx, automation.ID, sink.ExecutionID(), actionLog)

			continue
		}

		outcome.actionsFailed++
		outcome.lastError = stepOutcome.Error

		actionLog.Status = models.ExecutionStatusFailed
		actionLog.ErrorMessage = stepOutcome.Error

		sink.FinalizeStep(ctx, actionLog)

		halted := step.Type != conditionStepType
		r.publishStepFailed(ctx, automation.ID, sink.ExecutionID(), actionLog, halted)

		if halted {
			outcome.nonConditionFailed = true
			outcome.failedStepIndex = index

			stepLogger.WarnContext(ctx, "Step failed, halting run", "error", stepOutcome.Error)

			break
		}

		stepLogger.InfoContext(ctx, "Condition not met, continuing", "error", stepOutcome.Error)
	}

	return outcome
}

// executeStep resolves and invokes one executor. Every failure mode,
// unresolved type, executor error, executor-reported failure, comes back as a
// failed outcome rather than an error: step-level problems never escape the
// run controller.
func (r *Runner) executeStep(
	ctx context.Context,
	step *models.Step,
	executionCtx *models.ExecutionContext,
	logger *slog.Logger,
) *protocol.Outcome {
	if r.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, r.tracer, "automation.step",
			attribute.String(otelhelper.StepTypeKey, step.Type),
		)
		defer span.End()
	}

	action, err := r.registry.CreateAction(step.Type, step.Config)
	if err != nil {
		return &protocol.Outcome{Success: false, Error: err.Error()}
	}

	outcome, err := action.Execute(ctx, executionCtx, logger)
	if err != nil {
		return &protocol.Outcome{Success: false, Error: err.Error()}
	}

	if outcome == nil {
		return &protocol.Outcome{Success: true}
	}

	return outcome
}

// updateStats rolls the run's outcome into the automation's aggregate
// counters. Best-effort: a failure here is logged and does not change the
// summary returned to the caller. It is attempted even for unaudited runs.
func (r *Runner) updateStats(ctx context.Context, automationID string, execution *models.Execution, logger *slog.Logger) {
	delta := persistence.StatsDelta{
		Success:    execution.Status == models.ExecutionStatusSuccess,
		LastStatus: execution.Status,
		LastAt:     *execution.CompletedAt,
	}

	err := r.persistence.AutomationRepository().IncrementStats(ctx, automationID, delta)
	if err != nil {
		logger.WarnContext(ctx, "Failed to update automation stats", "error", err)
	}
}
