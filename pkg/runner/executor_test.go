package runner

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeflowhq/automation-engine/pkg/actions/condition"
	"github.com/freeflowhq/automation-engine/pkg/actions/delay"
	"github.com/freeflowhq/automation-engine/pkg/actions/email"
	"github.com/freeflowhq/automation-engine/pkg/actions/notification"
	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
	"github.com/freeflowhq/automation-engine/pkg/persistence/file"
	"github.com/freeflowhq/automation-engine/pkg/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func createTestRegistry() *registry.Registry {
	reg := registry.NewRegistry(testLogger())
	reg.RegisterAction(email.NewActionFactory())
	reg.RegisterAction(notification.NewActionFactory())
	reg.RegisterAction(condition.NewActionFactory())
	reg.RegisterAction(delay.NewActionFactory())

	return reg
}

func newTestRunner(t *testing.T) (*Runner, *file.Persistence) {
	t.Helper()

	store := file.NewPersistence(t.TempDir())
	runner := NewRunner(store, createTestRegistry(), nil, nil, testLogger())

	return runner, store
}

func saveAutomation(t *testing.T, store *file.Persistence, automation *models.Automation) {
	t.Helper()

	err := store.AutomationRepository().Save(context.Background(), automation)
	require.NoError(t, err)
}

func TestRunner_Run_EmptySteps(t *testing.T) {
	runner, store := newTestRunner(t)

	saveAutomation(t, store, &models.Automation{
		ID:      "empty",
		OwnerID: "user-1",
		Name:    "Empty Automation",
		Steps:   []*models.Step{},
	})

	summary, err := runner.Run(context.Background(), "empty", "user-1", "user@example.com", nil)
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, models.ExecutionStatusSuccess, summary.Status)
	assert.Equal(t, 0, summary.ActionsCompleted)
	assert.Equal(t, 0, summary.ActionsFailed)
	assert.Empty(t, summary.Outputs)
	assert.NotEmpty(t, summary.ExecutionID)
}

func TestRunner_Run_AllConditionsFalseIsSuccess(t *testing.T) {
	runner, store := newTestRunner(t)

	saveAutomation(t, store, &models.Automation{
		ID:      "conditions-only",
		OwnerID: "user-1",
		Name:    "Conditions Only",
		Steps: []*models.Step{
			{Type: "condition", Config: map[string]any{"field": "score", "operator": "greater", "value": 100}},
			{Type: "condition", Config: map[string]any{"field": "missing", "operator": "exists"}},
		},
	})

	summary, err := runner.Run(context.Background(), "conditions-only", "user-1", "", map[string]any{"score": 5})
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, models.ExecutionStatusSuccess, summary.Status)
	assert.Equal(t, 0, summary.ActionsCompleted)
	assert.Equal(t, 2, summary.ActionsFailed)
}

func TestRunner_Run_FalseConditionDoesNotHalt(t *testing.T) {
	runner, store := newTestRunner(t)

	saveAutomation(t, store, &models.Automation{
		ID:      "cond-then-notify",
		OwnerID: "user-1",
		Name:    "Condition Then Notify",
		Steps: []*models.Step{
			{Type: "condition", Config: map[string]any{"field": "score", "operator": "greater", "value": 10}},
			{Type: "notification", Config: map[string]any{"title": "after the condition"}},
		},
	})

	summary, err := runner.Run(context.Background(), "cond-then-notify", "user-1", "", map[string]any{"score": 5})
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, 1, summary.ActionsCompleted)
	assert.Equal(t, 1, summary.ActionsFailed)

	logs, err := store.ActionLogRepository().ListByExecution(context.Background(), summary.ExecutionID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ExecutionStatusFailed, logs[0].Status)
	assert.Equal(t, models.ExecutionStatusSuccess, logs[1].Status)
}

func TestRunner_Run_ScenarioA(t *testing.T) {
	runner, store := newTestRunner(t)

	saveAutomation(t, store, &models.Automation{
		ID:      "scenario-a",
		OwnerID: "user-1",
		Name:    "Scenario A",
		Steps: []*models.Step{
			{Type: "email", Config: map[string]any{"to": "a@b.com", "subject": "hi"}},
			{Type: "delay", Config: map[string]any{"seconds": 1}},
			{Type: "condition", Config: map[string]any{"field": "score", "operator": "greater", "value": 10}},
		},
	})

	summary, err := runner.Run(context.Background(), "scenario-a", "user-1", "", map[string]any{"score": 20})
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, models.ExecutionStatusSuccess, summary.Status)
	assert.Equal(t, 3, summary.ActionsCompleted)
	assert.Equal(t, 0, summary.ActionsFailed)
	assert.Len(t, summary.Outputs, 3)
}

func TestRunner_Run_ScenarioB_HaltsOnUnknownType(t *testing.T) {
	runner, store := newTestRunner(t)

	saveAutomation(t, store, &models.Automation{
		ID:      "scenario-b",
		OwnerID: "user-1",
		Name:    "Scenario B",
		Steps: []*models.Step{
			{Type: "email", Config: map[string]any{"to": "a@b.com", "subject": "hi"}},
			{Type: "does-not-exist", Config: map[string]any{}},
			{Type: "notification", Config: map[string]any{"title": "never sent"}},
		},
	})

	summary, err := runner.Run(context.Background(), "scenario-b", "user-1", "", nil)
	require.NoError(t, err)

	assert.False(t, summary.Success)
	assert.Equal(t, models.ExecutionStatusFailed, summary.Status)
	assert.Equal(t, 1, summary.ActionsCompleted)
	assert.Equal(t, 1, summary.ActionsFailed)

	// No audit record exists for the step after the halt.
	logs, err := store.ActionLogRepository().ListByExecution(context.Background(), summary.ExecutionID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ExecutionStatusFailed, logs[1].Status)
	assert.Contains(t, logs[1].ErrorMessage, "unknown action type")

	execution, err := store.ExecutionRepository().GetByID(context.Background(), summary.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Equal(t, "one or more actions failed", execution.ErrorMessage)
}

func TestRunner_Run_ScenarioC_NotOwnedIsNotFound(t *testing.T) {
	runner, store := newTestRunner(t)

	saveAutomation(t, store, &models.Automation{
		ID:      "someone-elses",
		OwnerID: "user-2",
		Name:    "Not Yours",
		Steps: []*models.Step{
			{Type: "notification", Config: map[string]any{"title": "nope"}},
		},
	})

	summary, err := runner.Run(context.Background(), "someone-elses", "user-1", "", nil)
	require.Error(t, err)
	assert.True(t, persistence.IsAutomationNotFound(err))
	assert.Nil(t, summary)

	// No execution row was created before the authorization check failed.
	executions, err := store.ExecutionRepository().ListByAutomation(context.Background(), "someone-elses")
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestRunner_Run_UpdatesStats(t *testing.T) {
	runner, store := newTestRunner(t)

	saveAutomation(t, store, &models.Automation{
		ID:      "stats",
		OwnerID: "user-1",
		Name:    "Stats Automation",
		Steps: []*models.Step{
			{Type: "notification", Config: map[string]any{"title": "ping"}},
		},
	})

	_, err := runner.Run(context.Background(), "stats", "user-1", "", nil)
	require.NoError(t, err)

	saved, err := store.AutomationRepository().GetByIDForOwner(context.Background(), "stats", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Stats.TotalExecutions)
	assert.Equal(t, int64(1), saved.Stats.SuccessfulExecutions)
	assert.Equal(t, int64(0), saved.Stats.FailedExecutions)
	assert.Equal(t, models.ExecutionStatusSuccess, saved.Stats.LastExecutionStatus)
	require.NotNil(t, saved.Stats.LastExecutionAt)
	assert.WithinDuration(t, time.Now().UTC(), *saved.Stats.LastExecutionAt, time.Minute)

	// A failing run rolls into the failure counter.
	saveAutomation(t, store, &models.Automation{
		ID:      "stats-fail",
		OwnerID: "user-1",
		Name:    "Failing Automation",
		Steps: []*models.Step{
			{Type: "does-not-exist", Config: map[string]any{}},
		},
	})

	_, err = runner.Run(context.Background(), "stats-fail", "user-1", "", nil)
	require.NoError(t, err)

	saved, err = store.AutomationRepository().GetByIDForOwner(context.Background(), "stats-fail", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Stats.TotalExecutions)
	assert.Equal(t, int64(1), saved.Stats.FailedExecutions)
	assert.Equal(t, models.ExecutionStatusFailed, saved.Stats.LastExecutionStatus)
}

// degradedPersistence serves automations normally but fails every execution
// write, forcing the run into unaudited mode.
type degradedPersistence struct {
	persistence.Persistence
}

func (d *degradedPersistence) ExecutionRepository() persistence.ExecutionRepository {
	return failingExecutionRepo{}
}

type failingExecutionRepo struct{}

func (failingExecutionRepo) Create(_ context.Context, _ *models.Execution) error {
	return persistence.ErrStoreUnavailable
}

func (failingExecutionRepo) Finalize(_ context.Context, _ *models.Execution) error {
	return persistence.ErrStoreUnavailable
}

func (failingExecutionRepo) GetByID(_ context.Context, _ string) (*models.Execution, error) {
	return nil, persistence.ErrStoreUnavailable
}

func (failingExecutionRepo) ListByAutomation(_ context.Context, _ string) ([]*models.Execution, error) {
	return nil, persistence.ErrStoreUnavailable
}

func TestRunner_Run_DegradedModeStillExecutes(t *testing.T) {
	store := file.NewPersistence(t.TempDir())

	saveAutomation(t, store, &models.Automation{
		ID:      "degraded",
		OwnerID: "user-1",
		Name:    "Degraded Mode",
		Steps: []*models.Step{
			{Type: "notification", Config: map[string]any{"title": "still delivered"}},
		},
	})

	runner := NewRunner(&degradedPersistence{Persistence: store}, createTestRegistry(), nil, nil, testLogger())

	summary, err := runner.Run(context.Background(), "degraded", "user-1", "", nil)
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Empty(t, summary.ExecutionID)
	assert.Equal(t, 1, summary.ActionsCompleted)

	// Stats are still rolled up even when the run was unaudited.
	saved, err := store.AutomationRepository().GetByIDForOwner(context.Background(), "degraded", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Stats.TotalExecutions)
}

func TestRunner_Run_ContextSeededWithIdentity(t *testing.T) {
	runner, store := newTestRunner(t)

	saveAutomation(t, store, &models.Automation{
		ID:      "identity",
		OwnerID: "user-1",
		Name:    "Identity Check",
		Steps: []*models.Step{
			{Type: "condition", Config: map[string]any{"field": "user_email", "operator": "equals", "value": "user@example.com"}},
			{Type: "notification", Config: map[string]any{"title": "only if identity present"}},
		},
	})

	summary, err := runner.Run(context.Background(), "identity", "user-1", "user@example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ActionsCompleted)
	assert.Equal(t, 0, summary.ActionsFailed)
}
