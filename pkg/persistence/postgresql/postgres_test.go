package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
	"github.com/freeflowhq/automation-engine/pkg/persistence/postgresql"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Drop tables in reverse dependency order (children first, parents last)
	for _, table := range []string{"action_logs", "executions", "automations", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("automation_test"),
			postgres.WithUsername("automation"),
			postgres.WithPassword("automation"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx
}

func TestNewPersistence_Migrations(t *testing.T) {
	p, ctx := setupTestDB(t)

	assert.NoError(t, p.HealthCheck(ctx))
}

func TestAutomationRepository_Integration(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.AutomationRepository()

	automation := &models.Automation{
		ID:      uuid.New().String(),
		OwnerID: "user-1",
		Name:    "Integration Automation",
		Steps: []*models.Step{
			{Type: "email", Name: "Welcome Email", Config: map[string]any{"to": "a@b.com", "subject": "hi"}},
			{Type: "condition", Config: map[string]any{"field": "score", "operator": "greater", "value": 10}},
		},
	}

	require.NoError(t, repo.Save(ctx, automation))

	fetched, err := repo.GetByIDForOwner(ctx, automation.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Integration Automation", fetched.Name)
	require.Len(t, fetched.Steps, 2)
	assert.Equal(t, "email", fetched.Steps[0].Type)

	// Owner scoping.
	_, err = repo.GetByIDForOwner(ctx, automation.ID, "user-2")
	assert.ErrorIs(t, err, persistence.ErrAutomationNotFound)

	// Update keeps stats columns untouched.
	automation.Name = "Renamed Automation"
	require.NoError(t, repo.Save(ctx, automation))

	fetched, err = repo.GetByIDForOwner(ctx, automation.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Automation", fetched.Name)

	// Atomic stats increment.
	now := time.Now().UTC()
	require.NoError(t, repo.IncrementStats(ctx, automation.ID, persistence.StatsDelta{
		Success:    true,
		LastStatus: models.ExecutionStatusSuccess,
		LastAt:     now,
	}))
	require.NoError(t, repo.IncrementStats(ctx, automation.ID, persistence.StatsDelta{
		Success:    false,
		LastStatus: models.ExecutionStatusFailed,
		LastAt:     now,
	}))

	fetched, err = repo.GetByIDForOwner(ctx, automation.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetched.Stats.TotalExecutions)
	assert.Equal(t, int64(1), fetched.Stats.SuccessfulExecutions)
	assert.Equal(t, int64(1), fetched.Stats.FailedExecutions)
	assert.Equal(t, models.ExecutionStatusFailed, fetched.Stats.LastExecutionStatus)

	// Soft delete hides the row but keeps it on disk.
	require.NoError(t, repo.Delete(ctx, automation.ID, "user-1"))

	_, err = repo.GetByIDForOwner(ctx, automation.ID, "user-1")
	assert.ErrorIs(t, err, persistence.ErrAutomationNotFound)

	err = repo.Delete(ctx, automation.ID, "user-1")
	assert.ErrorIs(t, err, persistence.ErrAutomationNotFound)
}

func TestExecutionLifecycle_Integration(t *testing.T) {
	p, ctx := setupTestDB(t)

	automation := &models.Automation{
		ID:      uuid.New().String(),
		OwnerID: "user-1",
		Name:    "Audited Automation",
		Steps:   []*models.Step{{Type: "notification", Config: map[string]any{"title": "ping"}}},
	}
	require.NoError(t, p.AutomationRepository().Save(ctx, automation))

	started := time.Now().UTC().Truncate(time.Millisecond)
	execution := &models.Execution{
		ID:           uuid.New().String(),
		AutomationID: automation.ID,
		UserID:       "user-1",
		Status:       models.ExecutionStatusRunning,
		TriggerData:  map[string]any{"source": "test"},
		TotalSteps:   1,
		StartedAt:    started,
	}

	require.NoError(t, p.ExecutionRepository().Create(ctx, execution))

	actionLog := &models.ActionLog{
		ID:          uuid.New().String(),
		ExecutionID: execution.ID,
		StepIndex:   0,
		StepType:    "notification",
		InputData:   map[string]any{"title": "ping"},
		Status:      models.ExecutionStatusRunning,
		StartedAt:   started,
	}
	require.NoError(t, p.ActionLogRepository().Create(ctx, actionLog))

	completed := started.Add(50 * time.Millisecond)
	actionLog.Status = models.ExecutionStatusSuccess
	actionLog.OutputData = map[string]any{"delivered": true}
	actionLog.CompletedAt = &completed
	actionLog.Duration = 50 * time.Millisecond
	require.NoError(t, p.ActionLogRepository().Finalize(ctx, actionLog))

	execution.Status = models.ExecutionStatusSuccess
	execution.ActionsCompleted = 1
	execution.Result = []any{map[string]any{"delivered": true}}
	execution.CompletedAt = &completed
	execution.Duration = 50 * time.Millisecond
	require.NoError(t, p.ExecutionRepository().Finalize(ctx, execution))

	fetched, err := p.ExecutionRepository().GetByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusSuccess, fetched.Status)
	assert.Equal(t, 1, fetched.ActionsCompleted)
	assert.Equal(t, "test", fetched.TriggerData["source"])
	require.Len(t, fetched.Result, 1)
	assert.Equal(t, 50*time.Millisecond, fetched.Duration)

	logs, err := p.ActionLogRepository().ListByExecution(ctx, execution.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ExecutionStatusSuccess, logs[0].Status)
	assert.Equal(t, "notification", logs[0].StepType)

	list, err := p.ExecutionRepository().ListByAutomation(ctx, automation.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, execution.ID, list[0].ID)

	_, err = p.ExecutionRepository().GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, persistence.ErrExecutionNotFound)
}
