package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
)

// ExecutionRepository handles execution-related database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

func (r *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	triggerDataJSON, err := json.Marshal(execution.TriggerData)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger data: %w", err)
	}

	query := `
		INSERT INTO executions (id, automation_id, user_id, status, trigger_data,
			actions_completed, actions_failed, total_steps, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.AutomationID,
		execution.UserID,
		string(execution.Status),
		triggerDataJSON,
		execution.ActionsCompleted,
		execution.ActionsFailed,
		execution.TotalSteps,
		execution.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create execution: %w", err)
	}

	return nil
}

// Finalize writes the terminal status and outcome fields of an execution.
func (r *ExecutionRepository) Finalize(ctx context.Context, execution *models.Execution) error {
	resultJSON, err := json.Marshal(execution.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		UPDATE executions SET
			status = $2,
			actions_completed = $3,
			actions_failed = $4,
			result = $5,
			error_message = $6,
			completed_at = $7,
			duration_ms = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		execution.ID,
		string(execution.Status),
		execution.ActionsCompleted,
		execution.ActionsFailed,
		resultJSON,
		nullableString(execution.ErrorMessage),
		execution.CompletedAt,
		execution.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to finalize execution: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrExecutionNotFound
	}

	return nil
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `
		SELECT
			id
		  , automation_id
		  , user_id
		  , status
		  , trigger_data
		  , actions_completed
		  , actions_failed
		  , total_steps
		  , result
		  , error_message
		  , started_at
		  , completed_at
		  , duration_ms
		FROM executions
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	execution, err := r.scanExecution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return execution, nil
}

func (r *ExecutionRepository) ListByAutomation(ctx context.Context, automationID string) ([]*models.Execution, error) {
	query := `
		SELECT
			id
		  , automation_id
		  , user_id
		  , status
		  , trigger_data
		  , actions_completed
		  , actions_failed
		  , total_steps
		  , result
		  , error_message
		  , started_at
		  , completed_at
		  , duration_ms
		FROM executions
		WHERE automation_id = $1
		ORDER BY started_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, automationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := r.scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

func (r *ExecutionRepository) scanExecution(scanner interface {
	Scan(dest ...any) error
}) (*models.Execution, error) {
	var (
		execution       models.Execution
		status          string
		triggerDataJSON []byte
		resultJSON      []byte
		errorMessage    sql.NullString
		durationMS      sql.NullInt64
	)

	err := scanner.Scan(
		&execution.ID,
		&execution.AutomationID,
		&execution.UserID,
		&status,
		&triggerDataJSON,
		&execution.ActionsCompleted,
		&execution.ActionsFailed,
		&execution.TotalSteps,
		&resultJSON,
		&errorMessage,
		&execution.StartedAt,
		&execution.CompletedAt,
		&durationMS,
	)
	if err != nil {
		return nil, err
	}

	execution.Status = models.ExecutionStatus(status)

	if triggerDataJSON != nil {
		err := json.Unmarshal(triggerDataJSON, &execution.TriggerData)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal trigger data: %w", err)
		}
	}

	if resultJSON != nil {
		err := json.Unmarshal(resultJSON, &execution.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
	}

	if errorMessage.Valid {
		execution.ErrorMessage = errorMessage.String
	}

	if durationMS.Valid {
		execution.Duration = time.Duration(durationMS.Int64) * time.Millisecond
	}

	return &execution, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
