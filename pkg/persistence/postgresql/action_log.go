package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
)

// ActionLogRepository handles per-step audit record database operations.
type ActionLogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewActionLogRepository creates a new action log repository.
func NewActionLogRepository(db *sql.DB, logger *slog.Logger) *ActionLogRepository {
	return &ActionLogRepository{db: db, logger: logger}
}

func (r *ActionLogRepository) Create(ctx context.Context, actionLog *models.ActionLog) error {
	inputDataJSON, err := json.Marshal(actionLog.InputData)
	if err != nil {
		return fmt.Errorf("failed to marshal input data: %w", err)
	}

	query := `
		INSERT INTO action_logs (id, execution_id, step_index, step_type, status, input_data, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		actionLog.ID,
		actionLog.ExecutionID,
		actionLog.StepIndex,
		actionLog.StepType,
		string(actionLog.Status),
		inputDataJSON,
		actionLog.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create action log: %w", err)
	}

	return nil
}

// Finalize writes the terminal status and outcome fields of an action log.
func (r *ActionLogRepository) Finalize(ctx context.Context, actionLog *models.ActionLog) error {
	outputDataJSON, err := json.Marshal(actionLog.OutputData)
	if err != nil {
		return fmt.Errorf("failed to marshal output data: %w", err)
	}

	query := `
		UPDATE action_logs SET
			status = $2,
			output_data = $3,
			error_message = $4,
			completed_at = $5,
			duration_ms = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		actionLog.ID,
		string(actionLog.Status),
		outputDataJSON,
		nullableString(actionLog.ErrorMessage),
		actionLog.CompletedAt,
		actionLog.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to finalize action log: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrActionLogNotFound
	}

	return nil
}

func (r *ActionLogRepository) ListByExecution(ctx context.Context, executionID string) ([]*models.ActionLog, error) {
	query := `
		SELECT
			id
		  , execution_id
		  , step_index
		  , step_type
		  , status
		  , input_data
		  , output_data
		  , error_message
		  , started_at
		  , completed_at
		  , duration_ms
		FROM action_logs
		WHERE execution_id = $1
		ORDER BY step_index
	`

	rows, err := r.db.QueryContext(ctx, query, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query action logs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	logs := make([]*models.ActionLog, 0)

	for rows.Next() {
		var (
			actionLog      models.ActionLog
			status         string
			inputDataJSON  []byte
			outputDataJSON []byte
			errorMessage   sql.NullString
			durationMS     sql.NullInt64
		)

		err := rows.Scan(
			&actionLog.ID,
			&actionLog.ExecutionID,
			&actionLog.StepIndex,
			&actionLog.StepType,
			&status,
			&inputDataJSON,
			&outputDataJSON,
			&errorMessage,
			&actionLog.StartedAt,
			&actionLog.CompletedAt,
			&durationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action log: %w", err)
		}

		actionLog.Status = models.ExecutionStatus(status)

		if inputDataJSON != nil {
			err := json.Unmarshal(inputDataJSON, &actionLog.InputData)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal input data: %w", err)
			}
		}

		if outputDataJSON != nil {
			err := json.Unmarshal(outputDataJSON, &actionLog.OutputData)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal output data: %w", err)
			}
		}

		if errorMessage.Valid {
			actionLog.ErrorMessage = errorMessage.String
		}

		if durationMS.Valid {
			actionLog.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		}

		logs = append(logs, &actionLog)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating action logs: %w", err)
	}

	return logs, nil
}
