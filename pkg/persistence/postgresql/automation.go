package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
)

// AutomationRepository handles automation-related database operations.
type AutomationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAutomationRepository creates a new automation repository.
func NewAutomationRepository(db *sql.DB, logger *slog.Logger) *AutomationRepository {
	return &AutomationRepository{db: db, logger: logger}
}

func (r *AutomationRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Automation, error) {
	query := `
		SELECT
			id
		  , owner_id
		  , name
		  , description
		  , steps
		  , total_executions
		  , successful_executions
		  , failed_executions
		  , last_execution_status
		  , last_execution_at
		  , created_at
		  , updated_at
		  , deleted_at
		FROM automations
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`

	row := r.db.QueryRowContext(ctx, query, id, ownerID)

	automation, err := r.scanAutomation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrAutomationNotFound
		}

		return nil, fmt.Errorf("failed to scan automation: %w", err)
	}

	return automation, nil
}

func (r *AutomationRepository) List(ctx context.Context, ownerID string) ([]*models.Automation, error) {
	query := `
		SELECT
			id
		  , owner_id
		  , name
		  , description
		  , steps
		  , total_executions
		  , successful_executions
		  , failed_executions
		  , last_execution_status
		  , last_execution_at
		  , created_at
		  , updated_at
		  , deleted_at
		FROM automations
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query automations: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	automations := make([]*models.Automation, 0)

	for rows.Next() {
		automation, err := r.scanAutomation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan automation: %w", err)
		}

		automations = append(automations, automation)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating automations: %w", err)
	}

	return automations, nil
}

// Save inserts or updates an automation. Stats columns are written only on
// insert; updates go through IncrementStats so concurrent runs never clobber
// the counters.
func (r *AutomationRepository) Save(ctx context.Context, automation *models.Automation) error {
	now := time.Now().UTC()

	if automation.CreatedAt.IsZero() {
		automation.CreatedAt = now
	}

	automation.UpdatedAt = now

	if automation.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate automation ID: %w", err)
		}

		automation.ID = id.String()
	}

	stepsJSON, err := json.Marshal(automation.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}

	query := `
		INSERT INTO automations (id, owner_id, name, description, steps,
			total_executions, successful_executions, failed_executions,
			last_execution_status, last_execution_at,
			created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			steps = EXCLUDED.steps,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	var lastStatus *string
	if automation.Stats.LastExecutionStatus != "" {
		status := string(automation.Stats.LastExecutionStatus)
		lastStatus = &status
	}

	_, err = r.db.ExecContext(ctx, query,
		automation.ID,
		automation.OwnerID,
		automation.Name,
		automation.Description,
		stepsJSON,
		automation.Stats.TotalExecutions,
		automation.Stats.SuccessfulExecutions,
		automation.Stats.FailedExecutions,
		lastStatus,
		automation.Stats.LastExecutionAt,
		automation.CreatedAt,
		automation.UpdatedAt,
		automation.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save automation: %w", err)
	}

	return nil
}

// Delete soft deletes an automation by setting the deleted_at timestamp.
func (r *AutomationRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `UPDATE automations SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete automation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrAutomationNotFound
	}

	return nil
}

// IncrementStats rolls one run's outcome into the aggregate counters with a
// single UPDATE so concurrent runs never lose increments.
func (r *AutomationRepository) IncrementStats(ctx context.Context, id string, delta persistence.StatsDelta) error {
	query := `
		UPDATE automations SET
			total_executions = total_executions + 1,
			successful_executions = successful_executions + $2,
			failed_executions = failed_executions + $3,
			last_execution_status = $4,
			last_execution_at = $5
		WHERE id = $1
	`

	successDelta, failedDelta := 0, 1
	if delta.Success {
		successDelta, failedDelta = 1, 0
	}

	result, err := r.db.ExecContext(ctx, query, id, successDelta, failedDelta, string(delta.LastStatus), delta.LastAt)
	if err != nil {
		return fmt.Errorf("failed to increment automation stats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrAutomationNotFound
	}

	return nil
}

func (r *AutomationRepository) scanAutomation(scanner interface {
	Scan(dest ...any) error
}) (*models.Automation, error) {
	var (
		automation models.Automation
		stepsJSON  []byte
		lastStatus sql.NullString
	)

	err := scanner.Scan(
		&automation.ID,
		&automation.OwnerID,
		&automation.Name,
		&automation.Description,
		&stepsJSON,
		&automation.Stats.TotalExecutions,
		&automation.Stats.SuccessfulExecutions,
		&automation.Stats.FailedExecutions,
		&lastStatus,
		&automation.Stats.LastExecutionAt,
		&automation.CreatedAt,
		&automation.UpdatedAt,
		&automation.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if stepsJSON != nil {
		err := json.Unmarshal(stepsJSON, &automation.Steps)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
		}
	}

	if lastStatus.Valid {
		automation.Stats.LastExecutionStatus = models.ExecutionStatus(lastStatus.String)
	}

	return &automation, nil
}
