package file

import (
	"context"
	"sort"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
)

const executionsDir = "executions"

// ExecutionRepository stores run records as JSON documents.
type ExecutionRepository struct {
	persistence *Persistence
}

func (r *ExecutionRepository) Create(ctx context.Context, execution *models.Execution) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	return r.persistence.writeDocument(executionsDir, execution.ID, execution)
}

func (r *ExecutionRepository) Finalize(ctx context.Context, execution *models.Execution) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	var existing models.Execution

	found, err := r.persistence.readDocument(executionsDir, execution.ID, &existing)
	if err != nil {
		return err
	}

	if !found {
		return persistence.ErrExecutionNotFound
	}

	return r.persistence.writeDocument(executionsDir, execution.ID, execution)
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	var execution models.Execution

	found, err := r.persistence.readDocument(executionsDir, id, &execution)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, persistence.ErrExecutionNotFound
	}

	return &execution, nil
}

func (r *ExecutionRepository) ListByAutomation(ctx context.Context, automationID string) ([]*models.Execution, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	ids, err := r.persistence.listDocumentIDs(executionsDir)
	if err != nil {
		return nil, err
	}

	executions := make([]*models.Execution, 0)

	for _, id := range ids {
		var execution models.Execution

		found, err := r.persistence.readDocument(executionsDir, id, &execution)
		if err != nil {
			return nil, err
		}

		if !found || execution.AutomationID != automationID {
			continue
		}

		executions = append(executions, &execution)
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})

	return executions, nil
}
