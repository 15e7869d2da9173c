package file

import (
	"context"
	"sort"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
)

const actionLogsDir = "action_logs"

// ActionLogRepository stores per-step audit records as JSON documents.
type ActionLogRepository struct {
	persistence *Persistence
}

func (r *ActionLogRepository) Create(ctx context.Context, actionLog *models.ActionLog) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	return r.persistence.writeDocument(actionLogsDir, actionLog.ID, actionLog)
}

func (r *ActionLogRepository) Finalize(ctx context.Context, actionLog *models.ActionLog) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	var existing models.ActionLog

	found, err := r.persistence.readDocument(actionLogsDir, actionLog.ID, &existing)
	if err != nil {
		return err
	}

	if !found {
		return persistence.ErrActionLogNotFound
	}

	return r.persistence.writeDocument(actionLogsDir, actionLog.ID, actionLog)
}

func (r *ActionLogRepository) ListByExecution(ctx context.Context, executionID string) ([]*models.ActionLog, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	ids, err := r.persistence.listDocumentIDs(actionLogsDir)
	if err != nil {
		return nil, err
	}

	logs := make([]*models.ActionLog, 0)

	for _, id := range ids {
		var actionLog models.ActionLog

		found, err := r.persistence.readDocument(actionLogsDir, id, &actionLog)
		if err != nil {
			return nil, err
		}

		if !found || actionLog.ExecutionID != executionID {
			continue
		}

		logs = append(logs, &actionLog)
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].StepIndex < logs[j].StepIndex
	})

	return logs, nil
}
