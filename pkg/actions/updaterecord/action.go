// Package updaterecord provides the generic record-update action.
package updaterecord

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
)

// Action asks the CRUD collaborator to update a record's fields.
type Action struct {
	Entity   string
	RecordID string
	Fields   map[string]any
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

	fields, _ := config["fields"].(map[string]any)

	return &Action{Entity: entity, RecordID: recordID, Fields: fields}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "update_record")

	recordID := template.Render(a.RecordID, executionCtx)
	fields := template.RenderConfig(a.Fields, executionCtx)

	logger.InfoContext(ctx, "Updating record", "entity", a.Entity, "record_id", recordID)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"entity":    a.Entity,
			"record_id": recordID,
			"fields":    fields,
			"updated":   true,
		},
	}, nil
}
