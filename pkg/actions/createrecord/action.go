// Package createrecord provides the record-creation action.
package createrecord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
	"github.com/freeflowhq/automation-engine/pkg/template"
	"github.com/google/uuid"
)

// ErrEntityRequired is returned when the target entity is missing.
var ErrEntityRequired = errors.New("missing or invalid 'entity' in configuration")

// Action asks the CRUD collaborator to create a record of the given entity
// type with the given fields.
type Action struct {
	Entity string
	Fields map[string]any
}

func NewAction(config map[string]any) (*Action, error) {
	entity, ok := config["entity"].(string)
	if !ok || entity == "" {
		return nil, ErrEntityRequired
	}

	fields, _ := config["fields"].(map[string]any)

	return &Action{Entity: entity, Fields: fields}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "create_record")

	fields := template.RenderConfig(a.Fields, executionCtx)

	logger.InfoContext(ctx, "Creating record", "entity", a.Entity, "owner", executionCtx.UserID)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"record_id": fmt.Sprintf("rec-%s", uuid.New().String()[:8]),
			"entity":    a.Entity,
			"fields":    fields,
			"created":   true,
		},
	}, nil
}
