// Package project provides the project-creation action.
package project

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

var ErrNameRequired = errors.New("missing or invalid 'name' in configuration")

// Action asks the project collaborator to create a project, optionally from
// a template.
type Action struct {
	Name     string
	ClientID string
	Template string
}

func NewAction(config map[string]any) (*Action, error) {
	name, ok := config["name"].(string)
	if !ok || name == "" {
		return nil, ErrNameRequired
	}

	clientID, _ := config["client_id"].(string)
	projectTemplate, _ := config["template"].(string)

	return &Action{Name: name, ClientID: clientID, Template: projectTemplate}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "create_project")

	name := template.Render(a.Name, executionCtx)
	clientID := template.Render(a.ClientID, executionCtx)

	logger.InfoContext(ctx, "Creating project", "name", name, "owner", executionCtx.UserID)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"project_id": fmt.Sprintf("prj-%s", uuid.New().String()[:8]),
			"name":       name,
			"client_id":  clientID,
			"template":   a.Template,
			"created":    true,
		},
	}, nil
}
