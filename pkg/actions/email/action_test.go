package email

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeflowhq/automation-engine/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestNewAction_Validation(t *testing.T) {
	_, err := NewAction(map[string]any{"subject": "hi"})
	assert.ErrorIs(t, err, ErrEmailToRequired)

	_, err = NewAction(map[string]any{"to": "a@b.com"})
	assert.ErrorIs(t, err, ErrEmailSubjectRequired)

	action, err := NewAction(map[string]any{"to": "a@b.com", "subject": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", action.To)
}

func TestAction_Execute_RendersTemplates(t *testing.T) {
	action, err := NewAction(map[string]any{
		"to":      "{{client.email}}",
		"subject": "Invoice for {{client.name}}",
		"body":    "Amount due: {{amount}}",
	})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("automation-1", "user-1", "user@example.com", map[string]any{
		"client": map[string]any{"email": "client@example.com", "name": "Acme"},
		"amount": 250,
	})

	outcome, err := action.Execute(context.Background(), executionCtx, testLogger())
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	output, ok := outcome.Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "client@example.com", output["to"])
	assert.Equal(t, "Invoice for Acme", output["subject"])
	assert.Equal(t, "Amount due: 250", output["body"])
	assert.NotEmpty(t, output["message_id"])
	assert.NotEmpty(t, output["sent_at"])
}
