// Package invoice provides the invoice-send action.
package invoice

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

const defaultDueDays = 30

var ErrClientIDRequired = errors.New("missing or invalid 'client_id' in configuration")

// Action asks the invoicing collaborator to create and send an invoice.
type Action struct {
	ClientID string
	Amount   float64
	Currency string
	DueDays  int
}

func NewAction(config map[string]any) (*Action, error) {
	clientID, ok := config["client_id"].(string)
	if !ok || clientID == "" {
		return nil, ErrClientIDRequired
	}

	var amount float64

	switch v := config["amount"].(type) {
	case int:
		amount = float64(v)
	case int64:
		amount = float64(v)
	case float64:
		amount = v
	}

	currency, _ := config["currency"].(string)
	if currency == "" {
		currency = "USD"
	}

	dueDays := defaultDueDays
	if v, ok := config["due_days"].(float64); ok && v > 0 {
		dueDays = int(v)
	}

	return &Action{ClientID: clientID, Amount: amount, Currency: currency, DueDays: dueDays}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "send_invoice")

	clientID := template.Render(a.ClientID, executionCtx)
	dueAt := time.Now().UTC().AddDate(0, 0, a.DueDays)

	logger.InfoContext(ctx, "Sending invoice",
		"client_id", clientID, "amount", a.Amount, "currency", a.Currency)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"invoice_id":     fmt.Sprintf("inv-%s", uuid.New().String()[:8]),
			"invoice_number": fmt.Sprintf("INV-%d", time.Now().Unix()),
			"client_id":      clientID,
			"amount":         a.Amount,
			"currency":       a.Currency,
			"due_at":         dueAt.Format(time.RFC3339),
		},
	}, nil
}
