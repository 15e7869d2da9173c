// Package delay provides the bounded wait action.
package delay

import (
	"context"
	"log/slog"
	"time"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
)

// MaxDelay bounds the sleep regardless of the requested value, so a single
// automation cannot occupy a worker indefinitely.
const MaxDelay = 5 * time.Second

// Action suspends the run for a configured number of seconds, clamped to
// MaxDelay. It always reports success.
type Action struct {
	Requested time.Duration
}

func NewAction(config map[string]any) (*Action, error) {
	var seconds float64

	switch v := config["seconds"].(type) {
	case int:
		seconds = float64(v)
	case int64:
		seconds = float64(v)
	case float64:
		seconds = v
	}

	if seconds < 0 {
		seconds = 0
	}

	return &Action{Requested: time.Duration(seconds * float64(time.Second))}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "delay")

	actual := a.Requested
	if actual > MaxDelay {
		actual = MaxDelay
	}

	logger.InfoContext(ctx, "Delaying execution",
		"requested", a.Requested.String(), "actual", actual.String())

	if actual > 0 {
		timer := time.NewTimer(actual)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"requested_seconds": a.Requested.Seconds(),
			"actual_seconds":    actual.Seconds(),
			"delayed_until":     time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
