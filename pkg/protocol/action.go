// Package protocol defines the contracts between the run controller and
// action executors.
package protocol

import (
	"context"
	"log/slog"

	"github.com/freeflowhq/automation-engine/pkg/models"
)

// Outcome is the uniform result contract for every executor. Success=false
// marks the step as failed without aborting the executor call itself; the
// run controller decides, per the halt rule, whether the run continues.
type Outcome struct {
	Success bool   `json:"success"`
	Output  any    `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Action performs the side effect for one step type. Implementations must be
// safe for concurrent use: the same instance may serve overlapping runs.
type Action interface {
	Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*Outcome, error)
}

// ActionFactory builds an Action from a step's configuration. Factories are
// registered once at process start.
type ActionFactory interface {
	ID() string
	Create(config map[string]any) (Action, error)
	Schema() map[string]any
}
