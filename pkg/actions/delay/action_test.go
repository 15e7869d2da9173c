package delay

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeflowhq/automation-engine/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestNewAction_Seconds(t *testing.T) {
	action, err := NewAction(map[string]any{"seconds": 2})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, action.Requested)

	// JSON numbers decode as float64.
	action, err = NewAction(map[string]any{"seconds": 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, action.Requested)

	action, err = NewAction(map[string]any{"seconds": -3})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), action.Requested)

	action, err = NewAction(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), action.Requested)
}

func TestAction_Execute_ClampsToMaxDelay(t *testing.T) {
	action, err := NewAction(map[string]any{"seconds": 100})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("automation-1", "user-1", "", nil)

	// Cancel quickly so the test does not actually sleep the clamped bound;
	// the clamp is still observable in the reported output.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	started := time.Now()
	outcome, err := action.Execute(ctx, executionCtx, testLogger())
	elapsed := time.Since(started)

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Less(t, elapsed, MaxDelay)

	output, ok := outcome.Output.(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 100.0, output["requested_seconds"], 0.001)
	assert.InDelta(t, MaxDelay.Seconds(), output["actual_seconds"], 0.001)
}

func TestAction_Execute_WaitsRequestedDuration(t *testing.T) {
	action, err := NewAction(map[string]any{"seconds": 0.1})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("automation-1", "user-1", "", nil)

	started := time.Now()
	outcome, err := action.Execute(context.Background(), executionCtx, testLogger())
	elapsed := time.Since(started)

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}
