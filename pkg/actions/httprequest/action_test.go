package httprequest

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
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

func TestNewAction_Validation(t *testing.T) {
	_, err := NewAction(map[string]any{})
	assert.ErrorIs(t, err, ErrHTTPRequestURLInvalid)

	_, err = NewAction(map[string]any{"url": "http://example.com", "method": "TRACE"})
	assert.ErrorIs(t, err, ErrHTTPMethodInvalid)

	action, err := NewAction(map[string]any{"url": "http://example.com"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, action.Method)
	assert.Equal(t, 30*time.Second, action.Timeout)

	action, err = NewAction(map[string]any{"url": "http://example.com", "method": "post", "timeout_seconds": 500})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, action.Method)
	assert.Equal(t, 120*time.Second, action.Timeout)
}

func TestAction_Execute_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{
		"url":    server.URL,
		"method": "POST",
		"body":   `{"user": "{{user_id}}"}`,
		"headers": map[string]any{
			"Authorization": "Bearer {{token}}",
		},
	})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("automation-1", "user-1", "", map[string]any{
		"token": "token-123",
	})

	outcome, err := action.Execute(context.Background(), executionCtx, testLogger())
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	output, ok := outcome.Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, output["status_code"])
	assert.Equal(t, map[string]any{"ok": true}, output["body"])
}

func TestAction_Execute_NonSuccessStatusIsFailedOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down for maintenance"))
	}))
	defer server.Close()

	action, err := NewAction(map[string]any{"url": server.URL})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("automation-1", "user-1", "", nil)

	outcome, err := action.Execute(context.Background(), executionCtx, testLogger())
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "unexpected status code 503")

	output, ok := outcome.Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "down for maintenance", output["body"])
}

func TestAction_Execute_ConnectionErrorIsError(t *testing.T) {
	action, err := NewAction(map[string]any{"url": "http://127.0.0.1:1", "timeout_seconds": 1})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("automation-1", "user-1", "", nil)

	_, err = action.Execute(context.Background(), executionCtx, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http request failed")
}
