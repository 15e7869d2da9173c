package condition

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

func execContext(data map[string]any) *models.ExecutionContext {
	return models.NewExecutionContext("automation-1", "user-1", "user@example.com", data)
}

func TestNewAction_Validation(t *testing.T) {
	_, err := NewAction(map[string]any{"operator": "equals"})
	assert.ErrorIs(t, err, ErrFieldRequired)

	_, err = NewAction(map[string]any{"field": "score", "operator": "between"})
	assert.ErrorIs(t, err, ErrOperatorInvalid)
}

func TestNewAction_OperatorSpellings(t *testing.T) {
	tests := []struct {
		given string
		want  string
	}{
		{"equals", OperatorEquals},
		{"not-equals", OperatorNotEquals},
		{"not_equals", OperatorNotEquals},
		{"greater", OperatorGreater},
		{"greater_than", OperatorGreater},
		{"less-than", OperatorLess},
		{"exists", OperatorExists},
	}

	for _, tt := range tests {
		action, err := NewAction(map[string]any{"field": "x", "operator": tt.given})
		require.NoError(t, err, tt.given)
		assert.Equal(t, tt.want, action.Operator, tt.given)
	}
}

func TestAction_Execute_Operators(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]any
		data     map[string]any
		expected bool
	}{
		{
			name:     "greater true",
			config:   map[string]any{"field": "score", "operator": "greater", "value": 10},
			data:     map[string]any{"score": 15},
			expected: true,
		},
		{
			name:     "greater false",
			config:   map[string]any{"field": "score", "operator": "greater", "value": 10},
			data:     map[string]any{"score": 5},
			expected: false,
		},
		{
			name:     "less true",
			config:   map[string]any{"field": "score", "operator": "less", "value": 10},
			data:     map[string]any{"score": 5},
			expected: true,
		},
		{
			name:     "equals numeric across types",
			config:   map[string]any{"field": "count", "operator": "equals", "value": "10"},
			data:     map[string]any{"count": float64(10)},
			expected: true,
		},
		{
			name:     "equals string",
			config:   map[string]any{"field": "status", "operator": "equals", "value": "paid"},
			data:     map[string]any{"status": "paid"},
			expected: true,
		},
		{
			name:     "not equals",
			config:   map[string]any{"field": "status", "operator": "not-equals", "value": "paid"},
			data:     map[string]any{"status": "overdue"},
			expected: true,
		},
		{
			name:     "contains substring",
			config:   map[string]any{"field": "email", "operator": "contains", "value": "@example.com"},
			data:     map[string]any{"email": "user@example.com"},
			expected: true,
		},
		{
			name:     "contains list element",
			config:   map[string]any{"field": "tags", "operator": "contains", "value": "vip"},
			data:     map[string]any{"tags": []any{"new", "vip"}},
			expected: true,
		},
		{
			name:     "exists present",
			config:   map[string]any{"field": "score", "operator": "exists"},
			data:     map[string]any{"score": 0},
			expected: true,
		},
		{
			name:     "exists missing",
			config:   map[string]any{"field": "missing", "operator": "exists"},
			data:     map[string]any{},
			expected: false,
		},
		{
			name:     "nested field lookup",
			config:   map[string]any{"field": "client.plan", "operator": "equals", "value": "pro"},
			data:     map[string]any{"client": map[string]any{"plan": "pro"}},
			expected: true,
		},
		{
			name:     "greater on non-numeric is false",
			config:   map[string]any{"field": "status", "operator": "greater", "value": 10},
			data:     map[string]any{"status": "paid"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := NewAction(tt.config)
			require.NoError(t, err)

			outcome, err := action.Execute(context.Background(), execContext(tt.data), testLogger())
			require.NoError(t, err)

			assert.Equal(t, tt.expected, outcome.Success)

			output, ok := outcome.Output.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.expected, output["result"])

			if !tt.expected {
				assert.Contains(t, outcome.Error, "condition not met")
			}
		})
	}
}
