// Package condition provides the predicate-evaluation action. A false
// predicate is reported as a failed outcome, which the run controller
// absorbs instead of halting: "condition not met" must not abort the
// automation.
package condition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
)

var (
	// ErrFieldRequired is returned when the context field to test is missing.
	ErrFieldRequired = errors.New("missing or invalid 'field' in configuration")
	// ErrOperatorInvalid is returned for an unsupported operator.
	ErrOperatorInvalid = errors.New("invalid 'operator' in configuration")
)

const (
	OperatorEquals    = "equals"
	OperatorNotEquals = "not_equals"
	OperatorContains  = "contains"
	OperatorGreater   = "greater"
	OperatorLess      = "less"
	OperatorExists    = "exists"
)

// Action evaluates {field, operator, value} against the execution context.
// It only reads the context, never writes it.
type Action struct {
	Field    string
	Operator string
	Value    any
}

func NewAction(config map[string]any) (*Action, error) {
	field, ok := config["field"].(string)
	if !ok || field == "" {
		return nil, ErrFieldRequired
	}

	operator, _ := config["operator"].(string)

	operator = normalizeOperator(operator)
	if operator == "" {
		return nil, fmt.Errorf("%w: %v", ErrOperatorInvalid, config["operator"])
	}

	return &Action{
		Field:    field,
		Operator: operator,
		Value:    config["value"],
	}, nil
}

// normalizeOperator maps accepted spellings (including hyphenated ones) to
// the canonical operator, or returns "" for anything unsupported.
func normalizeOperator(operator string) string {
	switch strings.ReplaceAll(operator, "-", "_") {
	case OperatorEquals:
		return OperatorEquals
	case OperatorNotEquals:
		return OperatorNotEquals
	case OperatorContains:
		return OperatorContains
	case OperatorGreater, "greater_than":
		return OperatorGreater
	case OperatorLess, "less_than":
		return OperatorLess
	case OperatorExists:
		return OperatorExists
	default:
		return ""
	}
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "condition")

	actual, present := executionCtx.Lookup(a.Field)
	result := a.evaluate(actual, present)

	logger.InfoContext(ctx, "Evaluated condition",
		"field", a.Field, "operator", a.Operator, "result", result)

	output := map[string]any{
		"field":    a.Field,
		"operator": a.Operator,
		"expected": a.Value,
		"actual":   actual,
		"result":   result,
	}

	if !result {
		return &protocol.Outcome{
			Success: false,
			Output:  output,
			Error:   fmt.Sprintf("condition not met: %s %s %v", a.Field, a.Operator, a.Value),
		}, nil
	}

	return &protocol.Outcome{Success: true, Output: output}, nil
}

func (a *Action) evaluate(actual any, present bool) bool {
	switch a.Operator {
	case OperatorExists:
		return present && actual != nil
	case OperatorEquals:
		return looseEquals(actual, a.Value)
	case OperatorNotEquals:
		return !looseEquals(actual, a.Value)
	case OperatorContains:
		return contains(actual, a.Value)
	case OperatorGreater:
		left, leftOK := toFloat(actual)
		right, rightOK := toFloat(a.Value)

		return leftOK && rightOK && left > right
	case OperatorLess:
		left, leftOK := toFloat(actual)
		right, rightOK := toFloat(a.Value)

		return leftOK && rightOK && left < right
	default:
		return false
	}
}

// looseEquals compares numerically when both sides are numbers, otherwise by
// string representation, so that a JSON 10 matches a config "10".
func looseEquals(left, right any) bool {
	if lf, ok := toFloat(left); ok {
		if rf, ok := toFloat(right); ok {
			return lf == rf
		}
	}

	return fmt.Sprintf("%v", left) == fmt.Sprintf("%v", right)
}

func contains(haystack, needle any) bool {
	needleStr := fmt.Sprintf("%v", needle)

	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, needleStr)
	case []any:
		for _, item := range h {
			if looseEquals(item, needle) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)

		return f, err == nil
	default:
		return 0, false
	}
}
