// Package template interpolates execution context values into step
// configuration strings using {{field}} placeholders. Dot-separated fields
// descend into nested maps ("{{client.email}}").
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/freeflowhq/automation-engine/pkg/models"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([\w.]+)\s*\}\}`)

// Render replaces every {{field}} placeholder in input with the value from
// the execution context. Unknown fields render as an empty string.
func Render(input string, executionCtx *models.ExecutionContext) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		field := placeholderPattern.FindStringSubmatch(match)[1]

		value, ok := executionCtx.Lookup(field)
		if !ok || value == nil {
			return ""
		}

		return fmt.Sprintf("%v", value)
	})
}

// RenderConfig returns a copy of config with every string value rendered
// against the execution context. Nested maps are rendered recursively;
// non-string values pass through unchanged.
func RenderConfig(config map[string]any, executionCtx *models.ExecutionContext) map[string]any {
	if config == nil {
		return nil
	}

	rendered := make(map[string]any, len(config))

	for key, value := range config {
		switch v := value.(type) {
		case string:
			rendered[key] = Render(v, executionCtx)
		case map[string]any:
			rendered[key] = RenderConfig(v, executionCtx)
		default:
			rendered[key] = value
		}
	}

	return rendered
}
