package condition

import "github.com/freeflowhq/automation-engine/pkg/protocol"

// ActionFactory creates condition actions.
type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (f *ActionFactory) ID() string {
	return "condition"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Context field to test. Dot-paths descend into nested maps.",
			},
			"operator": map[string]any{
				"type": "string",
				"enum": []string{
					"equals", "not_equals", "contains", "greater", "less", "exists",
				},
			},
			"value": map[string]any{
				"description": "Value to compare against. Ignored for 'exists'.",
			},
		},
		"required": []string{"field", "operator"},
	}
}
