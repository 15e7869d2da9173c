package statusupdate

import "github.com/freeflowhq/automation-engine/pkg/protocol"

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (f *ActionFactory) ID() string {
	return "update_status"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"entity":    map[string]any{"type": "string"},
			"record_id": map[string]any{"type": "string"},
			"status":    map[string]any{"type": "string"},
		},
		"required": []string{"entity", "record_id", "status"},
	}
}
