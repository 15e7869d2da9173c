package invoice

import "github.com/freeflowhq/automation-engine/pkg/protocol"

type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (f *ActionFactory) ID() string {
	return "send_invoice"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"client_id": map[string]any{"type": "string"},
			"amount":    map[string]any{"type": "number"},
			"currency":  map[string]any{"type": "string", "default": "USD"},
			"due_days":  map[string]any{"type": "integer", "default": 30},
		},
		"required": []string{"client_id"},
	}
}
