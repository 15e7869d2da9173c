package email

import "github.com/freeflowhq/automation-engine/pkg/protocol"

// ActionFactory creates email actions.
type ActionFactory struct{}

func NewActionFactory() *ActionFactory {
	return &ActionFactory{}
}

func (f *ActionFactory) ID() string {
	return "email"
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient address. Supports {{field}} templating.",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Email subject. Supports {{field}} templating.",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Email body. Supports {{field}} templating.",
			},
		},
		"required": []string{"to", "subject"},
	}
}
