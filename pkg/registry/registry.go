// Package registry maps action-type identifiers to executor factories.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/freeflowhq/automation-engine/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

// Registry resolves a step's type string to an action factory. Lookup is
// case-sensitive and exact-match. Registration happens once at process
// start; the registry is read-only afterwards.
type Registry struct {
	logger          *slog.Logger
	actionFactories map[string]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:          logger,
		actionFactories: make(map[string]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.actionFactories[factory.ID()] = factory
}

// CreateAction resolves actionType and builds an executor from config. An
// unresolved type is an error the run controller records as a failed step,
// never a process-level crash.
func (r *Registry) CreateAction(actionType string, config map[string]any) (protocol.Action, error) {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return nil, fmt.Errorf("unknown action type: %s", actionType)
	}

	return factory.Create(config)
}

// ValidateConfig checks a step configuration against the factory's JSON
// schema. Factories without a schema accept any configuration.
func (r *Registry) ValidateConfig(actionType string, config map[string]any) error {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return fmt.Errorf("unknown action type: %s", actionType)
	}

	schema := factory.Schema()
	if schema == nil {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("failed to validate config for action type %s: %w", actionType, err)
	}

	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("invalid config for action type %s: %s", actionType, errs[0].String())
		}

		return fmt.Errorf("invalid config for action type %s", actionType)
	}

	return nil
}

// AvailableActions returns the registered action type identifiers.
func (r *Registry) AvailableActions() []string {
	types := make([]string, 0, len(r.actionFactories))
	for actionType := range r.actionFactories {
		types = append(types, actionType)
	}

	return types
}
