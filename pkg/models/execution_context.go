package models

import "strings"

// ExecutionContext is the mutable key/value state shared across all steps of
// one run. It is seeded from the trigger data plus caller identity and is
// discarded at run end; only per-step input/output snapshots are persisted.
//
// The context is passed by pointer so that an executor enriching it is
// observed by later steps of the same run. None of the built-in executors
// write to it today, but the contract supports it.
type ExecutionContext struct {
	ExecutionID  string
	AutomationID string
	UserID       string
	UserEmail    string
	Data         map[string]any
}

// NewExecutionContext builds the context for one run: a shallow copy of the
// trigger data with the caller identity merged in under user_id/user_email.
func NewExecutionContext(automationID, userID, userEmail string, triggerData map[string]any) *ExecutionContext {
	data := make(map[string]any, len(triggerData)+2)
	for k, v := range triggerData {
		data[k] = v
	}

	data["user_id"] = userID
	data["user_email"] = userEmail

	return &ExecutionContext{
		AutomationID: automationID,
		UserID:       userID,
		UserEmail:    userEmail,
		Data:         data,
	}
}

// Get returns the value for key, or nil when absent.
func (c *ExecutionContext) Get(key string) any {
	v, _ := c.Lookup(key)

	return v
}

// Lookup resolves key against the context data. Dot-separated keys descend
// into nested maps ("client.email").
func (c *ExecutionContext) Lookup(key string) (any, bool) {
	if v, ok := c.Data[key]; ok {
		return v, true
	}

	if !strings.Contains(key, ".") {
		return nil, false
	}

	var current any = c.Data

	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Set stores a value visible to all later steps of the run.
func (c *ExecutionContext) Set(key string, value any) {
	if c.Data == nil {
		c.Data = make(map[string]any)
	}

	c.Data[key] = value
}
