// Package persistence provides standardized error types for storage operations.
package persistence

import "errors"

// Standard persistence error types that all implementations should use.
var (
	// ErrAutomationNotFound indicates no automation exists for the given id
	// and owner, or it has been soft-deleted.
	ErrAutomationNotFound = errors.New("automation not found")

	// ErrExecutionNotFound indicates an execution was not found by the given identifier.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrActionLogNotFound indicates an action log was not found by the given identifier.
	ErrActionLogNotFound = errors.New("action log not found")

	// ErrStoreUnavailable indicates the durable store cannot be reached; the
	// engine degrades to unaudited execution rather than failing the run.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsAutomationNotFound checks if an error indicates an automation was not found.
func IsAutomationNotFound(err error) bool {
	return errors.Is(err, ErrAutomationNotFound)
}

// IsExecutionNotFound checks if an error indicates an execution was not found.
func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}

// IsStoreUnavailable checks if an error indicates the store cannot be reached.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
