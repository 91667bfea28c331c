package workflowctx

import "errors"

var (
	// ErrNotInContext is returned when a value is required but no execution
	// context is active and no override or parent metadata can supply it.
	ErrNotInContext = errors.New("no active execution context")
	// ErrInvalidIdentifier is returned when a workflow identifier string
	// does not follow the {tenantId}:{workflowType}[:{idPostfix}] format.
	ErrInvalidIdentifier = errors.New("invalid workflow identifier")
)
