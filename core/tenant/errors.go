package tenant

import "errors"

var (
	// ErrTenantRequired is returned when tenant-scoped work is named or
	// validated without a tenant id.
	ErrTenantRequired = errors.New("tenant id is required for tenant-scoped work")
)
