// Package tenant enforces the platform's tenant isolation naming rules.
//
// Work is either tenant-scoped (one worker pool per tenant, queue named
// {tenantId}:{workflowType}) or system-scoped (one shared worker pool, queue
// named by the bare workflow type). Policy derives queue names and validates
// that inbound work matches the tenant a worker was provisioned for before
// it is dispatched.
package tenant
