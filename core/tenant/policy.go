package tenant

import (
	"io"
	"log/slog"

	"github.com/durableworks/agentkit/core/logger"
)

// Policy derives execution-queue names from (workflow type, scope, tenant)
// and validates that inbound work matches the tenant a worker was
// provisioned for.
type Policy struct {
	log *slog.Logger
}

// Option configures a Policy.
type Option func(*Policy)

// WithLogger sets the logger used for security-relevant events.
func WithLogger(log *slog.Logger) Option {
	return func(p *Policy) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPolicy creates a tenant isolation policy.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// QueueName derives the execution queue for a unit of work.
//
// System-scoped work is shared across all tenants and served by one worker
// pool keyed only by the workflow type. Tenant-scoped work requires a
// non-empty tenant id and is served on {tenantId}:{workflowType}.
func (p *Policy) QueueName(workflowType string, systemScoped bool, tenantID string) (string, error) {
	if systemScoped {
		return workflowType, nil
	}
	if tenantID == "" {
		return "", ErrTenantRequired
	}
	return tenantID + ":" + workflowType, nil
}

// ValidateIsolation reports whether a unit of work may be executed by a
// worker provisioned for expectedTenant. System-scoped work always
// validates: it has no cross-tenant concern. A tenant mismatch is logged as
// a security-relevant event; the caller decides whether to reject the unit.
func (p *Policy) ValidateIsolation(actualTenant, expectedTenant string, systemScoped bool) bool {
	if systemScoped {
		return true
	}
	if actualTenant == expectedTenant {
		return true
	}

	p.log.Warn("tenant isolation violation",
		logger.Component("tenant"),
		slog.String("actual_tenant", actualTenant),
		slog.String("expected_tenant", expectedTenant))
	return false
}
