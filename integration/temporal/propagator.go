package temporal

import (
	"context"

	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/workflow"

	"github.com/durableworks/agentkit/core/workflowctx"
)

// identityHeaderKey is the Temporal header slot the propagator writes to.
const identityHeaderKey = "agentkit-identity"

// identityPayload is the wire shape carried in Temporal headers. Empty fields
// are omitted so the header stays minimal.
type identityPayload struct {
	TenantID  string `json:"tenantId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	IDPostfix string `json:"idPostfix,omitempty"`
}

func (p identityPayload) empty() bool {
	return p.TenantID == "" && p.UserID == "" && p.IDPostfix == ""
}

type identityCtxKey struct{}

var _ workflow.ContextPropagator = (*IdentityPropagator)(nil)

// IdentityPropagator carries the resolved tenant, user and correlation suffix
// through Temporal headers, so identity established at workflow start flows
// to child workflows and activities without widening their payloads.
//
// Register it on both the client and the worker:
//
//	client.Dial(client.Options{
//		ContextPropagators: []workflow.ContextPropagator{temporal.NewIdentityPropagator()},
//	})
type IdentityPropagator struct{}

// NewIdentityPropagator creates an identity propagator.
func NewIdentityPropagator() *IdentityPropagator {
	return &IdentityPropagator{}
}

// Inject writes identity overrides from a Go context into Temporal headers.
// Called when starting a workflow from regular code.
func (p *IdentityPropagator) Inject(ctx context.Context, writer workflow.HeaderWriter) error {
	var id identityPayload
	id.TenantID, _ = workflowctx.TenantIDFromContext(ctx)
	id.UserID, _ = workflowctx.UserIDFromContext(ctx)
	id.IDPostfix, _ = workflowctx.IDPostfixFromContext(ctx)
	return p.write(id, writer)
}

// InjectFromWorkflow writes identity from a workflow context into headers.
// Called when a workflow starts a child workflow or activity.
func (p *IdentityPropagator) InjectFromWorkflow(ctx workflow.Context, writer workflow.HeaderWriter) error {
	id, ok := identityFromWorkflow(ctx)
	if !ok {
		return nil
	}
	return p.write(id, writer)
}

// Extract reads identity from headers into a Go context as resolution
// overrides. Called when an activity (or local worker code) receives a task.
func (p *IdentityPropagator) Extract(ctx context.Context, reader workflow.HeaderReader) (context.Context, error) {
	id, ok, err := p.read(reader)
	if err != nil || !ok {
		return ctx, err
	}

	if id.TenantID != "" {
		ctx = workflowctx.WithTenantID(ctx, id.TenantID)
	}
	if id.UserID != "" {
		ctx = workflowctx.WithUserID(ctx, id.UserID)
	}
	if id.IDPostfix != "" {
		ctx = workflowctx.WithIDPostfix(ctx, id.IDPostfix)
	}
	return ctx, nil
}

// ExtractToWorkflow reads identity from headers into a workflow context.
// Called when a workflow task is dispatched.
func (p *IdentityPropagator) ExtractToWorkflow(ctx workflow.Context, reader workflow.HeaderReader) (workflow.Context, error) {
	id, ok, err := p.read(reader)
	if err != nil || !ok {
		return ctx, err
	}
	return workflow.WithValue(ctx, identityCtxKey{}, id), nil
}

func (p *IdentityPropagator) write(id identityPayload, writer workflow.HeaderWriter) error {
	if id.empty() {
		return nil
	}
	payload, err := converter.GetDefaultDataConverter().ToPayload(id)
	if err != nil {
		return err
	}
	writer.Set(identityHeaderKey, payload)
	return nil
}

func (p *IdentityPropagator) read(reader workflow.HeaderReader) (identityPayload, bool, error) {
	payload, ok := reader.Get(identityHeaderKey)
	if !ok {
		return identityPayload{}, false, nil
	}
	var id identityPayload
	if err := converter.GetDefaultDataConverter().FromPayload(payload, &id); err != nil {
		return identityPayload{}, false, err
	}
	return id, !id.empty(), nil
}

func identityFromWorkflow(ctx workflow.Context) (identityPayload, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(identityPayload)
	return id, ok && !id.empty()
}

// TenantIDFromWorkflow returns the propagated tenant id inside a workflow.
func TenantIDFromWorkflow(ctx workflow.Context) (string, bool) {
	id, ok := identityFromWorkflow(ctx)
	return id.TenantID, ok && id.TenantID != ""
}

// UserIDFromWorkflow returns the propagated user id inside a workflow.
func UserIDFromWorkflow(ctx workflow.Context) (string, bool) {
	id, ok := identityFromWorkflow(ctx)
	return id.UserID, ok && id.UserID != ""
}

// IDPostfixFromWorkflow returns the propagated correlation suffix inside a
// workflow.
func IDPostfixFromWorkflow(ctx workflow.Context) (string, bool) {
	id, ok := identityFromWorkflow(ctx)
	return id.IDPostfix, ok && id.IDPostfix != ""
}
