package workflowctx

import (
	"context"
	"io"
	"log/slog"

	"github.com/durableworks/agentkit/core/logger"
)

// ResolvedContext is the per-call aggregate of the three resolvable values.
// It is never persisted; every call recomputes it.
type ResolvedContext struct {
	TenantID  string
	UserID    string
	IDPostfix string
}

// Resolver resolves the current tenant id, user id, and correlation suffix
// from whichever sources the active execution mode exposes. Per value, the
// first non-empty source wins:
//
//  1. a context override (WithTenantID and friends)
//  2. indexed tags attached to the active unit (workflow mode only)
//  3. opaque annotations attached to the active unit (workflow mode only)
//  4. parsing the active unit's identifier string
//  5. in activity mode with a control-plane client: the parent execution's
//     fetched description, steps 2-4 applied to it
//
// Remote failures and cancellation are swallowed: resolution falls back to
// whatever the local sources yielded, and only fails with ErrNotInContext
// when nothing was resolvable at all.
type Resolver struct {
	remote ControlPlaneClient
	log    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithControlPlane supplies the remote client used to fetch parent execution
// metadata from activity mode. Without it, step 5 of the chain is skipped.
func WithControlPlane(client ControlPlaneClient) ResolverOption {
	return func(r *Resolver) {
		r.remote = client
	}
}

// WithResolverLogger sets the logger for internal operations.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// valueSpec describes how one resolvable value maps onto the sources.
type valueSpec struct {
	key            string
	fromContext    func(context.Context) (string, bool)
	fromIdentifier func(Identifier) string
}

var (
	tenantSpec = valueSpec{
		key:         TenantIDKey,
		fromContext: TenantIDFromContext,
		fromIdentifier: func(id Identifier) string {
			return id.TenantID
		},
	}
	userSpec = valueSpec{
		key:         UserIDKey,
		fromContext: UserIDFromContext,
		// User ids are never encoded in the identifier string.
		fromIdentifier: nil,
	}
	postfixSpec = valueSpec{
		key:         IDPostfixKey,
		fromContext: IDPostfixFromContext,
		fromIdentifier: func(id Identifier) string {
			return id.CorrelationValue()
		},
	}
)

// TenantID resolves the current tenant id. Fails with ErrNotInContext when
// no source can supply it.
func (r *Resolver) TenantID(ctx context.Context, ec ExecutionContext) (string, error) {
	fetch := &parentFetch{}
	return r.resolve(ctx, ec, tenantSpec, fetch)
}

// SafeTenantID is the non-failing variant of TenantID; it returns an empty
// string instead of an error. Intended for logging and diagnostics.
func (r *Resolver) SafeTenantID(ctx context.Context, ec ExecutionContext) string {
	v, _ := r.TenantID(ctx, ec)
	return v
}

// UserID resolves the current user id. Fails with ErrNotInContext when no
// source can supply it.
func (r *Resolver) UserID(ctx context.Context, ec ExecutionContext) (string, error) {
	fetch := &parentFetch{}
	return r.resolve(ctx, ec, userSpec, fetch)
}

// SafeUserID is the non-failing variant of UserID.
func (r *Resolver) SafeUserID(ctx context.Context, ec ExecutionContext) string {
	v, _ := r.UserID(ctx, ec)
	return v
}

// IDPostfix resolves the current correlation suffix. Fails with
// ErrNotInContext when no source can supply it; use SafeIDPostfix where an
// absent suffix is acceptable.
func (r *Resolver) IDPostfix(ctx context.Context, ec ExecutionContext) (string, error) {
	fetch := &parentFetch{}
	return r.resolve(ctx, ec, postfixSpec, fetch)
}

// SafeIDPostfix is the non-failing variant of IDPostfix.
func (r *Resolver) SafeIDPostfix(ctx context.Context, ec ExecutionContext) string {
	v, _ := r.IDPostfix(ctx, ec)
	return v
}

// Resolve resolves all three values best-effort, sharing a single parent
// fetch across them. Absent values are empty strings; Resolve itself never
// fails.
func (r *Resolver) Resolve(ctx context.Context, ec ExecutionContext) ResolvedContext {
	fetch := &parentFetch{}
	tenantID, _ := r.resolve(ctx, ec, tenantSpec, fetch)
	userID, _ := r.resolve(ctx, ec, userSpec, fetch)
	idPostfix, _ := r.resolve(ctx, ec, postfixSpec, fetch)
	return ResolvedContext{TenantID: tenantID, UserID: userID, IDPostfix: idPostfix}
}

// parentFetch memoizes the parent description so one resolution call hits
// the control plane at most once.
type parentFetch struct {
	done bool
	desc *ParentDescription
}

func (r *Resolver) resolve(ctx context.Context, ec ExecutionContext, spec valueSpec, fetch *parentFetch) (string, error) {
	// 1. Request-local override wins over everything.
	if v, ok := spec.fromContext(ctx); ok {
		return v, nil
	}

	if ec == nil || (!ec.InWorkflow() && !ec.InActivity()) {
		return "", ErrNotInContext
	}

	// 2-3. Attached metadata. Adapters answer these only in workflow mode.
	if v, ok := ec.Tag(spec.key); ok && v != "" {
		return v, nil
	}
	if v, ok := ec.Annotation(spec.key); ok && v != "" {
		return v, nil
	}

	// 4. The unit's own identifier string.
	if spec.fromIdentifier != nil {
		if id, err := ParseIdentifier(ec.UnitID()); err == nil {
			if v := spec.fromIdentifier(id); v != "" {
				return v, nil
			}
		}
	}

	// 5. Activity mode cannot see the parent's metadata locally; fetch the
	// parent description through the control plane when a client is wired.
	if ec.InActivity() && r.remote != nil {
		desc := r.parentDescription(ctx, ec, fetch)
		if desc != nil {
			if v := desc.Tags[spec.key]; v != "" {
				return v, nil
			}
			if v := desc.Annotations[spec.key]; v != "" {
				return v, nil
			}
		}
	}

	return "", ErrNotInContext
}

func (r *Resolver) parentDescription(ctx context.Context, ec ExecutionContext, fetch *parentFetch) *ParentDescription {
	if fetch.done {
		return fetch.desc
	}
	fetch.done = true

	if ctx.Err() != nil {
		// Cancelled before the only remote source could be consulted;
		// resolution proceeds with whatever was resolvable locally.
		return nil
	}

	desc, err := r.remote.FetchParentDescription(ctx, ec.UnitID(), ec.RunID())
	if err != nil {
		r.log.Debug("parent description fetch failed, source unavailable",
			logger.Component("workflowctx"),
			logger.WorkflowID(ec.UnitID()),
			logger.RunID(ec.RunID()),
			logger.Error(err))
		return nil
	}

	fetch.desc = desc
	return desc
}
