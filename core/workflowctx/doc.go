// Package workflowctx resolves "who is running and where" for code that may
// execute inside a deterministic workflow, inside a side-effecting activity,
// or outside any engine context entirely.
//
// The ExecutionContext interface abstracts the active execution mode and its
// identifiers and attached metadata; integration packages implement it
// against a concrete workflow engine. The Resolver walks a deterministic
// fallback chain per value (context override, attached tags, attached
// annotations, identifier parsing, and finally a remote fetch of the parent
// execution's metadata) and short-circuits on the first non-empty source.
//
//	resolver := workflowctx.NewResolver(
//		workflowctx.WithControlPlane(cpClient),
//	)
//
//	tenantID, err := resolver.TenantID(ctx, ec)
//	if errors.Is(err, workflowctx.ErrNotInContext) {
//		// not running inside any execution context
//	}
//
// The package also owns the workflow identifier wire format
// ({tenantId}:{agentName}:{workflowName}[:{idPostfix}]) and the context
// carriers for request-local overrides and the deterministic-scope marker
// consumed by outbound clients.
package workflowctx
