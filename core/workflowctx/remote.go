package workflowctx

import "context"

// ParentDescription is the attached metadata of a parent workflow execution
// as reported by the control plane. Activities cannot read their parent's
// tags or annotations locally; the resolver fetches them through a
// ControlPlaneClient instead.
type ParentDescription struct {
	Tags        map[string]string
	Annotations map[string]string
}

// ControlPlaneClient fetches execution metadata across process boundaries.
// Implementations must honor ctx cancellation. Fetches are best-effort: the
// resolver treats any error as "source unavailable" and falls through to the
// remaining resolution sources.
type ControlPlaneClient interface {
	// FetchParentDescription returns the attached metadata of the given
	// workflow execution, or (nil, nil) when the execution is unknown.
	FetchParentDescription(ctx context.Context, unitID, runID string) (*ParentDescription, error)
}
