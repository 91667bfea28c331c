// Package temporal binds the identity and context-resolution layer to the
// Temporal SDK.
//
// It provides three pieces:
//
//   - WorkflowExecution and ActivityExecution, adapters implementing
//     workflowctx.ExecutionContext over workflow.GetInfo and
//     activity.GetInfo. The workflow adapter snapshots search attributes and
//     memo fields at construction, so lookups are deterministic and
//     replay-safe. The activity adapter has no local access to the parent's
//     metadata; the resolver falls back to a remote fetch there.
//
//   - IdentityPropagator, a workflow.ContextPropagator carrying the resolved
//     tenant, user and correlation suffix through Temporal headers so child
//     workflows and activities inherit identity without widening payloads.
//
//   - DescribeClient, a workflowctx.ControlPlaneClient backed directly by
//     client.Client.DescribeWorkflowExecution, for deployments where the
//     worker has Temporal visibility access and no separate control plane.
package temporal
