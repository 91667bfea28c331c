package workflowctx

// Well-known metadata keys attached to workflow executions at creation time.
// Tags are indexed and queryable on the engine side; annotations are opaque.
const (
	// TenantIDKey carries the tenant the execution belongs to.
	TenantIDKey = "TenantId"
	// UserIDKey carries the user the execution was started for.
	UserIDKey = "UserId"
	// IDPostfixKey carries the free-form correlation suffix distinguishing
	// logical runs of the same workflow type for the same tenant.
	IDPostfixKey = "WorkflowIdPostfix"
)

// ExecutionContext abstracts "where am I running": inside a deterministic
// workflow, inside a side-effecting activity, or neither. Implementations
// wrap the workflow engine's APIs; see integration/temporal for the
// Temporal-backed one.
//
// Tag and Annotation are answerable only in workflow mode. Activity mode
// cannot see the parent's attached metadata locally; implementations return
// ok=false and the resolver fetches the parent description remotely instead.
type ExecutionContext interface {
	// InWorkflow reports whether the caller runs inside a deterministic
	// workflow execution.
	InWorkflow() bool
	// InActivity reports whether the caller runs inside a side-effecting
	// activity execution.
	InActivity() bool

	// UnitID returns the workflow execution identifier of the active unit.
	// In activity mode this is the identifier of the owning workflow.
	UnitID() string
	// UnitType returns the registered workflow type name.
	UnitType() string
	// RunID returns the engine-assigned run identifier.
	RunID() string
	// QueueName returns the execution queue the unit was dispatched on.
	QueueName() string

	// Tag returns an indexed metadata value attached to the active unit.
	Tag(key string) (string, bool)
	// Annotation returns an opaque metadata value attached to the active unit.
	Annotation(key string) (string, bool)
}
