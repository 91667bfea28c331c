package temporal

import (
	"context"

	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/workflow"

	"github.com/durableworks/agentkit/core/workflowctx"
)

var (
	_ workflowctx.ExecutionContext = (*WorkflowExecution)(nil)
	_ workflowctx.ExecutionContext = (*ActivityExecution)(nil)
)

// WorkflowExecution adapts a running Temporal workflow to
// workflowctx.ExecutionContext. All fields are snapshotted at construction
// from workflow.GetInfo, so the adapter is safe to read after the workflow
// context has moved on and behaves identically under replay.
type WorkflowExecution struct {
	unitID      string
	unitType    string
	runID       string
	queueName   string
	tags        map[string]string
	annotations map[string]string
}

// NewWorkflowExecution captures the active workflow's execution info. Must be
// called from workflow code.
func NewWorkflowExecution(ctx workflow.Context) *WorkflowExecution {
	info := workflow.GetInfo(ctx)

	we := &WorkflowExecution{
		unitID:      info.WorkflowExecution.ID,
		unitType:    info.WorkflowType.Name,
		runID:       info.WorkflowExecution.RunID,
		queueName:   info.TaskQueueName,
		tags:        make(map[string]string),
		annotations: make(map[string]string),
	}

	if sa := info.SearchAttributes; sa != nil {
		decodeStringPayloads(sa.GetIndexedFields(), we.tags)
	}
	if memo := info.Memo; memo != nil {
		decodeStringPayloads(memo.GetFields(), we.annotations)
	}
	return we
}

func (we *WorkflowExecution) InWorkflow() bool  { return true }
func (we *WorkflowExecution) InActivity() bool  { return false }
func (we *WorkflowExecution) UnitID() string    { return we.unitID }
func (we *WorkflowExecution) UnitType() string  { return we.unitType }
func (we *WorkflowExecution) RunID() string     { return we.runID }
func (we *WorkflowExecution) QueueName() string { return we.queueName }

// Tag returns an indexed search attribute attached to the execution.
func (we *WorkflowExecution) Tag(key string) (string, bool) {
	v, ok := we.tags[key]
	return v, ok && v != ""
}

// Annotation returns a memo field attached to the execution.
func (we *WorkflowExecution) Annotation(key string) (string, bool) {
	v, ok := we.annotations[key]
	return v, ok && v != ""
}

// ActivityExecution adapts a running Temporal activity to
// workflowctx.ExecutionContext. Activities identify the owning workflow but
// cannot see its search attributes or memo locally; Tag and Annotation always
// miss and the resolver consults its remote source instead.
type ActivityExecution struct {
	unitID    string
	unitType  string
	runID     string
	queueName string
}

// NewActivityExecution captures the active activity's execution info. Must be
// called from activity code.
func NewActivityExecution(ctx context.Context) *ActivityExecution {
	info := activity.GetInfo(ctx)

	return &ActivityExecution{
		unitID:    info.WorkflowExecution.ID,
		unitType:  info.WorkflowType.Name,
		runID:     info.WorkflowExecution.RunID,
		queueName: info.TaskQueue,
	}
}

func (ae *ActivityExecution) InWorkflow() bool  { return false }
func (ae *ActivityExecution) InActivity() bool  { return true }
func (ae *ActivityExecution) UnitID() string    { return ae.unitID }
func (ae *ActivityExecution) UnitType() string  { return ae.unitType }
func (ae *ActivityExecution) RunID() string     { return ae.runID }
func (ae *ActivityExecution) QueueName() string { return ae.queueName }

func (ae *ActivityExecution) Tag(string) (string, bool)        { return "", false }
func (ae *ActivityExecution) Annotation(string) (string, bool) { return "", false }

// decodeStringPayloads decodes string-valued payloads into dst, skipping
// entries that are not strings (e.g. numeric or bool search attributes).
func decodeStringPayloads(fields map[string]*commonpb.Payload, dst map[string]string) {
	dc := converter.GetDefaultDataConverter()
	for key, payload := range fields {
		if payload == nil {
			continue
		}
		var v string
		if err := dc.FromPayload(payload, &v); err != nil {
			continue
		}
		if v != "" {
			dst[key] = v
		}
	}
}
