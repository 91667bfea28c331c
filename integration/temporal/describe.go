package temporal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/durableworks/agentkit/core/logger"
	"github.com/durableworks/agentkit/core/workflowctx"
)

var _ workflowctx.ControlPlaneClient = (*DescribeClient)(nil)

// DescribeClient resolves parent workflow metadata straight from Temporal
// visibility via DescribeWorkflowExecution. It is the in-cluster alternative
// to the HTTP control plane: use it when workers hold a Temporal client and
// no separate description service exists.
type DescribeClient struct {
	tc  client.Client
	log *slog.Logger
}

// DescribeOption configures a DescribeClient.
type DescribeOption func(*DescribeClient)

// WithDescribeLogger sets the logger for internal operations.
func WithDescribeLogger(log *slog.Logger) DescribeOption {
	return func(d *DescribeClient) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDescribeClient creates a describe-backed metadata source.
func NewDescribeClient(tc client.Client, opts ...DescribeOption) (*DescribeClient, error) {
	if tc == nil {
		return nil, errors.New("temporal client is required")
	}

	d := &DescribeClient{
		tc:  tc,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// FetchParentDescription returns the search attributes and memo of a workflow
// execution, or (nil, nil) when the execution is unknown to the cluster.
func (d *DescribeClient) FetchParentDescription(ctx context.Context, unitID, runID string) (*workflowctx.ParentDescription, error) {
	resp, err := d.tc.DescribeWorkflowExecution(ctx, unitID, runID)
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			d.log.Debug("workflow execution not found",
				logger.Component("temporal"),
				logger.WorkflowID(unitID),
				logger.RunID(runID))
			return nil, nil
		}
		return nil, fmt.Errorf("describe workflow execution: %w", err)
	}

	info := resp.GetWorkflowExecutionInfo()
	if info == nil {
		return nil, nil
	}

	desc := &workflowctx.ParentDescription{
		Tags:        make(map[string]string),
		Annotations: make(map[string]string),
	}
	if sa := info.GetSearchAttributes(); sa != nil {
		decodeStringPayloads(sa.GetIndexedFields(), desc.Tags)
	}
	if memo := info.GetMemo(); memo != nil {
		decodeStringPayloads(memo.GetFields(), desc.Annotations)
	}
	return desc, nil
}
