package workflowctx_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/durableworks/agentkit/core/workflowctx"
)

// fakeExecution implements workflowctx.ExecutionContext for tests. Tags and
// annotations are only answered in workflow mode, mirroring the engine
// adapters.
type fakeExecution struct {
	inWorkflow  bool
	inActivity  bool
	unitID      string
	unitType    string
	runID       string
	queue       string
	tags        map[string]string
	annotations map[string]string
}

func (f *fakeExecution) InWorkflow() bool  { return f.inWorkflow }
func (f *fakeExecution) InActivity() bool  { return f.inActivity }
func (f *fakeExecution) UnitID() string    { return f.unitID }
func (f *fakeExecution) UnitType() string  { return f.unitType }
func (f *fakeExecution) RunID() string     { return f.runID }
func (f *fakeExecution) QueueName() string { return f.queue }

func (f *fakeExecution) Tag(key string) (string, bool) {
	if !f.inWorkflow {
		return "", false
	}
	v, ok := f.tags[key]
	return v, ok
}

func (f *fakeExecution) Annotation(key string) (string, bool) {
	if !f.inWorkflow {
		return "", false
	}
	v, ok := f.annotations[key]
	return v, ok
}

type fakeControlPlane struct {
	desc  *workflowctx.ParentDescription
	err   error
	calls atomic.Int64
}

func (f *fakeControlPlane) FetchParentDescription(ctx context.Context, unitID, runID string) (*workflowctx.ParentDescription, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.desc, nil
}

func workflowExecution() *fakeExecution {
	return &fakeExecution{
		inWorkflow:  true,
		unitID:      "acme:AgentA:FlowX:ticket-42",
		unitType:    "AgentA:FlowX",
		runID:       "run-1",
		queue:       "acme:AgentA:FlowX",
		tags:        map[string]string{},
		annotations: map[string]string{},
	}
}

func activityExecution() *fakeExecution {
	return &fakeExecution{
		inActivity: true,
		unitID:     "acme:AgentA:FlowX",
		unitType:   "AgentA:FlowX",
		runID:      "run-1",
		queue:      "acme:AgentA:FlowX",
	}
}

func TestResolver_TenantID(t *testing.T) {
	t.Parallel()

	t.Run("derived from identifier segment zero", func(t *testing.T) {
		t.Parallel()

		resolver := workflowctx.NewResolver()
		tenantID, err := resolver.TenantID(context.Background(), workflowExecution())
		require.NoError(t, err)
		assert.Equal(t, "acme", tenantID)
	})

	t.Run("override wins over attached tag", func(t *testing.T) {
		t.Parallel()

		ec := workflowExecution()
		ec.tags[workflowctx.TenantIDKey] = "from-tag"
		ctx := workflowctx.WithTenantID(context.Background(), "from-override")

		resolver := workflowctx.NewResolver()
		tenantID, err := resolver.TenantID(ctx, ec)
		require.NoError(t, err)
		assert.Equal(t, "from-override", tenantID)
	})

	t.Run("tag wins over annotation and identifier", func(t *testing.T) {
		t.Parallel()

		ec := workflowExecution()
		ec.tags[workflowctx.TenantIDKey] = "from-tag"
		ec.annotations[workflowctx.TenantIDKey] = "from-annotation"

		resolver := workflowctx.NewResolver()
		tenantID, err := resolver.TenantID(context.Background(), ec)
		require.NoError(t, err)
		assert.Equal(t, "from-tag", tenantID)
	})

	t.Run("annotation wins over identifier", func(t *testing.T) {
		t.Parallel()

		ec := workflowExecution()
		ec.annotations[workflowctx.TenantIDKey] = "from-annotation"

		resolver := workflowctx.NewResolver()
		tenantID, err := resolver.TenantID(context.Background(), ec)
		require.NoError(t, err)
		assert.Equal(t, "from-annotation", tenantID)
	})

	t.Run("no execution context fails", func(t *testing.T) {
		t.Parallel()

		resolver := workflowctx.NewResolver()
		_, err := resolver.TenantID(context.Background(), nil)
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)

		_, err = resolver.TenantID(context.Background(), &fakeExecution{})
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)
	})

	t.Run("override resolves even without execution context", func(t *testing.T) {
		t.Parallel()

		ctx := workflowctx.WithTenantID(context.Background(), "acme")
		resolver := workflowctx.NewResolver()

		tenantID, err := resolver.TenantID(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "acme", tenantID)
	})

	t.Run("safe variant returns empty instead of failing", func(t *testing.T) {
		t.Parallel()

		resolver := workflowctx.NewResolver()
		assert.Empty(t, resolver.SafeTenantID(context.Background(), nil))
	})
}

func TestResolver_UserID(t *testing.T) {
	t.Parallel()

	t.Run("resolved from attached tag", func(t *testing.T) {
		t.Parallel()

		ec := workflowExecution()
		ec.tags[workflowctx.UserIDKey] = "alice"

		resolver := workflowctx.NewResolver()
		userID, err := resolver.UserID(context.Background(), ec)
		require.NoError(t, err)
		assert.Equal(t, "alice", userID)
	})

	t.Run("never derived from the identifier", func(t *testing.T) {
		t.Parallel()

		resolver := workflowctx.NewResolver()
		_, err := resolver.UserID(context.Background(), workflowExecution())
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)
	})

	t.Run("workflow mode never consults the control plane", func(t *testing.T) {
		t.Parallel()

		remote := &fakeControlPlane{desc: &workflowctx.ParentDescription{
			Tags: map[string]string{workflowctx.UserIDKey: "alice"},
		}}
		resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(remote))

		_, err := resolver.UserID(context.Background(), workflowExecution())
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)
		assert.Zero(t, remote.calls.Load())
	})

	t.Run("activity mode fetches the parent description", func(t *testing.T) {
		t.Parallel()

		remote := &fakeControlPlane{desc: &workflowctx.ParentDescription{
			Tags: map[string]string{workflowctx.UserIDKey: "alice"},
		}}
		resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(remote))

		userID, err := resolver.UserID(context.Background(), activityExecution())
		require.NoError(t, err)
		assert.Equal(t, "alice", userID)
		assert.Equal(t, int64(1), remote.calls.Load())
	})

	t.Run("parent annotations are consulted after parent tags", func(t *testing.T) {
		t.Parallel()

		remote := &fakeControlPlane{desc: &workflowctx.ParentDescription{
			Annotations: map[string]string{workflowctx.UserIDKey: "bob"},
		}}
		resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(remote))

		userID, err := resolver.UserID(context.Background(), activityExecution())
		require.NoError(t, err)
		assert.Equal(t, "bob", userID)
	})

	t.Run("remote failure is treated as source unavailable", func(t *testing.T) {
		t.Parallel()

		remote := &fakeControlPlane{err: errors.New("control plane down")}
		resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(remote))

		_, err := resolver.UserID(context.Background(), activityExecution())
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)
	})

	t.Run("unknown parent resolves to not in context", func(t *testing.T) {
		t.Parallel()

		remote := &fakeControlPlane{desc: nil}
		resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(remote))

		_, err := resolver.UserID(context.Background(), activityExecution())
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)
	})

	t.Run("no control plane client skips the remote source", func(t *testing.T) {
		t.Parallel()

		resolver := workflowctx.NewResolver()
		_, err := resolver.UserID(context.Background(), activityExecution())
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)
	})

	t.Run("cancellation skips the remote source", func(t *testing.T) {
		t.Parallel()

		remote := &fakeControlPlane{desc: &workflowctx.ParentDescription{
			Tags: map[string]string{workflowctx.UserIDKey: "alice"},
		}}
		resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(remote))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := resolver.UserID(ctx, activityExecution())
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)
		assert.Zero(t, remote.calls.Load())
	})

	t.Run("cancellation still resolves locally available values", func(t *testing.T) {
		t.Parallel()

		resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(&fakeControlPlane{}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		tenantID, err := resolver.TenantID(ctx, activityExecution())
		require.NoError(t, err)
		assert.Equal(t, "acme", tenantID)
	})
}

func TestResolver_IDPostfix(t *testing.T) {
	t.Parallel()

	t.Run("parsed from the identifier", func(t *testing.T) {
		t.Parallel()

		resolver := workflowctx.NewResolver()
		idPostfix, err := resolver.IDPostfix(context.Background(), workflowExecution())
		require.NoError(t, err)
		assert.Equal(t, "ticket-42", idPostfix)
	})

	t.Run("schedule timestamps are stripped", func(t *testing.T) {
		t.Parallel()

		ec := workflowExecution()
		ec.unitID = "acme:AgentA:FlowX:ticket-42-2026-02-17T13:31:53Z"

		resolver := workflowctx.NewResolver()
		idPostfix, err := resolver.IDPostfix(context.Background(), ec)
		require.NoError(t, err)
		assert.Equal(t, "ticket-42", idPostfix)
	})

	t.Run("absent postfix fails the required accessor", func(t *testing.T) {
		t.Parallel()

		ec := workflowExecution()
		ec.unitID = "acme:AgentA:FlowX"

		resolver := workflowctx.NewResolver()
		_, err := resolver.IDPostfix(context.Background(), ec)
		assert.ErrorIs(t, err, workflowctx.ErrNotInContext)
		assert.Empty(t, resolver.SafeIDPostfix(context.Background(), ec))
	})

	t.Run("tag wins over identifier", func(t *testing.T) {
		t.Parallel()

		ec := workflowExecution()
		ec.tags[workflowctx.IDPostfixKey] = "ticket-7"

		resolver := workflowctx.NewResolver()
		idPostfix, err := resolver.IDPostfix(context.Background(), ec)
		require.NoError(t, err)
		assert.Equal(t, "ticket-7", idPostfix)
	})
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("aggregates all three values", func(t *testing.T) {
		t.Parallel()

		ec := workflowExecution()
		ec.tags[workflowctx.UserIDKey] = "alice"

		resolver := workflowctx.NewResolver()
		resolved := resolver.Resolve(context.Background(), ec)

		assert.Equal(t, "acme", resolved.TenantID)
		assert.Equal(t, "alice", resolved.UserID)
		assert.Equal(t, "ticket-42", resolved.IDPostfix)
	})

	t.Run("shares one parent fetch across values", func(t *testing.T) {
		t.Parallel()

		remote := &fakeControlPlane{desc: &workflowctx.ParentDescription{
			Tags: map[string]string{
				workflowctx.UserIDKey:    "alice",
				workflowctx.IDPostfixKey: "ticket-42",
			},
		}}
		resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(remote))

		ec := activityExecution()
		resolved := resolver.Resolve(context.Background(), ec)

		assert.Equal(t, "acme", resolved.TenantID)
		assert.Equal(t, "alice", resolved.UserID)
		assert.Equal(t, "ticket-42", resolved.IDPostfix)
		assert.Equal(t, int64(1), remote.calls.Load())
	})

	t.Run("missing values stay empty", func(t *testing.T) {
		t.Parallel()

		resolver := workflowctx.NewResolver()
		resolved := resolver.Resolve(context.Background(), nil)

		assert.Empty(t, resolved.TenantID)
		assert.Empty(t, resolved.UserID)
		assert.Empty(t, resolved.IDPostfix)
	})
}
