package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Warn("msg", logger.Error(err)) without explicit
// nil checks, following the principle of making zero values useful.

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component identifies the emitting component, e.g. "apiclient" or "identity".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration creates an attribute for a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// TenantID creates an attribute for a tenant identifier.
// Returns empty Attr when the tenant id is empty.
func TenantID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("tenant_id", id)
}

// UserID creates an attribute for a user identifier.
// Returns empty Attr when the user id is empty.
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// WorkflowID creates an attribute for a workflow execution identifier.
func WorkflowID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("workflow_id", id)
}

// RunID creates an attribute for a workflow run identifier.
func RunID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("run_id", id)
}

// QueueName creates an attribute for an execution queue name.
func QueueName(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("queue", name)
}
