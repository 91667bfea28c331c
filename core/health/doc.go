// Package health provides HTTP handlers for worker health monitoring.
//
// Handlers:
//   - Liveness: process is running (no dependency checks)
//   - Readiness: all dependencies are available
//   - NoContent: returns 204 for minimal overhead
//
// Dependency checks follow the func(context.Context) error signature, which
// the API and control-plane clients expose directly:
//
//	mux.HandleFunc("/health/live", health.Liveness)
//	mux.HandleFunc("/health/ready", health.Readiness(log,
//		cp.Healthcheck,
//	))
//	mux.HandleFunc("/ping", health.NoContent)
package health
