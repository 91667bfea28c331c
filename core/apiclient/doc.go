// Package apiclient provides a resilient outbound HTTP client used wherever
// the platform must reach across process boundaries, most notably for
// control-plane metadata queries on the resolution hot path.
//
// Every client instance owns a circuit breaker: after MaxFailures
// consecutive failures the circuit opens and calls fail fast with
// ErrCircuitOpen for CircuitTimeout, after which exactly one probe request
// is let through. Transient transport errors and 5xx responses are retried
// with exponential backoff; 4xx responses are never retried.
//
//	client := apiclient.New(apiclient.Config{BaseURL: "https://control-plane.internal"},
//		apiclient.WithLogger(log),
//	)
//
//	resp, err := client.Get(ctx, "/api/v1/settings", nil)
//	if errors.Is(err, apiclient.ErrCircuitOpen) {
//		// endpoint is being protected, back off
//	}
//
// Inside a deterministic workflow scope (workflowctx.WithDeterministicScope)
// retries are suppressed entirely: the workflow engine owns replay and retry
// semantics there, and retrying underneath it would double-retry and break
// determinism.
package apiclient
