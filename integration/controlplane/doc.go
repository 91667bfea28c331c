// Package controlplane provides the HTTP client for the platform control
// plane: parent workflow descriptions and bootstrap server settings.
//
// The client implements workflowctx.ControlPlaneClient, so it slots directly
// into the context resolver as the remote fallback for activity-mode
// resolution. All requests go through the resilient API client (circuit
// breaker plus bounded retry); a missing resource is reported as a nil
// description rather than an error, since absence is an expected outcome on
// the resolution path.
//
// Configuration is environment-based:
//
//	CONTROL_PLANE_BASE_URL  (required) control plane endpoint
//	CONTROL_PLANE_API_KEY   optional bearer token for authenticated calls
//
// plus the API_CLIENT_* variables of the embedded resilient client.
//
// Usage:
//
//	cfg := controlplane.Config{BaseURL: "https://control.internal"}
//	cp, err := controlplane.New(cfg)
//	if err != nil {
//		return err
//	}
//	resolver := workflowctx.NewResolver(workflowctx.WithControlPlane(cp))
package controlplane
