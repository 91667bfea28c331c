package identity

import "errors"

// Error messages are deliberately generic: subject content and parse details
// never reach callers, they are only emitted to debug-level logs.
var (
	// ErrInvalidCredential is returned for malformed encodings, structurally
	// invalid certificates, and chain failures in strict mode.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrCredentialExpired is returned when the certificate is outside its
	// validity window beyond the configured clock skew tolerance.
	ErrCredentialExpired = errors.New("credential is outside its validity window")
	// ErrIncompleteIdentity is returned when the subject is missing the
	// tenant or user attribute. A partial identity is never returned.
	ErrIncompleteIdentity = errors.New("credential does not carry a complete identity")
)
