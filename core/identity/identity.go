package identity

import "time"

// CertificateInfo is the identity extracted from a client certificate.
// Values are immutable once constructed; the resolver returns copies.
type CertificateInfo struct {
	// TenantID is taken from the Organization attribute of the subject.
	TenantID string
	// UserID is taken from the Organizational Unit attribute of the subject.
	UserID string
	// Subject is the raw distinguished name of the certificate subject.
	Subject string
	// Thumbprint is the hex-encoded SHA-256 fingerprint of the DER bytes.
	Thumbprint string
	// ExpiresAt is the certificate's not-after instant in UTC.
	ExpiresAt time.Time
}
