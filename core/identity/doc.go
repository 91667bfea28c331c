// Package identity extracts tenant and user identity from client certificate
// credentials issued by the platform control plane.
//
// A credential is a PEM-armored or base64-encoded DER certificate. The tenant
// id is read from the Organization attribute of the subject and the user id
// from the Organizational Unit attribute; both must be present or resolution
// fails. Parsed identities are cached in a bounded TTL cache keyed by the
// normalized credential string.
//
// # Usage
//
//	resolver := identity.NewResolver(identity.DefaultConfig(),
//		identity.WithLogger(log),
//	)
//
//	info, err := resolver.Resolve(apiKey)
//	if err != nil {
//		// identity.ErrInvalidCredential, identity.ErrCredentialExpired,
//		// or identity.ErrIncompleteIdentity
//		return err
//	}
//	fmt.Println(info.TenantID, info.UserID)
//
// # Chain validation policy
//
// Chain verification failures are logged and tolerated by default so that
// self-signed and offline-CA deployments keep working. Deployments that
// require a trusted chain set StrictChainValidation in the Config, which
// turns those failures into ErrInvalidCredential.
//
// Error messages are generic by design: subject content never reaches
// callers, full detail is available at debug log level only.
package identity
