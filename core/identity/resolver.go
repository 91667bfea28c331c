package identity

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/singleflight"

	"github.com/durableworks/agentkit/core/logger"
)

// Resolver decodes, validates, and extracts tenant/user identity from client
// certificate credentials. Successful resolutions are cached; concurrent
// resolutions of the same un-cached credential collapse to a single parse.
type Resolver struct {
	cache  *Cache
	group  singleflight.Group
	log    *slog.Logger
	roots  *x509.CertPool
	skew   time.Duration
	strict bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for internal operations.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithCache replaces the resolver's cache, e.g. to share one cache across
// several resolver instances.
func WithCache(cache *Cache) Option {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithRoots sets the root pool used for chain verification. When unset, the
// system pool is used.
func WithRoots(roots *x509.CertPool) Option {
	return func(r *Resolver) {
		r.roots = roots
	}
}

// NewResolver creates a resolver with the given configuration.
func NewResolver(cfg Config, opts ...Option) *Resolver {
	if cfg.ClockSkew <= 0 {
		cfg.ClockSkew = DefaultConfig().ClockSkew
	}

	r := &Resolver{
		cache:  NewCache(cfg),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		skew:   cfg.ClockSkew,
		strict: cfg.StrictChainValidation,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Cache returns the underlying certificate cache.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve turns a raw credential string into a certificate identity.
// The credential may be PEM-armored or bare base64 DER. Returns
// ErrInvalidCredential, ErrCredentialExpired, or ErrIncompleteIdentity.
func (r *Resolver) Resolve(credential string) (CertificateInfo, error) {
	key := normalize(credential)
	if key == "" {
		return CertificateInfo{}, fmt.Errorf("%w: empty credential", ErrInvalidCredential)
	}

	if info, ok := r.cache.Get(key); ok {
		return info, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		// A concurrent caller may have populated the cache while this
		// goroutine waited on the flight group.
		if info, ok := r.cache.Get(key); ok {
			return info, nil
		}

		info, err := r.parse(credential, key)
		if err != nil {
			return nil, err
		}

		r.cache.Add(key, info)
		return info, nil
	})
	if err != nil {
		return CertificateInfo{}, err
	}
	return v.(CertificateInfo), nil
}

// parse decodes and validates the credential and extracts the identity.
// Detailed failure reasons are logged at debug level only; callers receive
// generic errors that do not disclose subject content.
func (r *Resolver) parse(credential, key string) (CertificateInfo, error) {
	der, err := decode(credential, key)
	if err != nil {
		r.log.Debug("credential decode failed", logger.Component("identity"), logger.Error(err))
		return CertificateInfo{}, ErrInvalidCredential
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		r.log.Debug("certificate parse failed", logger.Component("identity"), logger.Error(err))
		return CertificateInfo{}, ErrInvalidCredential
	}

	thumbprint := fingerprint(cert.Raw)

	// Clock skew is applied symmetrically to both validity boundaries.
	now := time.Now().UTC()
	if now.Add(r.skew).Before(cert.NotBefore) || now.Add(-r.skew).After(cert.NotAfter) {
		r.log.Debug("certificate outside validity window",
			logger.Component("identity"),
			slog.String("thumbprint", thumbprint),
			slog.Time("not_before", cert.NotBefore),
			slog.Time("not_after", cert.NotAfter))
		return CertificateInfo{}, ErrCredentialExpired
	}

	if err := r.verifyChain(cert, now); err != nil {
		if r.strict {
			r.log.Debug("chain validation failed in strict mode",
				logger.Component("identity"),
				slog.String("thumbprint", thumbprint),
				logger.Error(err))
			return CertificateInfo{}, ErrInvalidCredential
		}
		// Lenient policy: self-signed and offline-CA deployments are
		// tolerated, the failure is surfaced in logs only.
		r.log.Warn("certificate chain validation failed, continuing",
			logger.Component("identity"),
			slog.String("thumbprint", thumbprint),
			logger.Error(err))
	}

	tenantID := firstAttr(cert.Subject.Organization)
	userID := firstAttr(cert.Subject.OrganizationalUnit)
	if tenantID == "" || userID == "" {
		r.log.Debug("certificate subject missing identity attributes",
			logger.Component("identity"),
			slog.String("subject", cert.Subject.String()),
			slog.String("thumbprint", thumbprint))
		return CertificateInfo{}, ErrIncompleteIdentity
	}

	return CertificateInfo{
		TenantID:   tenantID,
		UserID:     userID,
		Subject:    cert.Subject.String(),
		Thumbprint: thumbprint,
		ExpiresAt:  cert.NotAfter.UTC(),
	}, nil
}

func (r *Resolver) verifyChain(cert *x509.Certificate, now time.Time) error {
	_, err := cert.Verify(x509.VerifyOptions{
		Roots:       r.roots,
		CurrentTime: now,
		KeyUsages:   []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	return err
}

// decode accepts a PEM-armored certificate or bare base64-encoded DER.
func decode(credential, key string) ([]byte, error) {
	if strings.Contains(credential, "-----BEGIN") {
		block, _ := pem.Decode([]byte(credential))
		if block == nil {
			return nil, fmt.Errorf("malformed PEM block")
		}
		return block.Bytes, nil
	}

	der, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		// Tolerate unpadded input.
		der, err = base64.RawStdEncoding.DecodeString(key)
	}
	if err != nil {
		return nil, fmt.Errorf("malformed base64 encoding: %w", err)
	}
	return der, nil
}

// normalize strips all whitespace so that re-wrapped or indented copies of
// the same credential share one cache entry.
func normalize(credential string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, credential)
}

func fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:])
}

// firstAttr returns the first value of a possibly repeated DN attribute.
func firstAttr(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
