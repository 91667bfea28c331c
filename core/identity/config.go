package identity

import "time"

// Config holds the configuration for the certificate cache and resolver.
// Designed for environment-based configuration using popular env parsing libraries.
type Config struct {
	// Cache configuration
	CacheMaxSize int           `env:"IDENTITY_CACHE_MAX_SIZE" envDefault:"1000"`
	CacheTTL     time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"1h"`

	// Resolver configuration
	ClockSkew time.Duration `env:"IDENTITY_CLOCK_SKEW" envDefault:"15m"`
	// StrictChainValidation makes chain verification failures fatal.
	// The default is lenient: failures are logged and resolution proceeds,
	// which tolerates self-signed and offline-CA deployments.
	StrictChainValidation bool `env:"IDENTITY_STRICT_CHAIN_VALIDATION" envDefault:"false"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		CacheMaxSize:          1000,
		CacheTTL:              time.Hour,
		ClockSkew:             15 * time.Minute,
		StrictChainValidation: false,
	}
}
