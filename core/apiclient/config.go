package apiclient

import "time"

// Config holds the configuration for a resilient API client instance.
// Designed for environment-based configuration using popular env parsing libraries.
type Config struct {
	// BaseURL is the remote endpoint this client instance talks to.
	BaseURL string `env:"API_CLIENT_BASE_URL"`

	// Request configuration
	RequestTimeout time.Duration `env:"API_CLIENT_REQUEST_TIMEOUT" envDefault:"30s"`
	HealthTimeout  time.Duration `env:"API_CLIENT_HEALTH_TIMEOUT" envDefault:"10s"`

	// Circuit breaker configuration
	MaxFailures    int           `env:"API_CLIENT_MAX_FAILURES" envDefault:"5"`
	CircuitTimeout time.Duration `env:"API_CLIENT_CIRCUIT_TIMEOUT" envDefault:"60s"`

	// Retry configuration. MaxRetries is the total number of attempts;
	// the delay before attempt N is RetryBaseDelay * 2^(N-2).
	MaxRetries     int           `env:"API_CLIENT_MAX_RETRIES" envDefault:"3"`
	RetryBaseDelay time.Duration `env:"API_CLIENT_RETRY_BASE_DELAY" envDefault:"500ms"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		HealthTimeout:  10 * time.Second,
		MaxFailures:    5,
		CircuitTimeout: 60 * time.Second,
		MaxRetries:     3,
		RetryBaseDelay: 500 * time.Millisecond,
	}
}

// withDefaults fills zero values with the defaults.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = def.HealthTimeout
	}
	if c.MaxFailures <= 0 {
		c.MaxFailures = def.MaxFailures
	}
	if c.CircuitTimeout <= 0 {
		c.CircuitTimeout = def.CircuitTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = def.RetryBaseDelay
	}
	return c
}
