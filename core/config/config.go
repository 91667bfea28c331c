package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu    sync.Mutex
	cache = make(map[reflect.Type]any)

	loadDotEnvOnce sync.Once
)

// Load populates cfg from environment variables using `env` struct tags.
// Each configuration type is parsed at most once per process; subsequent
// calls for the same type return the cached value.
//
// A .env file in the working directory is loaded into the process
// environment on first use. A missing .env file is not an error.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config pointer", ErrInvalidTarget)
	}

	loadDotEnvOnce.Do(func() {
		// Existing environment variables take precedence over .env values.
		_ = godotenv.Load()
	})

	typ := reflect.TypeOf(*cfg)

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParseFailed, typ, err)
	}

	cache[typ] = *cfg
	return nil
}

// MustLoad is like Load but panics on failure. Intended for application
// startup where a missing required variable should abort the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset clears the per-type cache. Used only for test isolation.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cache = make(map[reflect.Type]any)
}
