package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables cannot be mapped onto the target struct.
var ErrParsingConfig = errors.New("failed to parse config from environment")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (value copy of the loaded struct)
)

// loadDotenv reads .env once per process. A missing file is not an error:
// production deployments pass real environment variables.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load fills cfg from the environment. The first successful load of a type is
// cached and copied into later calls for the same type.
func Load[T any](cfg *T) error {
	typ := reflect.TypeOf(cfg).Elem()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := Parse(cfg); err != nil {
		return err
	}

	cache.Store(typ, *cfg)
	return nil
}

// MustLoad is Load that panics on failure. Use it during startup only.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse fills cfg from the environment without touching the cache.
func Parse[T any](cfg *T) error {
	loadDotenv()
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrParsingConfig, err)
	}
	return nil
}
