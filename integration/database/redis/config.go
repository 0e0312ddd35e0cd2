package redis

import "time"

// Config holds Redis connection settings. ConnectionURL accepts redis://
// and rediss:// URLs.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
	KeyPrefix      string        `env:"REDIS_SESSION_PREFIX" envDefault:"session:"`
}
