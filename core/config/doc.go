// Package config loads typed configuration from environment variables.
//
// A .env file in the working directory is read once on first use; real
// environment variables always win. Parsing is done by caarlos0/env, so struct
// fields carry `env` and `envDefault` tags:
//
//	type Config struct {
//		Port int `env:"PORT" envDefault:"3000"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Load caches the first successful result per type. Parse always reads the
// environment again.
package config
