package redis

import (
	"context"
	"errors"
	"net/url"

	"github.com/redis/go-redis/v9"
)

// New parses the connection URL, creates a client and verifies it with a
// single ping. The client is closed when the ping fails.
func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := parseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout > 0 {
		opts.DialTimeout = cfg.ConnectTimeout
	}

	client := redis.NewClient(opts)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrFailedToConnect, err)
	}

	return client, nil
}

// Healthcheck returns a ping-based readiness check.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

func parseURL(raw string) (*redis.Options, error) {
	if raw == "" {
		return nil, ErrEmptyConnectionURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, errors.Join(ErrFailedToParseRedisConnString, errors.New("unsupported scheme "+u.Scheme))
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	return opts, nil
}
