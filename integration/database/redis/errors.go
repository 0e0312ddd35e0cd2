package redis

import "errors"

// Use errors.Is() to check error types.
var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrFailedToConnect              = errors.New("failed to connect to redis")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)
