package ratelimiter

import "errors"

var (
	ErrInvalidConfig  = errors.New("invalid rate limiter configuration")
	ErrAlreadyStarted = errors.New("rate limiter cleanup already started")
)
