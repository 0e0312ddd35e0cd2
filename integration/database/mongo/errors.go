package mongo

import "errors"

var (
	ErrMissingConnectionURL   = errors.New("mongo connection url is not configured")
	ErrInvalidConnectionURL   = errors.New("invalid mongo connection url")
	ErrMissingDatabase        = errors.New("mongo database name is not configured")
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
)
