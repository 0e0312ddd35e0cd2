package router

import "errors"

var (
	ErrInvalidMethod         = errors.New("invalid http method")
	ErrInvalidPattern        = errors.New("invalid route path pattern")
	ErrNilHandler            = errors.New("nil handler")
	ErrNilSubrouter          = errors.New("nil subrouter")
	ErrMiddlewareAfterRoutes = errors.New("all middlewares must be defined before routes on a mux")
)
