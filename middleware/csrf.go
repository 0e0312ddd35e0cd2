package middleware

import (
	"net/http"

	"github.com/dmitrymomot/shopfront/core/csrf"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/response"
)

// ErrInvalidCSRFToken rejects a state-changing request without a valid token.
var ErrInvalidCSRFToken = response.ErrForbidden.WithCode("invalid_csrf_token").WithMessage("invalid csrf token")

// CSRFConfig configures the CSRF stage.
type CSRFConfig[Data any] struct {
	// Secret points at the secret kept in the session data. Required.
	Secret func(*Data) *string
	// OnReject is notified of every rejected request.
	OnReject func(r *http.Request)
}

// CSRF verifies the token of POST, PUT, PATCH and DELETE requests against
// the session secret and hands a fresh token to the views. The secret is
// generated the first time a token is needed.
func CSRF[C handler.Context, Data any](cfg CSRFConfig[Data]) pipeline.Stage[C] {
	if cfg.Secret == nil {
		panic("csrf stage: secret accessor is required")
	}

	return pipeline.Stage[C]{
		Name: StageCSRF,
		Enter: func(ctx C) pipeline.Outcome {
			sess, ok := SessionFrom[Data](ctx)
			if !ok {
				return pipeline.Fail(ErrNoSession)
			}
			secret := cfg.Secret(&sess.Data)
			r := ctx.Request()

			if isMutating(r.Method) && !csrf.Verify(*secret, csrf.Extract(r)) {
				if cfg.OnReject != nil {
					cfg.OnReject(r)
				}
				return pipeline.Fail(ErrInvalidCSRFToken)
			}

			if *secret == "" {
				s, err := csrf.NewSecret()
				if err != nil {
					return pipeline.Fail(err)
				}
				*secret = s
				sess.MarkModified()
			}
			token, err := csrf.Token(*secret)
			if err != nil {
				return pipeline.Fail(err)
			}
			SetLocal(ctx, LocalCSRFToken, token)
			return pipeline.Continue()
		},
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
