package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/pipeline"
)

type userKey struct{}

// AuthFlag mirrors the session's authentication state into the view
// locals. Nothing downstream computes it again.
func AuthFlag[C handler.Context, Data any]() pipeline.Stage[C] {
	return pipeline.Stage[C]{
		Name: StageAuthFlag,
		Enter: func(ctx C) pipeline.Outcome {
			sess, ok := SessionFrom[Data](ctx)
			if !ok {
				return pipeline.Fail(ErrNoSession)
			}
			SetLocal(ctx, LocalIsAuthenticated, sess.IsAuthenticated())
			return pipeline.Continue()
		},
	}
}

// UserConfig configures the user hydration stage.
type UserConfig[U any] struct {
	// Load fetches the user bound to the session. Required.
	Load func(ctx context.Context, id uuid.UUID) (U, error)
	// NotFound is the error Load returns for a missing user.
	NotFound error
	Logger   *slog.Logger
}

// User loads the account of authenticated sessions for handlers.
//
// When the account no longer exists the session is demoted to anonymous
// and saved, the auth flag is corrected, and the request goes on. Any other
// load error fails the request.
func User[C handler.Context, Data, U any](cfg UserConfig[U]) pipeline.Stage[C] {
	if cfg.Load == nil {
		panic("user stage: loader is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return pipeline.Stage[C]{
		Name: StageUser,
		Enter: func(ctx C) pipeline.Outcome {
			sess, ok := SessionFrom[Data](ctx)
			if !ok {
				return pipeline.Fail(ErrNoSession)
			}
			if !sess.IsAuthenticated() {
				return pipeline.Continue()
			}

			u, err := cfg.Load(ctx, sess.UserID)
			switch {
			case err == nil:
				ctx.SetValue(userKey{}, u)
			case cfg.NotFound != nil && errors.Is(err, cfg.NotFound):
				cfg.Logger.InfoContext(ctx, "session user no longer exists",
					logger.Component("user"),
					logger.UserID(sess.UserID.String()),
				)
				sess.Demote()
				SetLocal(ctx, LocalIsAuthenticated, false)
			default:
				return pipeline.Fail(err)
			}
			return pipeline.Continue()
		},
	}
}

// UserFrom returns the user loaded for the request.
func UserFrom[U any](ctx context.Context) (U, bool) {
	return handler.Value[U](ctx, userKey{})
}
