package shop

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/shopfront/app/shop/views"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/middleware"
)

var (
	// ErrNoUser is returned when a guarded handler runs without a signed-in user.
	ErrNoUser = errors.New("no signed-in user")

	errNotAnImage = response.ErrUnprocessableEntity.WithCode("not_an_image").WithMessage("Attached file is not an image.")
)

// failure is the error sink of the pipeline. Internal errors are logged and
// rendered as the generic error page; client errors keep their status and
// show no detail.
func (a *App) failure(ctx *Context, err error) handler.Response {
	httpErr := response.AsHTTPError(err)
	base := Page{
		IsAuthenticated: middleware.IsAuthenticated(ctx),
		CSRFToken:       middleware.CSRFToken(ctx),
	}

	switch {
	case httpErr.Status >= http.StatusInternalServerError:
		var perr pipeline.PanicError
		if errors.As(err, &perr) {
			a.metrics.IncPanic()
		}
		a.logger.ErrorContext(ctx, "request failed",
			logger.Error(err),
			logger.Method(ctx.Request().Method),
			logger.Path(ctx.Request().URL.Path),
		)
		base.Title, base.Path = "Server Error", "/500"
		return a.views.RenderWithStatus(views.ServerError, base, http.StatusInternalServerError)

	case httpErr.Status == http.StatusNotFound:
		base.Title, base.Path = "Page Not Found", "/404"
		return a.views.RenderWithStatus(views.NotFound, base, http.StatusNotFound)

	default:
		a.logger.InfoContext(ctx, "request rejected",
			logger.Error(err),
			logger.StatusCode(httpErr.Status),
			logger.Path(ctx.Request().URL.Path),
		)
		base.Title = http.StatusText(httpErr.Status)
		base.Data = StatusPage{Status: httpErr.Status, Text: http.StatusText(httpErr.Status)}
		return a.views.RenderWithStatus(views.Status, base, httpErr.Status)
	}
}

// notFound is the last stage: nothing else answered.
func (a *App) notFound(ctx *Context) handler.Response {
	return a.views.RenderWithStatus(views.NotFound, page(ctx, "Page Not Found", "/404", nil), http.StatusNotFound)
}
