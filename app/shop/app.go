package shop

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/shopfront/app/shop/store"
	"github.com/dmitrymomot/shopfront/app/shop/views"
	"github.com/dmitrymomot/shopfront/core/email"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/health"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/metrics"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/router"
	"github.com/dmitrymomot/shopfront/core/static"
	"github.com/dmitrymomot/shopfront/core/storage"
	"github.com/dmitrymomot/shopfront/middleware"
	"github.com/dmitrymomot/shopfront/pkg/clientip"
	"github.com/dmitrymomot/shopfront/pkg/ratelimiter"
)

// App is the shop: the request pipeline and the handlers behind it.
type App struct {
	config     Config
	logger     *slog.Logger
	repos      store.Repositories
	sessions   middleware.SessionTransport[SessionData]
	storage    storage.Storage
	mailer     email.EmailSender
	limiter    *ratelimiter.Limiter
	clientIP   *clientip.Resolver
	metrics    *metrics.Metrics
	checks     []health.Check
	statics    []*static.Dir
	accessLog  io.Writer
	views      *views.Views
	now        func() time.Time
	bcryptCost int

	pipeline *pipeline.Pipeline[*Context]
}

// Option configures an App.
type Option func(*App) error

// New assembles the shop. Repositories, a session transport and a file
// storage are required.
func New(cfg Config, opts ...Option) (*App, error) {
	app := &App{
		config:     cfg,
		logger:     logger.Discard(),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost + 2,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	switch {
	case app.repos.Users == nil || app.repos.Products == nil || app.repos.Orders == nil:
		return nil, errors.New("shop: repositories are required")
	case app.sessions == nil:
		return nil, errors.New("shop: session transport is required")
	case app.storage == nil:
		return nil, errors.New("shop: file storage is required")
	}

	if app.mailer == nil {
		app.mailer = email.NewDevSender(cfg.MailDir)
	}
	if app.metrics == nil {
		app.metrics = metrics.New("shop")
	}
	if app.clientIP == nil {
		res, err := clientip.NewFromConfig(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		app.clientIP = res
	}
	if app.limiter == nil {
		l, err := ratelimiter.New(cfg.RateLimit, ratelimiter.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.limiter = l
	}
	if app.config.ItemsPerPage <= 0 {
		app.config.ItemsPerPage = 2
	}

	v, err := views.New(language.English)
	if err != nil {
		return nil, err
	}
	app.views = v

	p, err := app.buildPipeline()
	if err != nil {
		return nil, err
	}
	app.pipeline = p

	return app, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.pipeline.ServeHTTP(w, r)
}

// Stages returns the stage names in execution order.
func (a *App) Stages() []string {
	return a.pipeline.Names()
}

// Limiter returns the limiter guarding the credential endpoints, so its
// cleanup loop can be started with the server.
func (a *App) Limiter() *ratelimiter.Limiter {
	return a.limiter
}

// Metrics returns the application metrics.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

func (a *App) buildPipeline() (*pipeline.Pipeline[*Context], error) {
	p := pipeline.New(
		pipeline.WithContextFactory(newContext),
		pipeline.WithFailureHandler(a.failure),
		pipeline.WithLogger[*Context](a.logger),
	)

	if a.config.IsProduction() {
		compression, err := middleware.Compression[*Context](a.config.Compression)
		if err != nil {
			return nil, err
		}
		if a.accessLog == nil {
			f, err := middleware.OpenAccessLog(a.config.AccessLogPath)
			if err != nil {
				return nil, err
			}
			a.accessLog = f
		}
		p.Use(
			middleware.SecurityHeaders[*Context](),
			compression,
			middleware.AccessLog[*Context](middleware.AccessLogConfig{
				Writer:       a.accessLog,
				ClientIP:     a.clientIP.GetIP,
				Observer:     a.metrics,
				OnWriteError: func(error) { a.metrics.IncAccessLogError() },
			}),
		)
	}

	p.Use(
		middleware.BodyParser[*Context](a.config.BodyParser),
		middleware.FileUpload[*Context](middleware.FileUploadConfig{
			Storage:    a.storage,
			Upload:     a.config.Upload,
			Logger:     a.logger,
			OnRejected: func(string) { a.metrics.IncUploadRejected() },
		}),
		middleware.Static[*Context](a.statics...),
		middleware.Session[*Context](middleware.SessionConfig[SessionData]{
			Transport: a.sessions,
			Logger:    a.logger,
		}),
		middleware.Favicon[*Context](),
		middleware.Flash[*Context](flashMessages),
		middleware.AuthFlag[*Context, SessionData](),
		middleware.User[*Context, SessionData](middleware.UserConfig[store.User]{
			Load:     a.repos.Users.ByID,
			NotFound: store.ErrNotFound,
			Logger:   a.logger,
		}),
		middleware.Exempt[*Context](http.MethodPost, "/create-order", a.postCreateOrder, a.requireAuth()),
		middleware.CSRF[*Context](middleware.CSRFConfig[SessionData]{
			Secret:   csrfSecret,
			OnReject: func(*http.Request) { a.metrics.IncCSRFRejected() },
		}),
		middleware.Routes[*Context](a.routes()),
		middleware.NotFound[*Context](a.notFound),
	)

	return p, nil
}

func (a *App) requireAuth() handler.Middleware[*Context] {
	return middleware.RequireAuth[*Context, SessionData]("/login")
}

func (a *App) routes() router.Router[*Context] {
	r := router.New[*Context]()

	r.Get("/metrics", metrics.Handler[*Context](a.metrics))
	r.Get("/health/live", health.Liveness[*Context])
	r.Get("/health/ready", health.Readiness[*Context](a.logger, a.checks...))

	// shop
	r.Get("/", a.getIndex)
	r.Get("/products", a.getProducts)
	r.Get("/products/{productId}", a.getProduct)
	r.Group(func(r router.Router[*Context]) {
		r.Use(a.requireAuth())
		r.Get("/cart", a.getCart)
		r.Post("/cart", a.postCart)
		r.Post("/cart-delete-item", a.postCartDeleteItem)
		r.Get("/checkout", a.getCheckout)
		r.Get("/orders", a.getOrders)
		r.Get("/orders/{orderId}", a.getInvoice)
	})

	// admin
	r.Route("/admin", func(r router.Router[*Context]) {
		r.Use(a.requireAuth())
		r.Get("/add-product", a.getAddProduct)
		r.Post("/add-product", a.postAddProduct)
		r.Get("/products", a.getAdminProducts)
		r.Get("/edit-product/{productId}", a.getEditProduct)
		r.Post("/edit-product", a.postEditProduct)
		r.Post("/delete-product", a.postDeleteProduct)
	})

	// auth
	limited := r.With(middleware.RateLimit[*Context](middleware.RateLimitConfig{
		Limiter:    a.limiter,
		KeyFunc:    a.clientIP.GetIP,
		OnDenied:   func(string) { a.metrics.IncRateLimitDenied() },
		SetHeaders: true,
	}))
	r.Get("/login", a.getLogin)
	limited.Post("/login", a.postLogin)
	r.Get("/signup", a.getSignup)
	limited.Post("/signup", a.postSignup)
	r.Post("/logout", a.postLogout)
	r.Get("/reset", a.getReset)
	limited.Post("/reset", a.postReset)
	r.Get("/reset/{token}", a.getNewPassword)
	r.Post("/new-password", a.postNewPassword)

	return r
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		a.logger = l
		return nil
	}
}

// WithRepositories sets the persistence layer.
func WithRepositories(repos store.Repositories) Option {
	return func(a *App) error {
		a.repos = repos
		return nil
	}
}

// WithSessionTransport sets how sessions travel between client and store.
func WithSessionTransport(t middleware.SessionTransport[SessionData]) Option {
	return func(a *App) error {
		if t == nil {
			return errors.New("session transport cannot be nil")
		}
		a.sessions = t
		return nil
	}
}

// WithStorage sets where uploaded product images are kept.
func WithStorage(s storage.Storage) Option {
	return func(a *App) error {
		if s == nil {
			return errors.New("storage cannot be nil")
		}
		a.storage = s
		return nil
	}
}

// WithMailer sets the email sender.
func WithMailer(m email.EmailSender) Option {
	return func(a *App) error {
		if m == nil {
			return errors.New("mailer cannot be nil")
		}
		a.mailer = m
		return nil
	}
}

// WithLimiter sets the limiter of the credential endpoints.
func WithLimiter(l *ratelimiter.Limiter) Option {
	return func(a *App) error {
		if l == nil {
			return errors.New("limiter cannot be nil")
		}
		a.limiter = l
		return nil
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		a.metrics = m
		return nil
	}
}

// WithHealthChecks adds readiness checks.
func WithHealthChecks(checks ...health.Check) Option {
	return func(a *App) error {
		a.checks = append(a.checks, checks...)
		return nil
	}
}

// WithStatic mounts directories served before the session stage.
func WithStatic(dirs ...*static.Dir) Option {
	return func(a *App) error {
		a.statics = append(a.statics, dirs...)
		return nil
	}
}

// WithAccessLog sets the access log sink used in production.
func WithAccessLog(w io.Writer) Option {
	return func(a *App) error {
		a.accessLog = w
		return nil
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *App) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		a.now = now
		return nil
	}
}

// WithClientIP sets the resolver used for rate limiting and access logs.
// Without it one is built from Config.Proxy.
func WithClientIP(res *clientip.Resolver) Option {
	return func(a *App) error {
		if res == nil {
			return errors.New("client ip resolver cannot be nil")
		}
		a.clientIP = res
		return nil
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(a *App) error {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return errors.New("bcrypt cost out of range")
		}
		a.bcryptCost = cost
		return nil
	}
}
