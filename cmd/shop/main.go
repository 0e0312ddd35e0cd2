package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/shopfront/app/shop"
	"github.com/dmitrymomot/shopfront/app/shop/store"
	"github.com/dmitrymomot/shopfront/core/config"
	"github.com/dmitrymomot/shopfront/core/cookie"
	"github.com/dmitrymomot/shopfront/core/email"
	"github.com/dmitrymomot/shopfront/core/health"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/server"
	"github.com/dmitrymomot/shopfront/core/session"
	"github.com/dmitrymomot/shopfront/core/sessiontransport"
	"github.com/dmitrymomot/shopfront/core/static"
	"github.com/dmitrymomot/shopfront/core/storage"
	"github.com/dmitrymomot/shopfront/integration/database/mongo"
	"github.com/dmitrymomot/shopfront/integration/database/redis"
	"github.com/dmitrymomot/shopfront/integration/email/postmark"
	"github.com/dmitrymomot/shopfront/integration/email/smtp"
	"github.com/dmitrymomot/shopfront/integration/storage/s3"
	"github.com/dmitrymomot/shopfront/middleware"
	"github.com/dmitrymomot/shopfront/pkg/clientip"
)

const sessionCleanupInterval = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg shop.Config
	config.MustLoad(&cfg) // panic on error

	log := newLogger(cfg)
	fatal := func(component, msg string, err error) {
		log.Error(msg, logger.Component(component), logger.Error(err))
		os.Exit(1)
	}

	// Nothing listens until the database answers.
	client, err := mongo.New(ctx, cfg.Mongo)
	if err != nil {
		fatal("database", "Failed to connect to database", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	dbName, err := cfg.Mongo.DatabaseName()
	if err != nil {
		fatal("database", "Invalid database name", err)
	}
	db := client.Database(dbName)

	repo, err := store.NewMongo(ctx, db)
	if err != nil {
		fatal("database", "Failed to prepare collections", err)
	}

	checks := []health.Check{{Name: "mongo", Fn: mongo.Healthcheck(client)}}

	// Session store
	var sessionStore session.Store[shop.SessionData]
	switch cfg.SessionStore {
	case shop.SessionStoreRedis:
		rdb, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			fatal("redis", "Failed to connect to redis", err)
		}
		defer func() { _ = rdb.Close() }()
		sessionStore = redis.NewSessionStore[shop.SessionData](rdb, cfg.Redis.KeyPrefix)
		checks = append(checks, health.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	default:
		sessionStore, err = mongo.NewSessionStore[shop.SessionData](ctx, db, "sessions")
		if err != nil {
			fatal("session", "Failed to create session store", err)
		}
	}
	sesMgr := session.NewFromConfig(sessionStore, cfg.Session)

	cookieMgr, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		fatal("cookie", "Failed to create cookie manager", err)
	}
	clientIP, err := clientip.NewFromConfig(cfg.Proxy)
	if err != nil {
		fatal("server", "Invalid trusted proxies", err)
	}
	sesCookie := sessiontransport.NewCookieFromConfig(cfg.Transport, sesMgr, cookieMgr,
		sessiontransport.WithClientIP(clientIP.GetIP),
	)

	// Product images
	statics := []*static.Dir{}
	var files storage.Storage
	switch cfg.StorageDriver {
	case shop.StorageS3:
		files, err = s3.New(ctx, cfg.S3)
		if err != nil {
			fatal("storage", "Failed to create S3 storage", err)
		}
	default:
		local, err := storage.NewLocal(cfg.ImagesDir, "/images")
		if err != nil {
			fatal("storage", "Failed to create image directory", err)
		}
		files = local
		statics = append(statics, static.MustDir("/images", local.Root()))
	}

	public, err := static.NewDir("/", cfg.PublicDir)
	if err != nil {
		log.Warn("Public directory is not served", logger.Component("static"), logger.Error(err))
	} else {
		statics = append(statics, public)
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		fatal("email", "Failed to create mailer", err)
	}

	app, err := shop.New(cfg,
		shop.WithLogger(log),
		shop.WithRepositories(repo.Repositories()),
		shop.WithSessionTransport(sesCookie),
		shop.WithClientIP(clientIP),
		shop.WithStorage(files),
		shop.WithMailer(mailer),
		shop.WithHealthChecks(checks...),
		shop.WithStatic(statics...),
	)
	if err != nil {
		fatal("app", "Failed to create application", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	s, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		fatal("server", "Failed to create server", err)
	}
	eg.Go(s.Run(ctx, app))
	eg.Go(func() error { return app.Limiter().Start(ctx) })
	eg.Go(func() error {
		return purgeSessions(ctx, sesMgr, app, log)
	})

	if err := eg.Wait(); err != nil {
		fatal("server", "Failed to run server", err)
	}

	log.Info("Application stopped")
}

func newLogger(cfg shop.Config) *slog.Logger {
	mode := logger.WithDevelopment(cfg.AppName)
	if cfg.IsProduction() {
		mode = logger.WithProduction(cfg.AppName)
	}
	return logger.New(
		mode,
		logger.WithOutput(os.Stderr),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			id, ok := middleware.GetRequestID(ctx)
			if !ok {
				return slog.Attr{}, false
			}
			return logger.RequestID(id), true
		}),
	)
}

func newMailer(cfg shop.Config) (email.EmailSender, error) {
	switch cfg.EmailDriver {
	case shop.EmailPostmark:
		var pc postmark.Config
		if err := config.Load(&pc); err != nil {
			return nil, err
		}
		return postmark.New(pc)
	case shop.EmailSMTP:
		var sc smtp.Config
		if err := config.Load(&sc); err != nil {
			return nil, err
		}
		return smtp.New(sc)
	default:
		return email.NewDevSender(cfg.MailDir), nil
	}
}

// purgeSessions deletes expired sessions until ctx is done.
func purgeSessions(ctx context.Context, mgr *session.Manager[shop.SessionData], app *shop.App, log *slog.Logger) error {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := mgr.CleanupExpired(ctx)
			if err != nil {
				log.WarnContext(ctx, "Failed to purge expired sessions", logger.Component("session"), logger.Error(err))
				continue
			}
			app.Metrics().AddSessionsPurged(n)
		}
	}
}
