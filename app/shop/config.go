package shop

import (
	"github.com/dmitrymomot/shopfront/core/cookie"
	"github.com/dmitrymomot/shopfront/core/server"
	"github.com/dmitrymomot/shopfront/core/session"
	"github.com/dmitrymomot/shopfront/core/sessiontransport"
	"github.com/dmitrymomot/shopfront/core/upload"
	"github.com/dmitrymomot/shopfront/integration/database/mongo"
	"github.com/dmitrymomot/shopfront/integration/database/redis"
	"github.com/dmitrymomot/shopfront/integration/storage/s3"
	"github.com/dmitrymomot/shopfront/middleware"
	"github.com/dmitrymomot/shopfront/pkg/clientip"
	"github.com/dmitrymomot/shopfront/pkg/ratelimiter"
)

// Backends selectable through the environment.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	SessionStoreMongo = "mongo"
	SessionStoreRedis = "redis"

	StorageLocal = "local"
	StorageS3    = "s3"

	EmailDev      = "dev"
	EmailPostmark = "postmark"
	EmailSMTP     = "smtp"
)

// Config is built once at startup and passed to the constructors that need
// it. Provider credentials for Postmark and SMTP are loaded separately,
// only when EMAIL_DRIVER selects them.
type Config struct {
	Server      server.Config
	Cookie      cookie.Config
	Session     session.Config
	Transport   sessiontransport.CookieConfig
	Mongo       mongo.Config
	Redis       redis.Config
	Upload      upload.Config
	S3          s3.Config
	RateLimit   ratelimiter.Config
	Proxy       clientip.Config
	Compression middleware.CompressionConfig
	BodyParser  middleware.BodyParserConfig

	AppName  string `env:"APP_NAME" envDefault:"shopfront"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppURL   string `env:"APP_URL" envDefault:"http://localhost:3000"`

	ItemsPerPage  int    `env:"ITEMS_PER_PAGE" envDefault:"2"`
	PublicDir     string `env:"PUBLIC_DIR" envDefault:"public"`
	ImagesDir     string `env:"IMAGES_DIR" envDefault:"images"`
	AccessLogPath string `env:"ACCESS_LOG_PATH" envDefault:"access.log"`
	MailDir       string `env:"MAIL_DIR" envDefault:"mail"`

	SessionStore  string `env:"SESSION_STORE" envDefault:"mongo"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`
	EmailDriver   string `env:"EMAIL_DRIVER" envDefault:"dev"`
}

// IsProduction reports whether the hardened outer stages are enabled.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}
