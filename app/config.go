package app

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	v10 "github.com/go-playground/validator/v10"
	"github.com/gorilla/securecookie"
	"github.com/myschool/campus"
	"github.com/myschool/campus/postgres"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	defaultLogLvl   = slog.LevelInfo
	logJSONEnvVar   = "LOG_JSON"
	defaultLogJSON  = false
	sentryDsnEnvVar = "SENTRY_DSN"

	// Static file defaults
	publicPathEnvVar    = "PUBLIC_PATH"
	defaultPublicPath   = "./public"
	faviconPathEnvVar   = "FAVICON_PATH"
	defaultFaviconPath  = "./public/favicon.png"
	uploadDirEnvVar     = "UPLOAD_DIR"
	defaultUploadDir    = "./_files/upload"
	uploadMaxSizeEnvVar = "UPLOAD_MAX_SIZE"
	defaultUploadMax    = 20 << 20
	uploadMaxCntEnvVar  = "UPLOAD_MAX_COUNT"
	defaultUploadMaxCnt = 10
	bodyMaxSizeEnvVar   = "BODY_MAX_SIZE"
	defaultBodyMaxSize  = 1 << 20
	thumbDirEnvVar      = "THUMB_DIR"
	defaultThumbDir     = "./_files/thumb"

	// Cookie & session defaults
	cookieDomainEnvVar      = "COOKIE_DOMAIN"
	cookieHashKeyEnvVar     = "COOKIE_HASH_KEY"
	cookieBlockKeyEnvVar    = "COOKIE_BLOCK_KEY"
	cookieMaxAgeEnvVar      = "COOKIE_MAX_AGE"
	defaultCookieMaxAge     = 30 * 24 * time.Hour
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionNameEnvVar       = "SESSION_NAME"
	defaultSessionName      = "campus"
	sessionMaxAgeEnvVar     = "SESSION_MAX_AGE"
	defaultSessionMaxAge    = 24 * time.Hour
	redisURLEnvVar          = "REDIS_URL"
	redisPassEnvVar         = "REDIS_PASSWORD"

	// Database defaults
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"

	// Web server defaults
	DefaultHost               = ""
	hostEnvVar                = "HOST"
	DefaultPort               = "3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 10 * time.Second
	corsOriginEnvVar          = "CORS_ORIGIN"
	rateLimitEnvVar           = "RATE_LIMIT"
	rateBurstEnvVar           = "RATE_BURST"
)

// Config holds everything an App needs to start.
// LoadConfig reads one from the environment; tests may build one directly.
type Config struct {
	Env campus.Environment `validate:"required"`

	Host string
	Port string `validate:"required,numeric"`

	LogLevel  slog.Level
	LogJSON   bool
	SentryDSN string `validate:"omitempty,url"`

	PublicPath     string
	FaviconPath    string
	UploadDir      string `validate:"required"`
	UploadMaxSize  int64  `validate:"gt=0"`
	UploadMaxCount int    `validate:"gt=0"`
	BodyMaxSize    int64  `validate:"gt=0"`
	ThumbDir       string

	CookieDomain   string
	CookieHashKey  string `validate:"required,min=32"`
	CookieBlockKey string `validate:"omitempty,len=16|len=24|len=32"`
	CookieMaxAge   time.Duration

	SessionName       string        `validate:"required"`
	SessionAuthKey    string        `validate:"required,hexadecimal"`
	SessionEncryptKey string        `validate:"required,hexadecimal"`
	SessionMaxAge     time.Duration `validate:"gt=0"`
	RedisURL          string
	RedisPassword     string

	// Database is nil when no database is configured.
	Database *postgres.CxnConfig

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	CORSOrigin string
	RateLimit  float64
	RateBurst  int
}

// LoadConfig reads a Config from environment variables and validates it.
//
// In development, missing cookie and session keys are generated,
// so sessions and cookies do not outlive the process.
func LoadConfig() (Config, error) {
	env := campus.EnvVarOrEnv(environmentEnvVar, campus.Development)

	cfg := Config{
		Env: env,

		Host: campus.EnvVarOrString(hostEnvVar, DefaultHost),
		Port: campus.EnvVarOrString(portEnvVar, DefaultPort),

		LogLevel:  campus.EnvVarOrLogLevel(logLevelEnvVar, defaultLogLvl),
		LogJSON:   campus.EnvVarOrBool(logJSONEnvVar, defaultLogJSON),
		SentryDSN: os.Getenv(sentryDsnEnvVar),

		PublicPath:     campus.EnvVarOrString(publicPathEnvVar, defaultPublicPath),
		FaviconPath:    campus.EnvVarOrString(faviconPathEnvVar, defaultFaviconPath),
		UploadDir:      campus.EnvVarOrString(uploadDirEnvVar, defaultUploadDir),
		UploadMaxSize:  campus.EnvVarOrInt64(uploadMaxSizeEnvVar, defaultUploadMax),
		UploadMaxCount: campus.EnvVarOrInt(uploadMaxCntEnvVar, defaultUploadMaxCnt),
		BodyMaxSize:    campus.EnvVarOrInt64(bodyMaxSizeEnvVar, defaultBodyMaxSize),
		ThumbDir:       campus.EnvVarOrString(thumbDirEnvVar, defaultThumbDir),

		CookieDomain:   os.Getenv(cookieDomainEnvVar),
		CookieHashKey:  os.Getenv(cookieHashKeyEnvVar),
		CookieBlockKey: os.Getenv(cookieBlockKeyEnvVar),
		CookieMaxAge:   campus.EnvVarOrDuration(cookieMaxAgeEnvVar, defaultCookieMaxAge),

		SessionName:       campus.EnvVarOrString(sessionNameEnvVar, defaultSessionName),
		SessionAuthKey:    os.Getenv(SessionAuthKeyEnvVar),
		SessionEncryptKey: os.Getenv(SessionEncryptKeyEnvVar),
		SessionMaxAge:     campus.EnvVarOrDuration(sessionMaxAgeEnvVar, defaultSessionMaxAge),
		RedisURL:          os.Getenv(redisURLEnvVar),
		RedisPassword:     os.Getenv(redisPassEnvVar),

		Database: NewPostgresConfig(),

		ReadTimeout:  campus.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: campus.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
		IdleTimeout:  campus.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),

		CORSOrigin: os.Getenv(corsOriginEnvVar),
		RateLimit:  float64(campus.EnvVarOrInt(rateLimitEnvVar, 0)),
		RateBurst:  campus.EnvVarOrInt(rateBurstEnvVar, 0),
	}

	if env.IsDevelopment() {
		fillDevKeys(&cfg)
	}

	return cfg, cfg.Valid()
}

// Valid asserts cfg holds everything New needs.
func (cfg Config) Valid() error {
	if err := cfg.Env.Valid(); err != nil {
		return fmt.Errorf("%w: environment %q", campus.ErrBadConfig, cfg.Env)
	}

	if err := v10.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", campus.ErrBadConfig, err)
	}

	return nil
}

// NewPostgresConfig constructs a *postgres.CxnConfig from DATABASE env vars.
// Without DATABASE_URL or DATABASE_NAME, nil returns.
func NewPostgresConfig() *postgres.CxnConfig {
	if url := os.Getenv(dbURLEnvVar); url != "" {
		return &postgres.CxnConfig{URL: url}
	}

	name := os.Getenv(dbNameEnvVar)
	if name == "" {
		return nil
	}

	return &postgres.CxnConfig{
		Host:     campus.EnvVarOrString(dbHostEnvVar, defaultDBHost),
		Name:     name,
		Password: os.Getenv(dbPassEnvVar),
		Port:     campus.EnvVarOrString(dbPortEnvVar, defaultDBPort),
		SSLMode:  campus.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
		User:     os.Getenv(dbUserEnvVar),
	}
}

func fillDevKeys(cfg *Config) {
	if cfg.CookieHashKey == "" {
		cfg.CookieHashKey = string(securecookie.GenerateRandomKey(32))
	}

	if cfg.SessionAuthKey == "" {
		cfg.SessionAuthKey = hex.EncodeToString(securecookie.GenerateRandomKey(32))
	}

	if cfg.SessionEncryptKey == "" {
		cfg.SessionEncryptKey = hex.EncodeToString(securecookie.GenerateRandomKey(32))
	}
}
