package app

import (
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/lmittmann/tint"
	"github.com/myschool/campus"
	"github.com/myschool/campus/http/cookie"
	"github.com/myschool/campus/http/middleware"
	"github.com/myschool/campus/http/resp"
	"github.com/myschool/campus/http/session"
	"github.com/myschool/campus/http/upload"
	"github.com/myschool/campus/logger"
	"golang.org/x/time/rate"
)

// defaultAppLogger constructs a [logger.Logger] configured for use in the application.
func defaultAppLogger(cfg Config, output io.Writer) logger.Logger {
	slogger := newSlogger(campus.AppLogKind, cfg, output)
	var l logger.Logger = logger.New(slogger)
	l.Debug("setting up app logger", nil)
	if cfg.SentryDSN != "" {
		l = logger.NewSentryLogger(cfg.Env, l, cfg.SentryDSN)
		l.Debug("using SentryLogger for app logger", nil)
	}

	slog.SetDefault(slogger)

	return l
}

// defaultHTTPLogger constructs a [*log/slog.Logger] for access logs.
func defaultHTTPLogger(cfg Config, output io.Writer) *slog.Logger {
	sl := newSlogger(campus.HTTPLogKind, cfg, output)
	sl.Debug("setting up HTTP router logger")

	return sl
}

// newSlogger toggles constructing the specific [*log/slog.Logger]
// from the given parameters.
func newSlogger(kind slog.Value, cfg Config, out io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(cfg.LogLevel)

	useJSON := !cfg.Env.IsDevelopment() || cfg.LogJSON
	isHTTP := kind.String() == campus.HTTPLogKind.String()

	var handler slog.Handler
	switch {
	case isHTTP && useJSON:
		opts := &slog.HandlerOptions{
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.DeleteLevelAttr(groups, a)
				return logger.DeleteMessageAttr(groups, a)
			},
		}
		handler = slog.NewJSONHandler(out, opts)

	case isHTTP:
		opts := &slog.HandlerOptions{
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.DeleteLevelAttr(groups, a)
				return logger.DeleteMessageAttr(groups, a)
			},
		}
		handler = slog.NewTextHandler(out, opts)

	case useJSON:
		opts := &slog.HandlerOptions{
			AddSource:   true,
			Level:       lvl,
			ReplaceAttr: logger.TruncSourceAttr,
		}
		handler = slog.NewJSONHandler(out, opts)

	default:
		opts := &tint.Options{
			AddSource:  true,
			Level:      lvl,
			TimeFormat: "2006-01-02 15:04:05.000",
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a = logger.ColorizeLevel(groups, a)
				return logger.TruncSourceAttr(groups, a)
			},
		}
		handler = tint.NewHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		{Key: campus.LogKindKey, Value: kind},
	})

	return slog.New(handler)
}

// defaultResponder configures the [*resp.Responder] rendering every envelope.
func defaultResponder(l logger.Logger) *resp.Responder {
	return resp.NewResponder(resp.WithLogger(l))
}

// defaultSessionStore constructs the [session.SessionStorer] for client sessions,
// backed by Redis when cfg.RedisURL is set and by cookies otherwise.
func defaultSessionStore(cfg Config) (session.SessionStorer, error) {
	scfg := session.Config{
		AuthKey:     cfg.SessionAuthKey,
		Domain:      cfg.CookieDomain,
		EncryptKey:  cfg.SessionEncryptKey,
		Env:         cfg.Env,
		SessionName: cfg.SessionName,
	}

	// WithMaxAge must precede the store it configures.
	args := []session.ServiceOpt{session.WithMaxAge(int(cfg.SessionMaxAge.Seconds()))}
	if cfg.RedisURL != "" {
		args = append(args, session.WithRedis(cfg.RedisURL, cfg.RedisPassword))
	} else {
		args = append(args, session.WithCookie())
	}

	return session.NewStoreService(scfg, args...)
}

// defaultJar constructs the [*cookie.Jar] for plain cookies.
func defaultJar(cfg Config) (*cookie.Jar, error) {
	return cookie.NewJar(cookie.Config{
		Env:        cfg.Env,
		Key:        []byte(cfg.CookieHashKey),
		EncryptKey: []byte(cfg.CookieBlockKey),
		Domain:     cfg.CookieDomain,
		MaxAge:     int(cfg.CookieMaxAge.Seconds()),
	})
}

// defaultUploads constructs the [*upload.Service] storing images under cfg.UploadDir.
func defaultUploads(cfg Config, l logger.Logger) (*upload.Service, error) {
	return upload.NewService(upload.Config{
		Dir:      cfg.UploadDir,
		URLPath:  uploadPath,
		MaxSize:  cfg.UploadMaxSize,
		MaxCount: cfg.UploadMaxCount,
	}, upload.WithLogger(l))
}

// defaultVisitors constructs the per-IP rate limiters,
// falling back to the middleware defaults when cfg leaves them unset.
func defaultVisitors(cfg Config) *middleware.Visitors {
	if cfg.RateLimit <= 0 || cfg.RateBurst <= 0 {
		return middleware.NewVisitors()
	}

	return middleware.NewVisitorsWithLimit(rate.Limit(cfg.RateLimit), cfg.RateBurst)
}

// defaultIdemCache constructs the cache replaying responses to retried POST requests,
// shared through Redis when cfg.RedisURL is set.
func defaultIdemCache(cfg Config) middleware.IdempotencyCacher {
	if cfg.RedisURL == "" {
		return middleware.NewIdemResMap()
	}

	return middleware.NewRedisCache(&redis.Options{Addr: cfg.RedisURL, Password: cfg.RedisPassword})
}

// defaultServer constructs a default [*http.Server].
func defaultServer(cfg Config) *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
