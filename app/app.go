package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/myschool/campus"
	"github.com/myschool/campus/http/cookie"
	"github.com/myschool/campus/http/middleware"
	"github.com/myschool/campus/http/req"
	"github.com/myschool/campus/http/resp"
	"github.com/myschool/campus/http/router"
	"github.com/myschool/campus/http/session"
	"github.com/myschool/campus/http/upload"
	"github.com/myschool/campus/logger"
	"github.com/myschool/campus/postgres"
	"github.com/myschool/campus/professor"
)

const (
	uploadPath = "/upload"
	thumbPath  = "/thumb"

	shutdownTimeout = 5 * time.Second
)

// An App manages and exposes all components of the campus backend to one another.
type App struct {
	cfg Config

	l       logger.Logger
	httpLog *slog.Logger
	out     io.Writer

	rp       *resp.Responder
	sessions session.SessionStorer
	jar      *cookie.Jar
	uploads  *upload.Service

	idem middleware.IdempotencyCacher

	db    *postgres.DB
	profs professor.Store

	router  *router.Router
	handler http.Handler
	srv     *http.Server
	ln      net.Listener
}

// New constructs an *App from cfg.
// Options run before any component is built, so they override the defaults.
//
// A database is connected, and migrated, only when cfg.Database is set
// and neither WithDB nor WithProfessorStore supplied one.
func New(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, out: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}

	a.l = defaultAppLogger(cfg, a.out)
	a.httpLog = defaultHTTPLogger(cfg, a.out)
	a.rp = defaultResponder(a.l)

	var err error
	if a.sessions == nil {
		if a.sessions, err = defaultSessionStore(cfg); err != nil {
			return nil, err
		}
	}

	if a.jar, err = defaultJar(cfg); err != nil {
		return nil, err
	}

	if a.uploads, err = defaultUploads(cfg, a.l); err != nil {
		return nil, err
	}

	if a.idem == nil {
		a.idem = defaultIdemCache(cfg)
	}

	if a.profs == nil {
		if a.db == nil && cfg.Database != nil {
			a.db, err = postgres.Connect(cfg.Database, professor.Migrations, cfg.Env, a.l)
			if err != nil {
				return nil, err
			}
		}

		if a.db != nil {
			a.profs = professor.NewDBStore(a.db)
		}
	}

	a.routes()

	if a.srv == nil {
		a.srv = defaultServer(cfg)
	}
	a.srv.Handler = a.handler

	return a, nil
}

// routes assembles the router serving every request a handles.
func (a *App) routes() {
	r := router.New(a.cfg.Env, a.rp, middleware.LogRequest(a.httpLog))
	r.OnEveryRequest(
		middleware.ForceHTTPS(a.cfg.Env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(a.httpLog),
		middleware.CORS(a.cfg.CORSOrigin),
		middleware.RateLimit(defaultVisitors(a.cfg), a.rp),
		middleware.InjectSession(a.sessions, a.l),
		middleware.InjectParams(a.rp, a.l,
			req.WithMaxMemory(a.cfg.UploadMaxSize),
			req.WithMaxBytes(a.cfg.BodyMaxSize),
			req.WithMaxMultipartBytes(a.uploads.MaxBodySize()),
		),
	)

	idem := middleware.Idempotent(a.idem, a.rp)
	r.Handle(router.Route{
		Path:        uploadPath,
		Method:      http.MethodPost,
		Handler:     a.uploads.Handler(a.rp),
		Middlewares: []middleware.Adapter{idem},
	})

	if a.profs != nil {
		r.HandleRoutes(professor.NewHandler(a.profs, a.rp, a.jar, a.l).Routes(), idem)
	} else {
		a.l.Warn("no database configured, professor routes disabled", nil)
	}

	r.Favicon(a.cfg.FaviconPath)
	r.Static(uploadPath, a.cfg.UploadDir)
	if a.cfg.ThumbDir != "" {
		r.Static(thumbPath, a.cfg.ThumbDir)
	}
	if a.cfg.PublicPath != "" {
		r.Static("/", a.cfg.PublicPath)
	}

	a.router = r

	// Overrides must rewrite the method before routes are matched.
	a.handler = middleware.MethodOverride()(r)
}

// Handler exposes the [http.Handler] serving every request.
func (a *App) Handler() http.Handler { return a.handler }

// Logger exposes the application [logger.Logger].
func (a *App) Logger() logger.Logger { return a.l }

// Router exposes the [*router.Router] so callers can register more routes.
func (a *App) Router() *router.Router { return a.router }

// Addr is the address a is listening on, once Run has started.
func (a *App) Addr() string {
	if a.ln == nil {
		return a.srv.Addr
	}

	return a.ln.Addr().String()
}

// Listen binds the server's address without serving yet.
// Run calls Listen when it has not been called.
func (a *App) Listen() error {
	if a.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", a.srv.Addr)
	if err != nil {
		return fmt.Errorf("could not listen: %w", err)
	}

	a.ln = ln
	return nil
}

// Run serves requests until ctx is done or the process receives one of:
//
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
//
// Run then shuts a down.
func (a *App) Run(ctx context.Context) error {
	if err := a.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.srv.BaseContext == nil {
		a.srv.BaseContext = func(_ net.Listener) context.Context { return context.WithoutCancel(ctx) }
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			a.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	errs := make(chan error, 1)
	go func() {
		a.logAddrs()
		if err := a.srv.Serve(a.ln); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("could not serve: %w", err)
		}
		close(errs)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errs:
		if ok {
			a.l.Error(err.Error(), &logger.LogContext{Error: err})
			return errors.Join(err, a.Shutdown())
		}
	}

	return a.Shutdown()
}

// Shutdown stops the web server, waiting up to five seconds for open requests,
// and closes the database and the Redis idempotency cache.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.l.Info("shutting down web server", nil)
	err := a.srv.Shutdown(ctx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		err = fmt.Errorf("could not shutdown: %w", err)
	} else {
		err = nil
	}

	if a.db != nil {
		err = errors.Join(err, postgres.Close(a.db))
	}

	if c, ok := a.idem.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}

	if err == nil {
		a.l.Info("web server shutdown successfully", nil)
	}

	return err
}

// logAddrs logs every address clients can reach a on.
// An unspecified host means every local IPv4 address.
func (a *App) logAddrs() {
	host, port, err := net.SplitHostPort(a.Addr())
	if err != nil {
		a.l.Info(fmt.Sprintf("running web server at %s", a.Addr()), nil)
		return
	}

	if ip := net.ParseIP(host); ip != nil && !ip.IsUnspecified() {
		a.l.Info(fmt.Sprintf("running web server at http://%s", a.Addr()), nil)
		return
	}

	for _, ip := range localIPv4s() {
		a.l.Info(fmt.Sprintf("running web server at http://%s", net.JoinHostPort(ip, port)), nil)
	}
}

func localIPv4s() []string {
	ips := []string{"127.0.0.1"}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ips
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
			continue
		}

		ips = append(ips, ipnet.IP.String())
	}

	return ips
}

// Env is the [campus.Environment] a runs in.
func (a *App) Env() campus.Environment { return a.cfg.Env }
