package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chatwire/backend/internal/api/envelope"
	"github.com/chatwire/backend/internal/api/middleware"
	"github.com/chatwire/backend/internal/collab"
	"github.com/chatwire/backend/internal/infrastructure/config"
	"github.com/chatwire/backend/internal/infrastructure/logging"
	"github.com/chatwire/backend/internal/infrastructure/monitoring"
	"github.com/chatwire/backend/internal/notify"
	"github.com/chatwire/backend/internal/transport"
)

// DefaultDrainTimeout bounds graceful shutdown: if the listener has not
// closed within it, the process exits anyway.
const DefaultDrainTimeout = 10 * time.Second

// State is the lifecycle position of the server.
type State int32

const (
	StateIdle State = iota
	StateConfiguring
	StateBindingTransport
	StateServing
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfiguring:
		return "configuring"
	case StateBindingTransport:
		return "binding"
	case StateServing:
		return "serving"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options wires the server's configuration and collaborators. Routes is the
// externally supplied business route set; everything else has a working
// default.
type Options struct {
	Config   *config.Config
	Logger   *logging.Logger
	Metrics  *monitoring.Metrics
	Notifier *notify.Notifier

	// Routes mounts the business route set onto the router.
	Routes func(*gin.Engine)
	// StaticDirs maps URL prefixes to directories served as static files.
	StaticDirs map[string]string
	// ViewsGlob, when set, loads HTML templates from the glob.
	ViewsGlob string
	// Tracker is the optional external error-tracking middleware.
	Tracker gin.HandlerFunc

	FileProvider collab.FileProviderOption
	Persistence  collab.Persistence
	Sessions     collab.SessionMonitor
	Events       collab.EventManager
	CrashHook    collab.CrashHook

	DrainTimeout time.Duration
	// Exit replaces os.Exit; tests inject a recorder here.
	Exit func(code int)
}

// Server owns the single bound listener and drives the lifecycle:
// configuring, transport binding, serving, and the bounded drain.
type Server struct {
	cfg    *config.Config
	log    *logging.Logger
	router *gin.Engine
	opts   Options

	httpServer *http.Server
	listener   net.Listener
	// closeFn defaults to httpServer.Shutdown; tests replace it to exercise
	// the drain race.
	closeFn func(context.Context) error

	state        atomic.Int32
	drainTimeout time.Duration
	exit         func(int)
	sigCh        chan os.Signal
}

// New assembles the middleware chain, mounts routes, and initializes the
// startup collaborators. File provider and persistence init run sequentially
// here; either failure aborts startup.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewDefault()
	}
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetrics()
	}
	if opts.Persistence == nil {
		opts.Persistence = collab.NopPersistence{}
	}
	if opts.Sessions == nil {
		opts.Sessions = collab.NopSessionMonitor{}
	}
	if opts.Events == nil {
		opts.Events = collab.NopEventManager{}
	}
	if opts.CrashHook == nil {
		opts.CrashHook = collab.NopCrashHook{}
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = DefaultDrainTimeout
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}

	s := &Server{
		cfg:          opts.Config,
		log:          opts.Logger,
		opts:         opts,
		drainTimeout: opts.DrainTimeout,
		exit:         opts.Exit,
		sigCh:        make(chan os.Signal, 1),
	}
	s.state.Store(int32(StateConfiguring))

	if !opts.Config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	reporter := s.opts.Notifier.Notify
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := fmt.Errorf("panic: %v", recovered)
		reporter(err)
		envelope.Render(c, err)
		c.Abort()
	}))
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(opts.Metrics))
	if s.cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(s.cfg.RateLimit))
	}
	router.Use(middleware.CORS(middleware.NewPolicy(s.cfg.CORS)))
	router.Use(middleware.BodyLimit(middleware.MaxBodyBytes))
	if opts.Tracker != nil {
		router.Use(opts.Tracker)
	}
	router.Use(envelope.ErrorHandler(reporter))

	if opts.ViewsGlob != "" {
		router.LoadHTMLGlob(opts.ViewsGlob)
	}
	for prefix, dir := range opts.StaticDirs {
		router.Static(prefix, dir)
	}

	// The healthcheck is registered before any collaborator starts so it
	// answers regardless of their availability.
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	if opts.Routes != nil {
		opts.Routes(router)
	}
	router.NoRoute(envelope.NoRoute())

	s.router = router

	ctx := context.Background()
	if opts.FileProvider.Enabled() {
		if err := opts.FileProvider.Service().Init(ctx); err != nil {
			return nil, fmt.Errorf("file provider init: %w", err)
		}
		s.log.Info("file provider initialized")
	}
	if err := opts.Persistence.Init(ctx); err != nil {
		return nil, fmt.Errorf("persistence init: %w", err)
	}

	return s, nil
}

// Handler exposes the assembled router; tests drive it directly.
func (s *Server) Handler() http.Handler {
	return s.router
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Run binds the transport and serves until a termination signal or a fatal
// listener error. On SIGTERM it drains and exits the process through the
// configured exit function.
func (s *Server) Run() error {
	s.state.Store(int32(StateBindingTransport))

	// Both config writes below happen before the accept loop starts.
	s.cfg.Server.Port = s.cfg.ResolvePort()

	ln, err := s.bind()
	if err != nil {
		return fmt.Errorf("bind transport: %w", err)
	}
	s.listener = ln

	if err := s.opts.Events.Init(ln); err != nil {
		s.log.Warn("event manager init failed", zap.Error(err))
	}

	s.httpServer = &http.Server{Handler: s.router}
	s.closeFn = s.httpServer.Shutdown

	signal.Notify(s.sigCh, syscall.SIGTERM)
	defer signal.Stop(s.sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	s.state.Store(int32(StateServing))
	s.log.Info("server listening",
		zap.String("kind", s.cfg.Server.Kind),
		zap.Int("port", s.cfg.Server.Port),
	)

	go func() {
		if err := s.opts.Sessions.Load(context.Background()); err != nil {
			s.log.Error("session monitor load failed", zap.Error(err))
		}
	}()
	go func() {
		if err := s.opts.CrashHook.Install(); err != nil {
			s.log.Error("crash hook install failed", zap.Error(err))
		}
	}()

	select {
	case <-s.sigCh:
		s.drain()
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Stop feeds the shutdown path without an external signal.
func (s *Server) Stop() {
	select {
	case s.sigCh <- syscall.SIGTERM:
	default:
	}
}

// bind selects the listener, downgrading to plain HTTP when TLS material is
// missing or invalid.
func (s *Server) bind() (net.Listener, error) {
	ln, err := transport.Select(s.cfg)
	if errors.Is(err, transport.ErrTLSUnavailable) {
		s.log.Warn("tls certificate unavailable, falling back to plain http",
			zap.String("privkey_env", "SSL_PRIVKEY_PATH"),
			zap.String("fullchain_env", "SSL_FULLCHAIN_PATH"),
			zap.Error(err),
		)
		s.cfg.Server.Kind = config.KindHTTP
		ln, err = transport.Select(s.cfg)
	}
	return ln, err
}

// drain races graceful close against the drain timer; whichever completes
// first decides. Exit code is 0 on clean close or timer expiry, 1 when close
// itself fails.
func (s *Server) drain() {
	s.state.Store(int32(StateDraining))
	s.log.Info("termination signal received, draining",
		zap.Duration("timeout", s.drainTimeout),
	)

	done := make(chan error, 1)
	go func() {
		done <- s.closeFn(context.Background())
	}()

	code := 0
	select {
	case err := <-done:
		if err != nil {
			s.log.Error("listener close failed", zap.Error(err))
			code = 1
		} else {
			s.log.Info("server stopped cleanly")
		}
	case <-time.After(s.drainTimeout):
		s.log.Warn("drain timeout exceeded, forcing exit")
	}

	s.state.Store(int32(StateStopped))
	s.log.Sync()
	s.exit(code)
}
