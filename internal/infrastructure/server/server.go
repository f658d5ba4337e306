package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FloodSight/backend/internal/app"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/reload"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/tracing"
)

// ListenFunc opens the server's listener. net.Listen is the default.
type ListenFunc func(network, address string) (net.Listener, error)

// ConfigLoader produces a fresh configuration on reload.
type ConfigLoader func() (*config.Config, error)

// BindError reports that the listen address could not be bound.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Server serves one application from the registry on one listener
type Server struct {
	cfg      *config.Config
	registry *app.Registry
	ref      string

	logger     *logging.Logger
	log        *logging.Logger
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
	ownsTracer bool

	listen     ListenFunc
	loadConfig ConfigLoader

	current  atomic.Pointer[loaded]
	reloadMu sync.Mutex

	ready chan struct{}
	addr  atomic.Value
}

type loaded struct {
	app app.Application
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger handed to the server and the application
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics sets the metrics collector
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

// WithTracer sets the tracer. A tracer passed in is not closed by the server.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(s *Server) { s.tracer = tracer }
}

// WithListenFunc replaces net.Listen
func WithListenFunc(fn ListenFunc) Option {
	return func(s *Server) { s.listen = fn }
}

// WithConfigLoader sets how configuration is rebuilt on reload
func WithConfigLoader(fn ConfigLoader) Option {
	return func(s *Server) { s.loadConfig = fn }
}

// New creates a server for cfg.App.Ref. Nothing is loaded or bound until Run.
func New(cfg *config.Config, registry *app.Registry, opts ...Option) *Server {
	s := &Server{
		cfg:        cfg,
		registry:   registry,
		ref:        cfg.App.Ref,
		listen:     net.Listen,
		loadConfig: config.Load,
		ready:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.log = s.logger.Named("server")
	if s.metrics == nil {
		s.metrics = monitoring.NewMetrics()
	}
	if s.tracer == nil {
		s.tracer = tracing.New("backend", s.logger.Logger)
		s.ownsTracer = true
	}
	return s
}

// Ready is closed once the listener is bound
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. It is empty before Ready is closed.
func (s *Server) Addr() string {
	addr, _ := s.addr.Load().(string)
	return addr
}

// Run loads the application, binds the listener and serves until ctx is
// cancelled or serving fails. The application is loaded before binding, so
// a load failure never leaves a socket open. Exactly one listen attempt is
// made. Cancellation triggers a graceful shutdown and a nil return.
func (s *Server) Run(ctx context.Context) error {
	defer s.closeTracer()

	application, err := s.load(s.cfg)
	if err != nil {
		return err
	}
	s.current.Store(&loaded{app: application})
	defer s.closeCurrent()

	var watcher *reload.Watcher
	if s.cfg.Reload.Enabled {
		watcher, err = reload.New(s.cfg.Reload, s.logger)
		if err != nil {
			return fmt.Errorf("failed to start reload watcher: %w", err)
		}
	}

	addr := s.cfg.Server.Addr()
	ln, err := s.listen("tcp", addr)
	if err != nil {
		if watcher != nil {
			_ = watcher.Close()
		}
		return &BindError{Addr: addr, Err: err}
	}
	s.addr.Store(ln.Addr().String())
	close(s.ready)

	var handler http.Handler = http.HandlerFunc(s.serveHTTP)
	if s.cfg.Server.Compression {
		handler = gzhttp.GzipHandler(handler)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(s.log.Logger),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if watcher != nil {
		s.log.Info("Reload enabled",
			zap.Strings("dirs", s.cfg.Reload.Dirs),
			zap.Int("watched", watcher.Watched()),
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			watcher.Run(ctx)
		}()
		go func() {
			defer wg.Done()
			for change := range watcher.Changes() {
				s.log.Info("Detected changes, reloading", zap.Strings("paths", change.Paths))
				_ = s.Reload()
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	s.log.Info("Serving",
		zap.String("app", s.ref),
		zap.String("addr", s.Addr()),
		zap.Bool("gzip", s.cfg.Server.Compression),
	)

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down", zap.Duration("timeout", s.cfg.Server.ShutdownTimeout))
		shutdownCtx, stop := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer stop()

		err := srv.Shutdown(shutdownCtx)
		<-serveErr
		cancel()
		wg.Wait()
		if err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.log.Info("Server stopped")
		return nil

	case err := <-serveErr:
		_ = srv.Close()
		cancel()
		wg.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// Reload rebuilds configuration and the application, then swaps the new
// application in. On failure the running application keeps serving.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.current.Load() == nil {
		return errors.New("server is not running")
	}

	cfg, err := s.loadConfig()
	if err != nil {
		s.metrics.RecordReload(err)
		s.log.Error("Reload failed, keeping current application", zap.Error(err))
		return err
	}
	if addr := cfg.Server.Addr(); addr != s.cfg.Server.Addr() {
		s.log.Warn("Listen address changes need a restart",
			zap.String("current", s.cfg.Server.Addr()),
			zap.String("configured", addr),
		)
	}

	next, err := s.load(cfg)
	if err != nil {
		s.metrics.RecordReload(err)
		s.log.Error("Reload failed, keeping current application", zap.Error(err))
		return err
	}

	prev := s.current.Swap(&loaded{app: next})
	if prev != nil {
		if err := prev.app.Close(); err != nil {
			s.log.Warn("Failed to close replaced application", zap.Error(err))
		}
	}
	s.metrics.RecordReload(nil)
	s.log.Info("Application reloaded", zap.String("app", s.ref))
	return nil
}

func (s *Server) load(cfg *config.Config) (app.Application, error) {
	application, err := s.registry.Load(s.ref, app.Options{
		Config:  cfg,
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	})
	s.metrics.RecordAppLoad(s.ref, err)
	return application, err
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	cur := s.current.Load()
	if cur == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	cur.app.ServeHTTP(w, r)
}

func (s *Server) closeCurrent() {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if cur := s.current.Swap(nil); cur != nil {
		if err := cur.app.Close(); err != nil {
			s.log.Warn("Failed to close application", zap.Error(err))
		}
	}
}

func (s *Server) closeTracer() {
	if s.ownsTracer {
		s.tracer.Close()
	}
}
