package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FloodSight/backend/internal/api/docs"
	handlers "github.com/GriffinCanCode/FloodSight/backend/internal/api/http"
	"github.com/GriffinCanCode/FloodSight/backend/internal/api/middleware"
	"github.com/GriffinCanCode/FloodSight/backend/internal/app"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/tracing"
)

// Reference is the registry reference the API is served under
const Reference = config.DefaultAppRef

// Application is the FloodSight HTTP API
type Application struct {
	router *gin.Engine
	doc    *docs.Document
	logger *logging.Logger

	// tracer is closed with the application only when New created it
	tracer     *tracing.Tracer
	ownsTracer bool
}

// New builds the API from the runtime's dependencies. Missing dependencies
// fall back to defaults so the application can also be built standalone.
func New(opts app.Options) (app.Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = monitoring.NewMetrics()
	}
	a := &Application{
		logger: logger.Named("api"),
		tracer: opts.Tracer,
	}
	if a.tracer == nil {
		a.tracer = tracing.New(Reference, logger.Logger)
		a.ownsTracer = true
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(tracing.HTTPMiddleware(a.tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.CORS.AllowOrigins)))
	if cfg.RateLimit.Enabled {
		a.logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	a.doc = docs.New(docs.Info{
		Title:       cfg.App.Title,
		Version:     cfg.App.Version,
		Description: "Flood risk analysis from coordinates or terrain images.",
	})

	h := handlers.NewHandlers(cfg.App, metrics)
	h.Document(a.doc)

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	docs.Mount(router, a.doc)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	a.router = router
	a.logger.Debug("Application initialized", zap.Strings("paths", a.doc.Paths()))
	return a, nil
}

// ServeHTTP implements http.Handler
func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Document returns the OpenAPI document describing the routes
func (a *Application) Document() *docs.Document {
	return a.doc
}

// Close implements app.Application
func (a *Application) Close() error {
	if a.ownsTracer {
		a.tracer.Close()
	}
	return nil
}

// Register adds the API to r under Reference
func Register(r *app.Registry) error {
	return r.Register(Reference, New)
}
