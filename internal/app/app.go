package app

import (
	"net/http"

	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/tracing"
)

// Application is a servable request-handling unit
type Application interface {
	http.Handler
	// Close releases resources held by the application. The runtime calls
	// it after the application has been replaced or the server stopped.
	Close() error
}

// Options carries the dependencies a factory may use
type Options struct {
	Config  *config.Config
	Logger  *logging.Logger
	Metrics *monitoring.Metrics
	Tracer  *tracing.Tracer
}

// Factory builds a fresh application instance
type Factory func(opts Options) (Application, error)

// HandlerFunc adapts a plain http.Handler to Application with a no-op Close
type HandlerFunc func(http.ResponseWriter, *http.Request)

func (f HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f(w, r)
}

// Close implements Application
func (f HandlerFunc) Close() error {
	return nil
}
