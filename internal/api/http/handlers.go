package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/FloodSight/backend/internal/api/docs"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/monitoring"
)

// Handlers serves the service-level endpoints of the API
type Handlers struct {
	app     config.AppConfig
	metrics *monitoring.Metrics
	now     func() time.Time
}

// NewHandlers creates the handler set
func NewHandlers(app config.AppConfig, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		app:     app,
		metrics: metrics,
		now:     time.Now,
	}
}

// RootResponse is returned by GET /
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Docs    string `json:"docs"`
	ReDoc   string `json:"redoc"`
	OpenAPI string `json:"openapi"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	Version       string  `json:"version"`
	Timestamp     int64   `json:"timestamp"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Requests      int64   `json:"requests"`
	Errors        int64   `json:"errors"`
	Reloads       int64   `json:"reloads"`
}

// Root describes the running service and where its documentation lives
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Message: h.app.Title,
		Version: h.app.Version,
		Status:  "running",
		Docs:    docs.SwaggerUI,
		ReDoc:   docs.ReDocPath,
		OpenAPI: docs.JSONPath,
	})
}

// Health reports liveness with a few request counters
func (h *Handlers) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Service:   h.app.Title,
		Version:   h.app.Version,
		Timestamp: h.now().Unix(),
	}
	if h.metrics != nil {
		snap := h.metrics.Snapshot()
		resp.UptimeSeconds = h.metrics.Uptime().Seconds()
		resp.Requests = snap.TotalRequests
		resp.Errors = snap.TotalErrors
		resp.Reloads = snap.Reloads
	}
	c.JSON(http.StatusOK, resp)
}

// Document adds the operations served by h to doc
func (h *Handlers) Document(doc *docs.Document) {
	doc.Add(docs.Operation{
		Method:      http.MethodGet,
		Path:        "/",
		OperationID: "root",
		Summary:     "Service status",
		Tags:        []string{"service"},
		Responses: docs.JSONResponse("Service name, version and documentation links", &docs.Schema{
			Type:     "object",
			Required: []string{"message", "version", "status"},
			Properties: map[string]*docs.Schema{
				"message": {Type: "string", Example: h.app.Title},
				"version": {Type: "string", Example: h.app.Version},
				"status":  {Type: "string", Example: "running"},
				"docs":    {Type: "string", Example: docs.SwaggerUI},
				"redoc":   {Type: "string", Example: docs.ReDocPath},
				"openapi": {Type: "string", Example: docs.JSONPath},
			},
		}),
	})
	doc.Add(docs.Operation{
		Method:      http.MethodGet,
		Path:        "/health",
		OperationID: "health",
		Summary:     "Health check",
		Tags:        []string{"service"},
		Responses: docs.JSONResponse("Service is healthy", &docs.Schema{
			Type:     "object",
			Required: []string{"status", "service"},
			Properties: map[string]*docs.Schema{
				"status":         {Type: "string", Example: "healthy"},
				"service":        {Type: "string"},
				"version":        {Type: "string"},
				"timestamp":      {Type: "integer", Format: "int64"},
				"uptime_seconds": {Type: "number"},
				"requests":       {Type: "integer", Format: "int64"},
				"errors":         {Type: "integer", Format: "int64"},
				"reloads":        {Type: "integer", Format: "int64"},
			},
		}),
	})
	doc.Add(docs.Operation{
		Method:      http.MethodGet,
		Path:        "/metrics",
		OperationID: "metrics",
		Summary:     "Prometheus metrics",
		Tags:        []string{"service"},
		Responses: map[string]docs.Response{
			"200": {
				Description: "Metrics in the Prometheus text exposition format",
				Content:     map[string]docs.MediaType{"text/plain": {Schema: &docs.Schema{Type: "string"}}},
			},
		},
	})
}
