// Package api assembles the FloodSight HTTP API, the application object
// served under the main:app reference.
//
// The gin engine is wrapped with recovery, request IDs, tracing, metrics,
// access logging, CORS and optional per-client rate limiting. Routes:
//
//	GET /              service status
//	GET /health        liveness and counters
//	GET /metrics       Prometheus exposition
//	GET /docs          Swagger UI
//	GET /redoc         ReDoc
//	GET /openapi.json  OpenAPI document (also /openapi.yaml)
package api
