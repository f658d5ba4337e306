/*
Package monitoring provides Prometheus metrics for the FloodSight backend.

# Overview

Each Metrics value owns a private prometheus.Registry with the Go and
process collectors registered, plus:

- HTTP request count, latency and response size per route template
- application loads by reference and outcome
- reload-on-change cycles by outcome
- process uptime

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.RecordAppLoad("main:app", err)
*/
package monitoring
