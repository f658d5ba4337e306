// Package main is the entry point for the Flood Detection Backend API.
//
// It registers the API under main:app and runs the startup routine, which
// prints the banner and serves the application on HOST:PORT
// (0.0.0.0:8001 by default).
//
// Usage:
//
//	# Production
//	./server
//
//	# Custom address
//	HOST=127.0.0.1 PORT=9090 ./server
//
//	# Development (reload on change, colored logs)
//	LOG_DEV=true ./server -reload -env-file .env
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
//
// Exit codes:
//   - 0: clean shutdown
//   - 1: configuration, application load, bind or serve error
package main
