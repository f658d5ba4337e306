// Package config provides 12-factor configuration management for the
// FloodSight backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags in cmd/server can override the reload switch, log level, app
// reference and env file for development flexibility.
//
// Configuration Sections:
//   - Server: bind address (HOST, PORT), timeouts, compression
//   - App: application reference (main:app), title and version
//   - Reload: reload-on-change switch, watched dirs and glob filters
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - CORS: allowed origins
//
// A malformed value (for example PORT=abc) is reported as a
// *ConfigurationError before anything is bound.
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - HOST, PORT, SHUTDOWN_TIMEOUT, READ_HEADER_TIMEOUT, GZIP_ENABLED
//   - APP_TITLE, APP_VERSION (the app reference is main:app unless -app is given)
//   - RELOAD, RELOAD_DIRS, RELOAD_INCLUDES, RELOAD_EXCLUDES, RELOAD_DELAY
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ORIGINS
package config
