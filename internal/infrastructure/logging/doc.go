// Package logging provides structured logging using uber/zap.
//
// This package offers two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability (LOG_DEV=true)
//
// The level comes from LOG_LEVEL and defaults to info. The startup banner is
// not logged through this package; it is plain text on stdout.
//
// Example Usage:
//
//	logger, err := logging.FromConfig(cfg.Logging)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//	logger.Info("Server starting", zap.String("addr", cfg.Server.Addr()))
package logging
