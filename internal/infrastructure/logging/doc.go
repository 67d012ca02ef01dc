// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("server listening", zap.Int("port", 8080))
//	logger.Error("persistence init failed", zap.Error(err))
package logging
