// Package main is the entry point for the chatwire backend server.
//
// The binary assembles the HTTP policy layer (CORS, body limits, rate
// limiting), selects the transport (TLS with a plain-HTTP fallback when
// certificate material is missing), starts the external collaborators, and
// serves until a termination signal drains it.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8080
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGTERM: graceful shutdown, bounded by a 10 second drain timer
package main
