// Package monitoring provides Prometheus metrics for the HTTP surface.
//
// Request count, latency, and in-flight gauges are collected by a Gin
// middleware and exposed through a per-instance registry, so tests can
// construct collectors without tripping duplicate registration.
package monitoring
