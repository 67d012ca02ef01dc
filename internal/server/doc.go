// Package server sequences the process lifecycle around an externally
// supplied route set.
//
// The lifecycle runs Idle → Configuring → BindingTransport → Serving →
// Draining → Stopped:
//   - Configuring: middleware policy, static/view mounts, routes, healthz,
//     error/404 handlers, then file provider and persistence init.
//   - BindingTransport: TLS-or-plain listener selection with a plain-HTTP
//     fallback when certificate material is missing, and port resolution
//     (override, configured, hard default).
//   - Serving: best-effort event manager attach, one "server listening" log
//     line, then detached session-monitor load and crash-hook install.
//   - Draining: SIGTERM races graceful close against a bounded timer; the
//     first to complete decides the exit.
package server
