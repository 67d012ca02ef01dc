// Package middleware provides the HTTP policy layer applied ahead of all
// business handlers.
//
// Stack:
//   - CORS: origin decision derived from configuration, with a wildcard
//     sentinel and a closed-set member check
//   - BodyLimit: uniform request body ceiling
//   - RequestID: per-request UUID tagging
//   - RateLimit: per-IP token bucket
package middleware
