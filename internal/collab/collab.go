// Package collab declares the entry points of the external services the
// server starts or notifies. Their internals live outside this repository;
// the server only sequences the calls below.
package collab

import (
	"context"
	"net"
)

// FileProvider is the optional file storage service. Init must complete
// before the server moves on to transport binding.
type FileProvider interface {
	Init(ctx context.Context) error
}

// Persistence is the database-backed repository service.
type Persistence interface {
	Init(ctx context.Context) error
}

// SessionMonitor restores messaging sessions after the server is up. Load
// runs detached; its failure never stops the server.
type SessionMonitor interface {
	Load(ctx context.Context) error
}

// EventManager attaches to the bound listener (for push/event transports).
// Its failure is best-effort: logged, never fatal.
type EventManager interface {
	Init(ln net.Listener) error
}

// CrashHook installs a process-wide handler for unexpected errors.
type CrashHook interface {
	Install() error
}

// FileProviderOption models the file provider's optionality explicitly:
// resolved once at startup, never re-queried per request.
type FileProviderOption struct {
	svc FileProvider
}

// EnabledFileProvider returns an option carrying svc.
func EnabledFileProvider(svc FileProvider) FileProviderOption {
	return FileProviderOption{svc: svc}
}

// DisabledFileProvider returns the absent option.
func DisabledFileProvider() FileProviderOption {
	return FileProviderOption{}
}

// Enabled reports whether a file provider was configured.
func (o FileProviderOption) Enabled() bool { return o.svc != nil }

// Service returns the configured provider; only valid when Enabled.
func (o FileProviderOption) Service() FileProvider { return o.svc }
