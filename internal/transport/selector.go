// Package transport builds the single bound listener the server serves on:
// TLS when certificate material is available, plain TCP otherwise.
package transport

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"

	"github.com/chatwire/backend/internal/infrastructure/config"
)

// ErrTLSUnavailable signals that the TLS listener could not be constructed
// from the configured certificate material. The caller downgrades the
// transport kind to plain HTTP and selects again; certificate problems must
// never prevent the service from starting.
var ErrTLSUnavailable = errors.New("tls listener unavailable")

// Select constructs a listener for the configured transport kind on the
// configured port. A TLS construction failure returns ErrTLSUnavailable
// (wrapping the cause); plain listener failures propagate as-is and are
// fatal.
func Select(cfg *config.Config) (net.Listener, error) {
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	if cfg.Server.Kind == config.KindHTTPS {
		cert, err := tls.LoadX509KeyPair(cfg.TLS.FullchainPath, cfg.TLS.PrivKeyPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTLSUnavailable, err)
		}

		inner, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, err
		}
		return tls.NewListener(inner, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}), nil
	}

	return net.Listen("tcp", addr)
}
