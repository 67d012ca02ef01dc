package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/chatwire/backend/internal/infrastructure/config"
)

// WildcardOrigin is the sentinel that allows every origin.
const WildcardOrigin = "*"

// Policy is the CORS decision derived from configuration. It is read-only
// after construction.
type Policy struct {
	origins     map[string]struct{}
	wildcard    bool
	methods     []string
	credentials bool
}

// NewPolicy builds a Policy from CORS configuration.
func NewPolicy(cfg config.CORSConfig) *Policy {
	p := &Policy{
		origins:     make(map[string]struct{}, len(cfg.Origins)),
		methods:     cfg.Methods,
		credentials: cfg.Credentials,
	}
	for _, origin := range cfg.Origins {
		if origin == WildcardOrigin {
			p.wildcard = true
			continue
		}
		p.origins[origin] = struct{}{}
	}
	return p
}

// AllowOrigin reports whether origin may access the service. With the
// wildcard sentinel every origin is allowed, including requests without an
// Origin header. Without it, only non-empty members of the configured set
// pass; a missing Origin header is treated as not allowed, so non-browser
// clients need the wildcard (in practice the CORS layer only consults this
// for actual cross-origin requests).
func (p *Policy) AllowOrigin(origin string) bool {
	if p.wildcard {
		return true
	}
	if origin == "" {
		return false
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS creates the cross-origin middleware for the given policy. Rejections
// are the generic CORS failure; the configured origin set is never echoed.
func CORS(p *Policy) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: p.AllowOrigin,
		AllowMethods:    p.methods,
		AllowHeaders: []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"X-CSRF-Token",
			"Authorization",
			"Accept",
			"Origin",
			"Cache-Control",
			"X-Requested-With",
		},
		AllowCredentials: p.credentials,
		MaxAge:           12 * time.Hour,
	})
}
