package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatwire/backend/internal/api/envelope"
)

// MaxBodyBytes is the request body ceiling applied uniformly to all payloads.
const MaxBodyBytes int64 = 136 << 20 // 136 MB

// BodyLimit rejects oversized requests before business handlers run. Requests
// that declare an oversized Content-Length fail immediately; chunked bodies
// are capped by MaxBytesReader so reads fail at the limit.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			envelope.Render(c, envelope.NewHTTPError(
				http.StatusRequestEntityTooLarge,
				"Payload Too Large",
				"request body exceeds limit",
			))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
