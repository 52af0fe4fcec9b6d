package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/husainasfak/QuickBite-auth-service/internal/config"
)

// CORS applies the configured cross-origin policy. Credentials require an
// explicit origin echo, so "*" with credentials reflects the request origin.
func CORS(cfg config.Config) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(cfg.CORSAllowedOrigins))
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	methods := strings.Join(cfg.CORSAllowedMethods, ", ")
	headers := strings.Join(cfg.CORSAllowedHeaders, ", ")

	return func(c *gin.Context) {
		// Vary is set on every response so caches never serve a response
		// negotiated for one origin to a request from another.
		c.Header("Vary", "Origin")

		origin := c.GetHeader("Origin")
		permitted := false
		if origin != "" {
			_, ok := allowed[origin]
			permitted = ok || allowAll
		}
		if permitted {
			c.Header("Access-Control-Allow-Origin", origin)
			if cfg.CORSAllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
		}

		// Only preflights from permitted origins are short-circuited;
		// anything else proceeds as an ordinary request.
		if c.Request.Method == http.MethodOptions && permitted {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
