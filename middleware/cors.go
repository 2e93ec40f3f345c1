package middleware

import (
	"net/http"
	"os"
	"strings"

	"events-api/pkg/appenv"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware configures CORS headers. The public events and status
// endpoints are consumed directly by the website's browser code, so CORS is
// part of the contract here, not an afterthought.
//   - In non-production environments any origin is allowed for convenience.
//   - In production the incoming Origin is reflected only if present in the
//     comma-separated ALLOWED_ORIGINS env var.
func CORSMiddleware() gin.HandlerFunc {
	isProd := appenv.IsProduction() || gin.Mode() == gin.ReleaseMode

	var allowedOrigins map[string]struct{}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		allowedOrigins = make(map[string]struct{})
		for _, o := range strings.Split(raw, ",") {
			if origin := strings.TrimSpace(o); origin != "" {
				allowedOrigins[origin] = struct{}{}
			}
		}
	}

	const allowedMethods = "GET, POST, OPTIONS"
	const allowedHeaders = "Origin, Content-Type, Authorization"

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Advise caches that the response varies based on Origin
		c.Header("Vary", "Origin")

		if !isProd {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", allowedMethods)
			c.Header("Access-Control-Allow-Headers", allowedHeaders)
		} else if origin != "" && allowedOrigins != nil {
			if _, ok := allowedOrigins[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", allowedMethods)
				c.Header("Access-Control-Allow-Headers", allowedHeaders)
			}
		}

		if c.Request.Method == http.MethodOptions {
			// Preflight: if the origin was not allowed, the headers above are
			// absent and the browser blocks the request.
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
