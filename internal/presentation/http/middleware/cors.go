package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/config"
)

// CORSMiddleware creates a CORS middleware with the provided configuration.
// Paths under publicPrefix accept form posts from any origin without
// credentials, since tenants embed the booking form on their own sites.
func CORSMiddleware(cfg *config.CORSConfig, publicPrefix string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", RequestIDHeader, "X-Idempotency-Replayed", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}
	}

	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}

	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"Origin",
			RequestIDHeader,
			TenantHeader,
			IdempotencyKeyHeader,
		}
	} else {
		corsConfig.AllowHeaders = appendMissing(corsConfig.AllowHeaders, TenantHeader, IdempotencyKeyHeader)
	}

	app := cors.New(corsConfig)
	public := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	})

	return func(c *gin.Context) {
		if publicPrefix != "" && strings.HasPrefix(c.Request.URL.Path, publicPrefix) {
			public(c)
			return
		}
		app(c)
	}
}

func appendMissing(headers []string, required ...string) []string {
	for _, r := range required {
		found := false
		for _, h := range headers {
			if strings.EqualFold(h, r) {
				found = true
				break
			}
		}
		if !found {
			headers = append(headers, r)
		}
	}
	return headers
}
