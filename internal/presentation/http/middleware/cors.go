package middleware

import (
	"slices"
	"time"

	"github.com/eazyque/eazyque-api/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	devOrigins     = []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID", IdempotencyKeyHeader}
	exposedHeaders = []string{
		"Content-Length", "X-Request-ID", "X-Idempotency-Replayed",
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
	}
)

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// CORSMiddleware allows the POS web and tablet clients. Empty settings fall
// back to local development origins.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	headers := orDefault(cfg.AllowedHeaders, defaultHeaders)
	if !slices.Contains(headers, IdempotencyKeyHeader) {
		headers = append(slices.Clone(headers), IdempotencyKeyHeader)
	}

	return cors.New(cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, devOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:     headers,
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
