package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestLogger tags every request with a request id and logs the
// outcome once the handler chain finishes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()

		logger := log.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		latency := time.Since(start).Milliseconds()

		log.Ctx(c.Request.Context()).Info().
			Str("method", c.Request.Method).
			Str("endpoint", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int64("latency", latency).
			Msg("request processed")
	}
}
