package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger tags every request with an ID, echoes it back in the
// X-Request-ID header, and writes one access line per request with the
// operator when authenticated. Health probes are not logged.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		if c.FullPath() == "/health" {
			return
		}

		operator := "-"
		if username := c.GetString("username"); username != "" {
			operator = username
		}
		route := c.Request.URL.Path
		if query != "" {
			route += "?" + query
		}

		log.Printf("req=%s status=%d dur=%s user=%s ip=%s %s %s",
			requestID[:8],
			c.Writer.Status(),
			time.Since(start).Round(time.Millisecond),
			operator,
			c.ClientIP(),
			c.Request.Method,
			route,
		)

		for _, e := range c.Errors {
			log.Printf("req=%s error=%v", requestID[:8], e.Err)
		}
	}
}
