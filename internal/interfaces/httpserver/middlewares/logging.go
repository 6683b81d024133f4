package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/jan-crm/internal/infrastructure/viewstate"
)

// LoggingMiddleware writes one access log line per request. Query strings are
// left out since search terms may name contacts, and sessions appear only by
// their hashed key. Probes log at debug.
func LoggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := accessEvent(log, c.Request.URL.Path, status)
		if !event.Enabled() {
			return
		}

		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			event = event.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
		}
		if id := RequestIDFromContext(c); id != "" {
			event = event.Str("request_id", id)
		}
		if key := viewstate.SessionKey(TokenFromContext(c)); key != "" {
			event = event.Str("session", key[:8])
		}
		event.
			Str("method", c.Request.Method).
			Str("route", routeOf(c)).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg(c.Errors.ByType(gin.ErrorTypePrivate).String())
	}
}

func accessEvent(log zerolog.Logger, path string, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	case untraced(path):
		return log.Debug()
	default:
		return log.Info()
	}
}
