package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request, named after the route
// template. Probe and metrics routes are not traced.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	tracer := otel.Tracer(serviceName)

	return func(c *gin.Context) {
		if untraced(c.Request.URL.Path) {
			c.Next()
			return
		}

		route := routeOf(c)
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Request.Method),
				semconv.HTTPRoute(route),
				semconv.URLPath(c.Request.URL.Path),
				semconv.UserAgentOriginal(c.Request.UserAgent()),
				attribute.String("crm.page", pageOf(route)),
				attribute.Bool("crm.session", TokenFromContext(c) != ""),
			),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		if id := RequestIDFromContext(c); id != "" {
			span.SetAttributes(attribute.String("request.id", id))
		}

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(semconv.HTTPResponseStatusCode(status))
		if status == http.StatusSeeOther {
			span.SetAttributes(attribute.String("crm.redirect", c.Writer.Header().Get("Location")))
		}
		if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
			span.SetStatus(codes.Error, http.StatusText(status))
			if err := c.Errors.Last(); err != nil {
				span.RecordError(err)
			}
		}
	}
}

func untraced(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/swagger/")
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// pageOf names the page a route belongs to: "/follow-ups/:id" is "follow-ups".
func pageOf(route string) string {
	page, _, _ := strings.Cut(strings.TrimPrefix(route, "/"), "/")
	if page == "" {
		return "landing"
	}
	return page
}
