package tracing

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// GinMiddleware traces API requests. Health, scrape and docs endpoints are
// skipped.
func GinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(traced))
}

func traced(r *http.Request) bool {
	switch r.URL.Path {
	case "/", "/health", "/metrics":
		return false
	}
	return !strings.HasPrefix(r.URL.Path, "/swagger/")
}
