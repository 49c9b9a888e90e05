package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/finance_batch_pipeline/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedRoutes are route patterns that never produce analytics events.
var untrackedRoutes = map[string]bool{
	"/":             true,
	"/health":       true,
	"/swagger/*any": true,
}

// routeEventName turns a route pattern into an event name:
// "/api/v1/runs/:runID" becomes "api_v1_runs_runID".
func routeEventName(fullPath string) string {
	name := strings.TrimPrefix(fullPath, "/")
	name = strings.ReplaceAll(name, ":", "")
	return strings.ReplaceAll(name, "/", "_")
}

// PosthogMiddleware sends one PostHog event per successful authenticated API call.
// The caller's JWT subject is the distinct id.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || untrackedRoutes[c.FullPath()] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if len(c.Errors) > 0 || (status >= http.StatusBadRequest && status != http.StatusUnprocessableEntity) {
			return
		}
		subject, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		event := routeEventName(c.FullPath())
		if event == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": status,
			"latency_ms":  time.Since(start).Milliseconds(),
		}
		for _, p := range c.Params {
			props[p.Key] = p.Value
		}
		posthogClient.Enqueue(subject, event, props)
	}
}
