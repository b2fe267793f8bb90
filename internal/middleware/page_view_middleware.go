package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ViewRecorder counts one site visit.
type ViewRecorder interface {
	RecordView() error
}

// PageViewMiddleware counts successful GETs. A failed count is logged and
// never affects the response.
func PageViewMiddleware(recorder ViewRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet {
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		if err := recorder.RecordView(); err != nil {
			GetLoggerFromContext(c).Warn("Failed to record page view", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
		}
	}
}
