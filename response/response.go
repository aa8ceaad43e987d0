// Package response writes the JSON envelope shared by every endpoint:
// {"success": bool, "message": string, ...}.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// Success merges data into a success envelope.
func Success(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// Internal logs err and answers 500 without exposing its text.
func Internal(c *gin.Context, logger *slog.Logger, message string, err error) {
	logger.ErrorContext(c.Request.Context(), message,
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.String("error", err.Error()),
	)
	Error(c, http.StatusInternalServerError, message)
}
