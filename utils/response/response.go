package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error sends a standardized error response
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// Message sends a human readable confirmation alongside extra fields
func Message(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// ValidationError sends a response for validation errors
func ValidationError(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "errors": errors})
}
