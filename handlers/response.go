package handlers

import (
	"net/http"

	"galleria-backend/utils"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried in every error envelope.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// respond wraps a successful payload in the {success, data} envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError wraps a failure in the envelope with a code and message.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}

// respondValidationError reports a 400 with structured per-field details
// extracted from the binding error.
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    CodeValidationError,
			"message": utils.SanitizeValidationError(err),
			"details": utils.ValidationDetails(err),
		},
	})
}
