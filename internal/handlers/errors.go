package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so errcheck is suppressed here.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondValidationError reports request binding failures as 400 with per-field details
func respondValidationError(c *gin.Context, err error) {
	details := ParseValidationErrors(err)
	if len(details) == 0 {
		respondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", details, err)
}
