// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fairyhunter13/inventory-service/internal/inventory"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError aborts the request with a JSON error payload.
func WriteJSONError(c *gin.Context, status int, message, details string) {
	c.AbortWithStatusJSON(status, jsonError{Error: message, Details: details})
}

// statusFor maps an inventory error to an HTTP status code.
func statusFor(err error) int {
	var verr *inventory.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr), errors.Is(err, inventory.ErrMissingID):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeResult writes the structured result for err.
func writeResult(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), inventory.ResultFromError(err))
}
