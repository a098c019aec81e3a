// server/internal/api/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"garment-dispatch-api-server/internal/dispatch"

	"github.com/gin-gonic/gin"
)

// statusForError maps the dispatch error taxonomy to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrInvalidInput),
		errors.Is(err, dispatch.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, dispatch.ErrNotFound),
		errors.Is(err, dispatch.ErrBarcodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, dispatch.ErrQuantityExceeded),
		errors.Is(err, dispatch.ErrInvalidTransition),
		errors.Is(err, dispatch.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a dispatch error as JSON. Internal errors are
// not echoed verbatim to the client. ConcurrentModification carries a
// retryable hint so clients know a fresh snapshot may succeed.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	body := gin.H{"error": err.Error()}
	if errors.Is(err, dispatch.ErrConcurrentModification) {
		body["retryable"] = true
	}
	c.JSON(status, body)
}
