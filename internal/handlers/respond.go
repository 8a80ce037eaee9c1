package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomkeep/dataroom/internal/services"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// respondError maps service errors onto the HTTP error taxonomy:
// forbidden 403, not found 404, validation/conflict 400, anything
// unexpected 500. Upstream failures are logged with their cause; the
// client only sees a generic envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found"})
	case errors.Is(err, services.ErrNotFoundOnStorage):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found_on_storage"})
	case errors.Is(err, services.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file_too_large", Details: err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Details: err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "conflict", Details: err.Error()})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Details: msg})
}

// requestMeta extracts best-effort audit attribution from the request.
func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
