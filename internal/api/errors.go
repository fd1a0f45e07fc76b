package api

import (
	"errors"
	"net/http"

	"burgerstock/internal/models"

	"github.com/gin-gonic/gin"
)

// statusFor maps a domain error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes msg with the status for err. Internal errors are logged and
// never echoed to the client.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "request_id", c.GetString("request_id"), "error", err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
