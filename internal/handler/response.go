// Package handler provides the gin HTTP handlers for the inbound API.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func sendError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

// sendDomainError maps the repository and input error taxonomy onto HTTP
// status codes.
func sendDomainError(c *gin.Context, err error) {
	switch {
	case db.IsInvalidInput(err):
		sendError(c, http.StatusBadRequest, err.Error())
	case db.IsNotFound(err):
		sendError(c, http.StatusNotFound, err.Error())
	default:
		sendError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// requireUserID reads the caller identity from the X-User-ID header. A
// missing or non-numeric header fails the request with 400.
func requireUserID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		sendError(c, http.StatusBadRequest, "X-User-ID header is required")
		return 0, false
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		sendError(c, http.StatusBadRequest, "X-User-ID header must be a positive integer")
		return 0, false
	}
	return userID, true
}
