package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	interrors "taskboard/internal/errors"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, APIResponse{
		Success: true,
		Data:    data,
	})
}

// respondError maps domain errors to status codes. Unknown errors become
// 500s with the message suppressed so internals do not leak.
func respondError(c *gin.Context, err error) {
	status := interrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Error:   message,
	})
}
