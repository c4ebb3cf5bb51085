package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"posbackend/internal/common"

	"github.com/labstack/echo/v4"
)

// MessageResponse is the body of successful writes.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse acknowledges a create and names the new row.
type CreatedResponse struct {
	Message string      `json:"message"`
	ID      interface{} `json:"id,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// respondError maps err onto a status and an {"error"} body. Server errors
// are logged and replaced by fallback.
func respondError(c echo.Context, logger *slog.Logger, err error, resource, fallback string) error {
	status := common.StatusFor(err)
	switch {
	case status == http.StatusNotFound:
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, common.ErrAlreadyExists):
		return common.SendClientError(c, resource+" already exists")
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		logger.Error(fallback, slog.String("path", c.Path()), slog.String("error", err.Error()))
		return common.SendServerError(c, fallback)
	default:
		return common.SendError(c, status, err.Error())
	}
}
