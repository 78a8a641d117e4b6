package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/errs"
)

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}

// errorStatus maps service-layer errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errs.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// sendError writes the uniform error body for a failed request.
func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	return c.Status(status).JSON(ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   err.Error(),
		Path:      c.Path(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
