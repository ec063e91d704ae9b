package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domain "separation-engine/internal/domain/separation"
)

type errorKind struct {
	err  error
	kind string
	code int
}

// Order matters only for errors wrapping more than one sentinel.
var errorKinds = []errorKind{
	{domain.ErrUnauthorized, "unauthorized", http.StatusForbidden},
	{domain.ErrNotFound, "not_found", http.StatusNotFound},
	{domain.ErrAlreadyTerminal, "already_terminal", http.StatusConflict},
	{domain.ErrInvalidStage, "invalid_stage", http.StatusConflict},
	{domain.ErrInvalidInput, "invalid_input", http.StatusUnprocessableEntity},
	{domain.ErrStorageFailure, "storage_failure", http.StatusBadGateway},
	{domain.ErrPersistenceFailure, "persistence_failure", http.StatusInternalServerError},
}

// statusFor maps a usecase error to its HTTP status and kind.
func statusFor(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.code, k.kind
		}
	}
	return http.StatusInternalServerError, "internal"
}

func (h *SeparationHandler) fail(c echo.Context, err error) error {
	code, kind := statusFor(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("route", c.Path()),
			zap.String("employee_id", c.Param("employee_id")),
			zap.String("kind", kind),
			zap.Error(err))
		if kind == "internal" {
			msg = "internal error"
		}
	}
	return c.JSON(code, ErrorResponse{Error: msg, Kind: kind})
}

func invalid(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Kind:    "invalid_input",
		Details: ToFieldErrors(err),
	})
}
