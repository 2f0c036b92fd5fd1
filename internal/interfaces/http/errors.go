package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// statusForKind traduce la categoría de dominio a código HTTP.
func statusForKind(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnavailable):
		return fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe el error como dto.ErrorResponse. Los errores de dominio llevan su
// código y mensaje; cualquier otro se registra y se responde 500 con un mensaje genérico.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := statusForKind(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno del servidor"})
	}
	msg := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		code, msg = de.Code, de.Message
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
