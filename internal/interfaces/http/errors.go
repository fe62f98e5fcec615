package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visitas-api/internal/application/dto"
	"github.com/jhoicas/visitas-api/internal/application/reports"
	"github.com/jhoicas/visitas-api/internal/domain"
)

// respondError traduce los errores del dominio a códigos HTTP con cuerpo dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: domain.ErrInvalidCredentials.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNoData):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_DATA", Message: reports.NoDataMessage})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateIdentifier):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrBackendUnavailable):
		// El detalle de transporte no se expone al cliente.
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BACKEND_UNAVAILABLE", Message: "almacenamiento no disponible, intente más tarde"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
