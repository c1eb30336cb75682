package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// GetUserID actor de la petición (header X-User-ID). Vacío si no viene.
func GetUserID(c *fiber.Ctx) string {
	return c.Get("X-User-ID")
}

// writeDomainError mapea errores de dominio a códigos HTTP:
// validación 400, no encontrado 404, stock/conflicto/cancelación bloqueada 409,
// numeración agotada 503, el resto 500.
func writeDomainError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: ve.Error(),
			Details: fiber.Map{"field": ve.Field},
		})
	}
	if errors.Is(err, domain.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: ise.Error(),
			Details: fiber.Map{
				"item_id":   ise.ItemID,
				"location":  ise.Location,
				"requested": ise.Requested,
				"available": ise.Available,
			},
		})
	}
	var cbe *domain.CancellationBlockedError
	if errors.As(err, &cbe) {
		lines := make([]dto.LineShortfallDTO, 0, len(cbe.Lines))
		for _, l := range cbe.Lines {
			lines = append(lines, dto.LineShortfallDTO{
				LineID: l.LineID, ItemID: l.ItemID, Expected: l.Expected, OnHand: l.OnHand,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "CANCELLATION_BLOCKED", Message: cbe.Error(),
			Details: fiber.Map{"lines": lines},
		})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrSequenceExhausted) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SEQUENCE_EXHAUSTED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
