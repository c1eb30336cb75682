package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/allocation"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// VendorHandler maneja las peticiones HTTP del ciclo de vendedor: asignación,
// consumo (venta) y restauración (devolución).
type VendorHandler struct {
	engine *allocation.Engine
}

// NewVendorHandler construye el handler.
func NewVendorHandler(engine *allocation.Engine) *VendorHandler {
	return &VendorHandler{engine: engine}
}

// Assign POST /api/vendors/:id/allocations: asigna unidades de una línea al
// vendedor desde el disponible de una sucursal.
func (h *VendorHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.AssignToVendor(c.Context(), allocation.AssignInput{
		LineID:     in.LineID,
		OutletID:   in.OutletID,
		VendorID:   c.Params("id"),
		Quantity:   in.Quantity,
		UserID:     GetUserID(c),
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "asignación registrada"})
}

// Consume POST /api/vendors/:id/consumptions: venta del vendedor, resuelta
// por FIFO entre sus asignaciones con remanente.
func (h *VendorHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.ConsumeFromVendor(c.Context(), allocation.ConsumeInput{
		VendorID:   c.Params("id"),
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		UserID:     GetUserID(c),
		Reference:  in.Reference,
		Reason:     in.Reason,
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "consumo registrado"})
}

// Restore POST /api/vendors/:id/restores: devolución de venta, resuelta por
// LIFO entre las asignaciones vendidas del vendedor.
func (h *VendorHandler) Restore(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.RestoreToVendor(c.Context(), allocation.RestoreInput{
		VendorID:   c.Params("id"),
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		UserID:     GetUserID(c),
		Reference:  in.Reference,
		Reason:     in.Reason,
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "devolución registrada"})
}
