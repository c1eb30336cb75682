package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/allocation"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

// PurchaseHandler maneja las peticiones HTTP del ciclo de compra: recepción,
// ajuste de líneas, cargos y cancelación total.
type PurchaseHandler struct {
	engine *allocation.Engine
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(engine *allocation.Engine) *PurchaseHandler {
	return &PurchaseHandler{engine: engine}
}

func toLineInput(in dto.LineRequest) allocation.LineInput {
	splits := make([]allocation.LineSplit, 0, len(in.Splits))
	for _, s := range in.Splits {
		splits = append(splits, allocation.LineSplit{OutletID: s.OutletID, Quantity: s.Quantity})
	}
	return allocation.LineInput{
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Splits:    splits,
	}
}

// Receive POST /api/purchases: recibe una compra (compra + lote + líneas,
// acreditación de saldos y movimientos PURCHASE_IN).
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]allocation.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, toLineInput(l))
	}
	result, err := h.engine.ReceivePurchase(c.Context(), allocation.ReceivePurchaseInput{
		SupplierID: in.SupplierID,
		UserID:     GetUserID(c),
		Fees:       in.Fees,
		TaxRate:    in.TaxRate,
		Notes:      in.Notes,
		Lines:      lines,
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceivePurchaseResponse{
		PurchaseID: result.PurchaseID,
		LotID:      result.LotID,
		LotCode:    result.LotCode,
	})
}

// AddLine POST /api/lots/:id/lines: agrega una línea a un lote existente.
func (h *PurchaseHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lineID, err := h.engine.AddLine(c.Context(), allocation.AddLineInput{
		LotID:      c.Params("id"),
		UserID:     GetUserID(c),
		Line:       toLineInput(in.Line),
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"line_id": lineID})
}

// ReduceLine POST /api/lines/:id/reduce: cancelación parcial de una línea.
func (h *PurchaseHandler) ReduceLine(c *fiber.Ctx) error {
	var in dto.ReduceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.ReduceLine(c.Context(), allocation.ReduceLineInput{
		LineID:     c.Params("id"),
		Quantity:   in.Quantity,
		UserID:     GetUserID(c),
		Reason:     in.Reason,
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "línea reducida"})
}

// UpdateFees PUT /api/purchases/:id/fees: fija los cargos y recalcula totales.
func (h *PurchaseHandler) UpdateFees(c *fiber.Ctx) error {
	var in dto.UpdateFeesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.UpdateFees(c.Context(), allocation.UpdateFeesInput{
		PurchaseID: c.Params("id"),
		Fees:       in.Fees,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cargos actualizados"})
}

// Cancel POST /api/purchases/:id/cancel: cancelación total de la compra.
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.CancelPurchase(c.Context(), allocation.CancelPurchaseInput{
		PurchaseID: c.Params("id"),
		UserID:     GetUserID(c),
		Reason:     in.Reason,
		OccurredAt: in.OccurredAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "compra cancelada"})
}
