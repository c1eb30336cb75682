package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/allocation"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP de saldos: traslados, salidas
// genéricas, consulta de stock en mano e historial de movimientos.
type StockHandler struct {
	engine *allocation.Engine
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *allocation.Engine) *StockHandler {
	return &StockHandler{engine: engine}
}

// parseLocation convierte la ubicación del request a la variante de dominio.
// Solo RESERVE y OUTLET son direccionables por la API de traslados.
func parseLocation(in dto.LocationRequest) (entity.Location, bool) {
	switch entity.LocationKind(in.Kind) {
	case entity.LocationKindReserve:
		return entity.LocationReserve(), true
	case entity.LocationKindOutlet:
		if in.OutletID == "" {
			return entity.Location{}, false
		}
		return entity.LocationOutlet(in.OutletID), true
	}
	return entity.Location{}, false
}

// Transfer POST /api/stock/transfers: mueve unidades entre reserva y sucursales.
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	source, ok := parseLocation(in.Source)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "origen inválido: se espera RESERVE u OUTLET con outlet_id"})
	}
	destination, ok := parseLocation(in.Destination)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "destino inválido: se espera RESERVE u OUTLET con outlet_id"})
	}
	err := h.engine.Transfer(c.Context(), allocation.TransferInput{
		ItemID:      in.ItemID,
		Source:      source,
		Destination: destination,
		Quantity:    in.Quantity,
		UserID:      GetUserID(c),
		Reference:   in.Reference,
		OccurredAt:  in.OccurredAt,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traslado registrado"})
}

// Deplete POST /api/stock/depletions: salida genérica sin origen explícito
// (reserva primero, luego sucursales).
func (h *StockHandler) Deplete(c *fiber.Ctx) error {
	var in dto.DepleteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.Deplete(c.Context(), allocation.DepleteInput{
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
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "salida registrada"})
}

// OnHand GET /api/stock/items/:id/on-hand: saldos del ítem por ubicación.
func (h *StockHandler) OnHand(c *fiber.Ctx) error {
	balances, err := h.engine.OnHand(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockBalanceDTO, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.StockBalanceDTO{
			Location:  b.Location.String(),
			Allocated: b.Allocated,
			Available: b.Available,
		})
	}
	return c.JSON(fiber.Map{"item_id": c.Params("id"), "balances": out})
}

// Movements GET /api/stock/movements: una página del historial en orden
// cronológico. Filtros: item_id, from, to (RFC3339), cursor, limit.
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ItemID: c.Query("item_id"),
		Cursor: c.Query("cursor"),
		Limit:  c.QueryInt("limit", 100),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido: se espera RFC3339"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido: se espera RFC3339"})
		}
		filter.To = &t
	}

	it := h.engine.History(filter)
	movements := make([]dto.MovementDTO, 0, filter.Limit)
	for len(movements) < filter.Limit {
		mov, err := it.Next(c.Context())
		if err != nil {
			return writeDomainError(c, err)
		}
		if mov == nil {
			break
		}
		movements = append(movements, dto.MovementDTO{
			ID:            mov.ID,
			TransactionID: mov.TransactionID,
			ItemID:        mov.ItemID,
			Quantity:      mov.Quantity,
			Kind:          mov.Kind,
			Source:        mov.Source.String(),
			Destination:   mov.Destination.String(),
			UnitCost:      mov.UnitCost,
			PurchaseID:    mov.PurchaseID,
			LineID:        mov.LineID,
			Reference:     mov.Reference,
			Reason:        mov.Reason,
			CreatedBy:     mov.CreatedBy,
			OccurredAt:    mov.OccurredAt,
		})
	}
	return c.JSON(dto.MovementPageResponse{Movements: movements, NextCursor: it.Cursor()})
}
