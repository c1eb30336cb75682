package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AddLineInput entrada para agregar una línea a un lote existente. Una
// corrección al alza de cantidad se registra así, como línea nueva; las
// líneas existentes solo decrecen.
type AddLineInput struct {
	LotID      string
	UserID     string
	Line       LineInput
	OccurredAt time.Time
}

// AddLine agrega una línea a un lote existente con la misma semántica de la
// recepción (acreditación, movimientos PURCHASE_IN, recálculo de totales).
func (e *Engine) AddLine(ctx context.Context, input AddLineInput) (string, error) {
	if input.UserID == "" {
		return "", domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if err := e.validateLine(ctx, 0, input.Line); err != nil {
		return "", err
	}

	now := occurredAt(input.OccurredAt)
	var lineID string

	err := e.txRunner.Run(ctx, func(r Repos) error {
		lot, err := r.Purchases.GetLot(ctx, input.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		purchase, err := r.Purchases.GetPurchaseForUpdate(ctx, lot.PurchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Cancelled() {
			return domain.NewValidationError("lot_id", "la compra ya fue cancelada")
		}

		line := &entity.PurchaseLine{
			ID:         uuid.New().String(),
			LotID:      lot.ID,
			PurchaseID: purchase.ID,
			ItemID:     input.Line.ItemID,
			Quantity:   input.Line.Quantity,
			UnitPrice:  input.Line.UnitPrice,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Purchases.CreateLine(ctx, line); err != nil {
			return err
		}
		txID := uuid.New().String()
		if err := creditLine(ctx, r, txID, line, input.Line.Splits, input.UserID, now); err != nil {
			return err
		}
		lineID = line.ID
		return recalcAndSave(ctx, r, purchase)
	})
	if err != nil {
		return "", err
	}
	return lineID, nil
}

// ReduceLineInput entrada para la cancelación parcial de una línea
// (CANCEL_PURCHASE): qty unidades vuelven al proveedor desde la reserva.
type ReduceLineInput struct {
	LineID     string
	Quantity   int64
	UserID     string
	Reason     string
	OccurredAt time.Time
}

// ReduceLine retira unidades de una línea existente devolviéndolas al
// proveedor. Solo puede retirarse lo que la reserva aún tiene disponible:
// unidades ya movidas a sucursal o vendedor no se recuperan por esta vía.
// Baja la cantidad de la línea, debita la reserva, registra un movimiento
// Reserve→External y recalcula totales.
func (e *Engine) ReduceLine(ctx context.Context, input ReduceLineInput) error {
	if input.UserID == "" {
		return domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}

	now := occurredAt(input.OccurredAt)

	return e.txRunner.Run(ctx, func(r Repos) error {
		line, err := r.Purchases.GetLineForUpdate(ctx, input.LineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		purchase, err := r.Purchases.GetPurchaseForUpdate(ctx, line.PurchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Cancelled() {
			return domain.NewValidationError("line_id", "la compra ya fue cancelada")
		}
		if input.Quantity > line.Quantity {
			return domain.NewValidationError("quantity", "excede la cantidad registrada de la línea")
		}

		reserve, err := r.Balances.GetForUpdate(ctx, line.ItemID, entity.LocationReserve())
		if err != nil {
			return err
		}
		if err := reserve.Debit(input.Quantity); err != nil {
			return err
		}
		reserve.UpdatedAt = now
		if err := r.Balances.Upsert(ctx, reserve); err != nil {
			return err
		}
		if err := r.Purchases.UpdateLineQuantity(ctx, line.ID, line.Quantity-input.Quantity); err != nil {
			return err
		}
		line.Quantity -= input.Quantity

		unitCost := line.UnitPrice
		mov := &entity.InventoryMovement{
			TransactionID: uuid.New().String(),
			ItemID:        line.ItemID,
			Quantity:      input.Quantity,
			Kind:          entity.MovementKindCancelPurchase,
			Source:        entity.LocationReserve(),
			Destination:   entity.LocationExternal(),
			UnitCost:      &unitCost,
			PurchaseID:    line.PurchaseID,
			LineID:        line.ID,
			Reason:        input.Reason,
			CreatedBy:     input.UserID,
			OccurredAt:    now,
			CreatedAt:     now,
		}
		if err := r.Movements.Append(ctx, mov); err != nil {
			return err
		}
		return recalcAndSave(ctx, r, purchase)
	})
}

// UpdateFeesInput entrada para cambiar los cargos a nivel compra.
type UpdateFeesInput struct {
	PurchaseID string
	Fees       decimal.Decimal
	UserID     string
}

// UpdateFees fija los cargos de la compra y dispara el recálculo de totales.
func (e *Engine) UpdateFees(ctx context.Context, input UpdateFeesInput) error {
	if input.UserID == "" {
		return domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.Fees.LessThan(decimal.Zero) {
		return domain.NewValidationError("fees", "los cargos no pueden ser negativos")
	}
	return e.txRunner.Run(ctx, func(r Repos) error {
		purchase, err := r.Purchases.GetPurchaseForUpdate(ctx, input.PurchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Cancelled() {
			return domain.NewValidationError("purchase_id", "la compra ya fue cancelada")
		}
		purchase.Fees = input.Fees
		return recalcAndSave(ctx, r, purchase)
	})
}
