package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AssignInput entrada para asignar unidades de una línea a un vendedor.
type AssignInput struct {
	LineID     string
	OutletID   string
	VendorID   string
	Quantity   int64
	UserID     string
	OccurredAt time.Time
}

// AssignToVendor mueve unidades de una línea desde el disponible de una
// sucursal hacia la asignación de un vendedor (creada si no existe). La
// sucursal conserva la atribución (baja solo su disponible); la asignación
// sube allocated. Falla si el vendedor está inactivo o no afiliado a la
// sucursal, si la cantidad excede el disponible de la sucursal, o si excede
// el remanente sin asignar de la línea.
func (e *Engine) AssignToVendor(ctx context.Context, input AssignInput) error {
	if input.UserID == "" {
		return domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}
	vendor, err := e.vendors.GetByID(ctx, input.VendorID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return domain.ErrNotFound
	}
	if !vendor.CanReceiveFrom(input.OutletID) {
		return domain.NewValidationError("vendor_id", "vendedor inactivo o no afiliado a la sucursal")
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
		lot, err := r.Purchases.GetLot(ctx, line.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}

		assigned, err := r.Allocations.SumAllocatedByLine(ctx, line.ID)
		if err != nil {
			return err
		}
		if input.Quantity > line.Quantity-assigned {
			return domain.NewValidationError("quantity", "excede el remanente sin asignar de la línea")
		}

		outletLoc := entity.LocationOutlet(input.OutletID)
		balance, err := r.Balances.GetForUpdate(ctx, line.ItemID, outletLoc)
		if err != nil {
			return err
		}
		if err := balance.Hold(input.Quantity); err != nil {
			return err
		}
		balance.UpdatedAt = now
		if err := r.Balances.Upsert(ctx, balance); err != nil {
			return err
		}

		alloc, err := r.Allocations.GetForUpdate(ctx, line.ID, input.VendorID)
		if err != nil {
			return err
		}
		if alloc == nil {
			alloc = &entity.VendorAllocation{
				ID:             uuid.New().String(),
				PurchaseLineID: line.ID,
				VendorID:       input.VendorID,
				ItemID:         line.ItemID,
				Allocated:      input.Quantity,
				IntakeDate:     lot.IntakeDate,
				UpdatedAt:      now,
			}
			if err := r.Allocations.Create(ctx, alloc); err != nil {
				return err
			}
		} else {
			alloc.Allocated += input.Quantity
			alloc.UpdatedAt = now
			if err := r.Allocations.Update(ctx, alloc); err != nil {
				return err
			}
		}

		mov := &entity.InventoryMovement{
			TransactionID: uuid.New().String(),
			ItemID:        line.ItemID,
			Quantity:      input.Quantity,
			Kind:          entity.MovementKindVendorAssign,
			Source:        outletLoc,
			Destination:   entity.LocationVendor(input.VendorID),
			PurchaseID:    line.PurchaseID,
			LineID:        line.ID,
			CreatedBy:     input.UserID,
			OccurredAt:    now,
			CreatedAt:     now,
		}
		return r.Movements.Append(ctx, mov)
	})
}
