package allocation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CancelPurchaseInput entrada para la cancelación total de una compra.
type CancelPurchaseInput struct {
	PurchaseID string
	UserID     string
	Reason     string
	OccurredAt time.Time
}

// CancelPurchase cancela una compra completa. Primero verifica, línea por
// línea, que lo que queda en mano (reserva + sucursales + asignaciones de
// vendedor sin vender) iguale exactamente la cantidad registrada: si alguna
// línea falla, rechaza todo con CancellationBlocked listando cada línea
// ofensora con esperado vs en mano. Si todas pasan, drena cada bucket no
// vacío hacia External (un movimiento por par línea/bucket) y marca la compra
// cancelada con motivo, actor y fecha.
//
// Cuando una compra tiene varias líneas del mismo ítem, los saldos por
// (ítem, ubicación) se prorratean entre las líneas en orden de creación; con
// una línea por ítem (el caso normal) la verificación es exacta.
func (e *Engine) CancelPurchase(ctx context.Context, input CancelPurchaseInput) error {
	if input.UserID == "" {
		return domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.Reason == "" {
		return domain.NewValidationError("reason", "motivo de cancelación requerido")
	}

	now := occurredAt(input.OccurredAt)

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

		lines, err := r.Purchases.ListLinesByPurchase(ctx, input.PurchaseID)
		if err != nil {
			return err
		}

		// Agrupar líneas por ítem y bloquear todo en orden fijo: ítems
		// ascendentes; dentro de cada ítem el repositorio ya devuelve reserva
		// primero y sucursales ascendentes.
		linesByItem := make(map[string][]*entity.PurchaseLine)
		for _, line := range lines {
			linesByItem[line.ItemID] = append(linesByItem[line.ItemID], line)
		}
		itemIDs := make([]string, 0, len(linesByItem))
		for itemID := range linesByItem {
			itemIDs = append(itemIDs, itemID)
		}
		sort.Strings(itemIDs)

		balancesByItem := make(map[string][]*entity.StockBalance, len(itemIDs))
		allocsByLine := make(map[string][]*entity.VendorAllocation, len(lines))
		for _, itemID := range itemIDs {
			balances, err := r.Balances.ListByItemForUpdate(ctx, itemID)
			if err != nil {
				return err
			}
			balancesByItem[itemID] = balances
			for _, line := range linesByItem[itemID] {
				allocs, err := r.Allocations.ListByLineForUpdate(ctx, line.ID)
				if err != nil {
					return err
				}
				allocsByLine[line.ID] = allocs
			}
		}

		vendorRemaining := func(lineID string) int64 {
			var total int64
			for _, a := range allocsByLine[lineID] {
				total += a.Remaining()
			}
			return total
		}

		// Verificación: en mano por línea debe igualar la cantidad registrada.
		var offending []domain.LineShortfall
		for _, itemID := range itemIDs {
			var balAvail int64
			for _, b := range balancesByItem[itemID] {
				balAvail += b.Available
			}
			remaining := balAvail
			for _, line := range linesByItem[itemID] {
				share := line.Quantity - vendorRemaining(line.ID)
				if share > remaining {
					share = remaining
				}
				if share < 0 {
					share = 0
				}
				onHand := vendorRemaining(line.ID) + share
				remaining -= share
				if onHand != line.Quantity {
					offending = append(offending, domain.LineShortfall{
						LineID:   line.ID,
						ItemID:   itemID,
						Expected: line.Quantity,
						OnHand:   onHand,
					})
				}
			}
		}
		if len(offending) > 0 {
			return &domain.CancellationBlockedError{PurchaseID: input.PurchaseID, Lines: offending}
		}

		// Drenado: por línea, primero los saldos (reserva, sucursales) y luego
		// las asignaciones de vendedor sin vender. Un movimiento por par
		// línea/bucket, todos CANCEL_PURCHASE hacia External.
		txID := uuid.New().String()
		for _, itemID := range itemIDs {
			balances := balancesByItem[itemID]
			for _, line := range linesByItem[itemID] {
				unitCost := line.UnitPrice
				need := line.Quantity - vendorRemaining(line.ID)
				for _, balance := range balances {
					if need == 0 {
						break
					}
					take := balance.Available
					if take > need {
						take = need
					}
					if take == 0 {
						continue
					}
					if err := balance.Debit(take); err != nil {
						return err
					}
					balance.UpdatedAt = now
					if err := r.Balances.Upsert(ctx, balance); err != nil {
						return err
					}
					mov := &entity.InventoryMovement{
						TransactionID: txID,
						ItemID:        itemID,
						Quantity:      take,
						Kind:          entity.MovementKindCancelPurchase,
						Source:        balance.Location,
						Destination:   entity.LocationExternal(),
						UnitCost:      &unitCost,
						PurchaseID:    input.PurchaseID,
						LineID:        line.ID,
						Reason:        input.Reason,
						CreatedBy:     input.UserID,
						OccurredAt:    now,
						CreatedAt:     now,
					}
					if err := r.Movements.Append(ctx, mov); err != nil {
						return err
					}
					need -= take
				}

				for _, alloc := range allocsByLine[line.ID] {
					remaining := alloc.Remaining()
					if remaining == 0 {
						continue
					}
					alloc.Allocated -= remaining
					alloc.UpdatedAt = now
					if err := r.Allocations.Update(ctx, alloc); err != nil {
						return err
					}
					mov := &entity.InventoryMovement{
						TransactionID: txID,
						ItemID:        itemID,
						Quantity:      remaining,
						Kind:          entity.MovementKindCancelPurchase,
						Source:        entity.LocationVendor(alloc.VendorID),
						Destination:   entity.LocationExternal(),
						UnitCost:      &unitCost,
						PurchaseID:    input.PurchaseID,
						LineID:        line.ID,
						Reason:        input.Reason,
						CreatedBy:     input.UserID,
						OccurredAt:    now,
						CreatedAt:     now,
					}
					if err := r.Movements.Append(ctx, mov); err != nil {
						return err
					}
				}
			}
		}

		return r.Purchases.MarkCancelled(ctx, input.PurchaseID, input.UserID, input.Reason, now)
	})
}
