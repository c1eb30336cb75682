package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	domaininventory "github.com/jhoicas/Almacen-api/internal/domain/inventory"
)

// DepleteInput entrada para la salida genérica sin destino explícito.
type DepleteInput struct {
	ItemID     string
	Quantity   int64
	UserID     string
	Reference  string
	Reason     string
	OccurredAt time.Time
}

// Deplete decrementa qty unidades del ítem sin origen explícito: primero la
// reserva, luego las sucursales en orden ascendente de id, tomando de cada una
// lo que ofrezca hasta satisfacer la cantidad. Las unidades en manos de
// vendedores no participan: esas se consumen solo por la operación explícita
// de venta del vendedor. Todo-o-nada: si el total global no alcanza, falla con
// InsufficientStock y ningún saldo cambia. Un movimiento ADJUSTMENT
// bucket→External por bucket drenado.
func (e *Engine) Deplete(ctx context.Context, input DepleteInput) error {
	if input.UserID == "" {
		return domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}

	now := occurredAt(input.OccurredAt)

	return e.txRunner.Run(ctx, func(r Repos) error {
		// ListByItemForUpdate devuelve reserva primero y sucursales ascendentes:
		// el mismo orden fijo de bloqueo y de precedencia de consumo.
		balances, err := r.Balances.ListByItemForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}
		buckets := make([]domaininventory.Bucket, 0, len(balances))
		byLoc := make(map[string]*entity.StockBalance, len(balances))
		for _, b := range balances {
			key := b.Location.String()
			buckets = append(buckets, domaininventory.Bucket{ID: key, Available: b.Available})
			byLoc[key] = b
		}
		takes, shortfall := domaininventory.Plan(buckets, input.Quantity)
		if shortfall > 0 {
			return &domain.InsufficientStockError{
				ItemID:    input.ItemID,
				Location:  "total",
				Requested: input.Quantity,
				Available: input.Quantity - shortfall,
			}
		}

		txID := uuid.New().String()
		for _, take := range takes {
			balance := byLoc[take.ID]
			if err := balance.Debit(take.Qty); err != nil {
				return err
			}
			balance.UpdatedAt = now
			if err := r.Balances.Upsert(ctx, balance); err != nil {
				return err
			}
			mov := &entity.InventoryMovement{
				TransactionID: txID,
				ItemID:        input.ItemID,
				Quantity:      take.Qty,
				Kind:          entity.MovementKindAdjustment,
				Source:        balance.Location,
				Destination:   entity.LocationExternal(),
				Reference:     input.Reference,
				Reason:        input.Reason,
				CreatedBy:     input.UserID,
				OccurredAt:    now,
				CreatedAt:     now,
			}
			if err := r.Movements.Append(ctx, mov); err != nil {
				return err
			}
		}
		return nil
	})
}
