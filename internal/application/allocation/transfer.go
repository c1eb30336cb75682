package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransferInput entrada para un traslado entre reserva y sucursales.
type TransferInput struct {
	ItemID      string
	Source      entity.Location
	Destination entity.Location
	Quantity    int64
	UserID      string
	Reference   string
	OccurredAt  time.Time
}

// Transfer mueve unidades entre dos de {Reserve, Outlet}: debita el origen
// (InsufficientStock si no alcanza), acredita el destino y registra un único
// movimiento TRANSFER. Los locks se adquieren en orden fijo (reserva primero,
// sucursales por id ascendente) sin importar la dirección del traslado.
func (e *Engine) Transfer(ctx context.Context, input TransferInput) error {
	if input.UserID == "" {
		return domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}
	if !input.Source.HasBalanceRow() || !input.Source.Valid() {
		return domain.NewValidationError("source", "el origen debe ser reserva o sucursal")
	}
	if !input.Destination.HasBalanceRow() || !input.Destination.Valid() {
		return domain.NewValidationError("destination", "el destino debe ser reserva o sucursal")
	}
	if input.Source.Equal(input.Destination) {
		return domain.NewValidationError("destination", "origen y destino no pueden coincidir")
	}
	for _, loc := range []entity.Location{input.Source, input.Destination} {
		if loc.Kind != entity.LocationKindOutlet {
			continue
		}
		exists, err := e.outlets.Exists(ctx, loc.OutletID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewValidationError("outlet_id", "sucursal desconocida: "+loc.OutletID)
		}
	}

	item, err := e.items.GetByID(ctx, input.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.NewValidationError("item_id", "ítem desconocido: "+input.ItemID)
	}

	now := occurredAt(input.OccurredAt)

	return e.txRunner.Run(ctx, func(r Repos) error {
		// Bloquear en orden fijo para evitar ciclos con traslados cruzados.
		first, second := input.Source, input.Destination
		if lockBefore(second, first) {
			first, second = second, first
		}
		firstBal, err := r.Balances.GetForUpdate(ctx, input.ItemID, first)
		if err != nil {
			return err
		}
		secondBal, err := r.Balances.GetForUpdate(ctx, input.ItemID, second)
		if err != nil {
			return err
		}
		src, dst := firstBal, secondBal
		if !first.Equal(input.Source) {
			src, dst = secondBal, firstBal
		}

		if err := src.Debit(input.Quantity); err != nil {
			return err
		}
		dst.Credit(input.Quantity)
		src.UpdatedAt = now
		dst.UpdatedAt = now
		if err := r.Balances.Upsert(ctx, src); err != nil {
			return err
		}
		if err := r.Balances.Upsert(ctx, dst); err != nil {
			return err
		}

		mov := &entity.InventoryMovement{
			TransactionID: uuid.New().String(),
			ItemID:        input.ItemID,
			Quantity:      input.Quantity,
			Kind:          entity.MovementKindTransfer,
			Source:        input.Source,
			Destination:   input.Destination,
			Reference:     input.Reference,
			CreatedBy:     input.UserID,
			OccurredAt:    now,
			CreatedAt:     now,
		}
		return r.Movements.Append(ctx, mov)
	})
}
