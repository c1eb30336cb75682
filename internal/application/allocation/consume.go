package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	domaininventory "github.com/jhoicas/Almacen-api/internal/domain/inventory"
)

// ConsumeInput entrada para consumir unidades de un vendedor (venta) sin
// nombrar línea origen: el motor resuelve las asignaciones por FIFO.
type ConsumeInput struct {
	VendorID   string
	ItemID     string
	Quantity   int64
	UserID     string
	Reference  string
	Reason     string
	OccurredAt time.Time
}

// ConsumeFromVendor consume qty unidades del ítem entre las asignaciones del
// vendedor con remanente, en orden FIFO (fecha de ingreso del lote ascendente,
// id como desempate determinista). Cada fila tocada sube sold bajo un chequeo
// optimista en BD (allocated >= sold + toma); si el chequeo falla por
// interferencia concurrente, devuelve ConflictError y el caller reintenta la
// operación completa. Si el total disponible no alcanza, InsufficientStock con
// el faltante y nada queda persistido.
func (e *Engine) ConsumeFromVendor(ctx context.Context, input ConsumeInput) error {
	if input.UserID == "" {
		return domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}

	now := occurredAt(input.OccurredAt)

	return e.txRunner.Run(ctx, func(r Repos) error {
		allocs, err := r.Allocations.ListForConsume(ctx, input.VendorID, input.ItemID)
		if err != nil {
			return err
		}
		buckets := make([]domaininventory.Bucket, 0, len(allocs))
		byID := make(map[string]*entity.VendorAllocation, len(allocs))
		for _, a := range allocs {
			buckets = append(buckets, domaininventory.Bucket{ID: a.ID, Available: a.Remaining()})
			byID[a.ID] = a
		}
		takes, shortfall := domaininventory.Plan(buckets, input.Quantity)
		if shortfall > 0 {
			return &domain.InsufficientStockError{
				ItemID:    input.ItemID,
				Location:  entity.LocationVendor(input.VendorID).String(),
				Requested: input.Quantity,
				Available: input.Quantity - shortfall,
			}
		}

		txID := uuid.New().String()
		for _, take := range takes {
			ok, err := r.Allocations.ConsumeGuarded(ctx, take.ID, take.Qty)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.ConflictError{Resource: "vendor_allocation", ID: take.ID}
			}
			alloc := byID[take.ID]
			mov := &entity.InventoryMovement{
				TransactionID: txID,
				ItemID:        input.ItemID,
				Quantity:      take.Qty,
				Kind:          entity.MovementKindSaleOut,
				Source:        entity.LocationVendor(input.VendorID),
				Destination:   entity.LocationExternal(),
				LineID:        alloc.PurchaseLineID,
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

// RestoreInput entrada para restaurar unidades vendidas a un vendedor
// (devolución de venta).
type RestoreInput struct {
	VendorID   string
	ItemID     string
	Quantity   int64
	UserID     string
	Reference  string
	Reason     string
	OccurredAt time.Time
}

// RestoreToVendor reversa de ConsumeFromVendor: baja sold prefiriendo las
// filas consumidas más recientemente (LIFO: fecha de ingreso descendente, id
// descendente). Falla si qty excede el total vendido vigente entre las filas
// del vendedor para el ítem.
func (e *Engine) RestoreToVendor(ctx context.Context, input RestoreInput) error {
	if input.UserID == "" {
		return domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.Quantity <= 0 {
		return domain.NewValidationError("quantity", "la cantidad debe ser positiva")
	}

	now := occurredAt(input.OccurredAt)

	return e.txRunner.Run(ctx, func(r Repos) error {
		allocs, err := r.Allocations.ListForRestore(ctx, input.VendorID, input.ItemID)
		if err != nil {
			return err
		}
		buckets := make([]domaininventory.Bucket, 0, len(allocs))
		byID := make(map[string]*entity.VendorAllocation, len(allocs))
		for _, a := range allocs {
			buckets = append(buckets, domaininventory.Bucket{ID: a.ID, Available: a.Sold})
			byID[a.ID] = a
		}
		gives, shortfall := domaininventory.Plan(buckets, input.Quantity)
		if shortfall > 0 {
			return &domain.InsufficientStockError{
				ItemID:    input.ItemID,
				Location:  entity.LocationVendor(input.VendorID).String(),
				Requested: input.Quantity,
				Available: input.Quantity - shortfall,
			}
		}

		txID := uuid.New().String()
		for _, give := range gives {
			ok, err := r.Allocations.RestoreGuarded(ctx, give.ID, give.Qty)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.ConflictError{Resource: "vendor_allocation", ID: give.ID}
			}
			alloc := byID[give.ID]
			mov := &entity.InventoryMovement{
				TransactionID: txID,
				ItemID:        input.ItemID,
				Quantity:      give.Qty,
				Kind:          entity.MovementKindAdjustment,
				Source:        entity.LocationExternal(),
				Destination:   entity.LocationVendor(input.VendorID),
				LineID:        alloc.PurchaseLineID,
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
