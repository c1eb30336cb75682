package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// VendorAllocationRepository puerto para las asignaciones de líneas de compra
// a vendedores. Las listas ForUpdate bloquean las filas devueltas; los métodos
// Guarded aplican el incremento con un chequeo optimista en el WHERE y
// devuelven false si ninguna fila calificó (interferencia concurrente).
type VendorAllocationRepository interface {
	// GetForUpdate asignación de (línea, vendedor) bloqueada; nil si no existe.
	GetForUpdate(ctx context.Context, lineID, vendorID string) (*entity.VendorAllocation, error)
	Create(ctx context.Context, alloc *entity.VendorAllocation) error
	Update(ctx context.Context, alloc *entity.VendorAllocation) error

	// ListForConsume filas del vendedor para el ítem con allocated > sold,
	// ordenadas por fecha de ingreso del lote ascendente y luego id (FIFO
	// determinista en empates de fecha), bloqueadas.
	ListForConsume(ctx context.Context, vendorID, itemID string) ([]*entity.VendorAllocation, error)
	// ListForRestore filas del vendedor para el ítem con sold > 0, ordenadas
	// por fecha de ingreso descendente y luego id descendente (LIFO), bloqueadas.
	ListForRestore(ctx context.Context, vendorID, itemID string) ([]*entity.VendorAllocation, error)
	// ListByLineForUpdate todas las asignaciones de una línea, bloqueadas
	// (verificación y drenado de cancelaciones).
	ListByLineForUpdate(ctx context.Context, lineID string) ([]*entity.VendorAllocation, error)
	// SumAllocatedByLine total ya asignado de una línea entre todos los vendedores.
	SumAllocatedByLine(ctx context.Context, lineID string) (int64, error)

	// ConsumeGuarded sold += qty si allocated >= sold + qty; false si no calificó.
	ConsumeGuarded(ctx context.Context, id string, qty int64) (bool, error)
	// RestoreGuarded sold -= qty si sold >= qty; false si no calificó.
	RestoreGuarded(ctx context.Context, id string, qty int64) (bool, error)
}
