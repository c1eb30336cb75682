package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockBalanceRepository puerto para consultar/actualizar saldos por (ítem, ubicación).
// Las lecturas que alimentan decisiones dentro de una transacción deben usar
// las variantes ForUpdate (SELECT FOR UPDATE) para evitar carreras
// leer-luego-escribir; el lock se sostiene hasta el Commit/Rollback.
type StockBalanceRepository interface {
	// Get devuelve el saldo actual; fila en cero si aún no existe.
	Get(ctx context.Context, itemID string, loc entity.Location) (*entity.StockBalance, error)
	// GetForUpdate igual que Get pero bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID string, loc entity.Location) (*entity.StockBalance, error)
	// ListByItem saldos de un ítem en todas sus ubicaciones, reserva primero y
	// sucursales en orden ascendente de id (orden fijo de bloqueo).
	ListByItem(ctx context.Context, itemID string) ([]*entity.StockBalance, error)
	// ListByItemForUpdate igual que ListByItem pero bloqueando todas las filas.
	ListByItemForUpdate(ctx context.Context, itemID string) ([]*entity.StockBalance, error)
	// Upsert inserta o actualiza el saldo (creación perezosa en primer crédito).
	Upsert(ctx context.Context, balance *entity.StockBalance) error
}
