package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementFilter filtros para el historial de movimientos. Cursor es el token
// opaco devuelto por la página anterior ('' para empezar desde el principio);
// permite reanudar el recorrido sin repetir ni saltar filas.
type MovementFilter struct {
	ItemID string
	From   *time.Time
	To     *time.Time
	Cursor string
	Limit  int
}

// MovementRepository puerto del log de movimientos: append-only, las filas
// jamás se actualizan ni se borran.
type MovementRepository interface {
	// Append inserta un movimiento inmutable (cantidad > 0).
	Append(ctx context.Context, movement *entity.InventoryMovement) error
	// List página de movimientos en orden cronológico (occurred_at, id
	// ascendente). Devuelve el cursor para la página siguiente; '' si no hay más.
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, string, error)
}
