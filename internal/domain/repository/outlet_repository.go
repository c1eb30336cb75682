package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// OutletRepository puerto de solo lectura hacia el directorio de sucursales
// (colaborador externo). Valida destinos de traslados y asignaciones.
type OutletRepository interface {
	// GetByID devuelve la sucursal o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Outlet, error)
	Exists(ctx context.Context, id string) (bool, error)
}
