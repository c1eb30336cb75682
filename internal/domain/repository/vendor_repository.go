package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// VendorRepository puerto de solo lectura para vendedores: estado y afiliación
// a sucursal, verificados antes de asignar inventario.
type VendorRepository interface {
	// GetByID devuelve el vendedor o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
}
