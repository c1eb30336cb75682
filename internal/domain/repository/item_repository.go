package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ItemRepository puerto de solo lectura hacia el catálogo (colaborador
// externo). Valida existencia y atributos de ítems durante recepción y costeo.
type ItemRepository interface {
	// GetByID devuelve el ítem o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByIDs ítems indexados por id; los ids desconocidos simplemente no aparecen.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Item, error)
}
