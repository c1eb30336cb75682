package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.OutletRepository = (*OutletRepo)(nil)

// OutletRepo lectura de puntos de venta sobre PostgreSQL.
type OutletRepo struct {
	q Querier
}

// NewOutletRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutletRepository(q Querier) *OutletRepo {
	return &OutletRepo{q: q}
}

// GetByID obtiene un punto de venta por id; nil si no existe.
func (r *OutletRepo) GetByID(ctx context.Context, id string) (*entity.Outlet, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM outlets WHERE id = $1`
	var o entity.Outlet
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Name, &o.Address, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	return &o, nil
}

// Exists indica si el punto de venta existe.
func (r *OutletRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM outlets WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("outlet exists: %w", err)
	}
	return exists, nil
}
