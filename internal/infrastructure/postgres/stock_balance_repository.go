package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx). Una fila por (ítem, ubicación); la variante de
// ubicación se persiste como (location_kind, outlet_id) con outlet_id '' para
// la reserva, nunca NULL.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

func scanBalance(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	var kind, outletID string
	err := row.Scan(&b.ItemID, &kind, &outletID, &b.Allocated, &b.Available, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if entity.LocationKind(kind) == entity.LocationKindReserve {
		b.Location = entity.LocationReserve()
	} else {
		b.Location = entity.LocationOutlet(outletID)
	}
	return &b, nil
}

// Get saldo actual de un ítem en una ubicación; fila en cero si no existe.
func (r *StockBalanceRepo) Get(ctx context.Context, itemID string, loc entity.Location) (*entity.StockBalance, error) {
	query := `
		SELECT item_id, location_kind, outlet_id, allocated_qty, available_qty, updated_at
		FROM stock_balances
		WHERE item_id = $1 AND location_kind = $2 AND outlet_id = $3`
	b, err := scanBalance(r.q.QueryRow(ctx, query, itemID, string(loc.Kind), loc.OutletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStockBalance(itemID, loc), nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return b, nil
}

// GetForUpdate igual que Get pero bloqueando la fila (SELECT FOR UPDATE).
// Si la fila aún no existe devuelve una en cero: el primer Upsert la crea
// dentro de la misma transacción.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, itemID string, loc entity.Location) (*entity.StockBalance, error) {
	query := `
		SELECT item_id, location_kind, outlet_id, allocated_qty, available_qty, updated_at
		FROM stock_balances
		WHERE item_id = $1 AND location_kind = $2 AND outlet_id = $3
		FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(ctx, query, itemID, string(loc.Kind), loc.OutletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStockBalance(itemID, loc), nil
		}
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return b, nil
}

// ListByItem saldos del ítem: reserva primero, sucursales en id ascendente.
func (r *StockBalanceRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.StockBalance, error) {
	return r.listByItem(ctx, itemID, false)
}

// ListByItemForUpdate igual que ListByItem bloqueando todas las filas, en el
// mismo orden fijo que usa el motor para adquirir locks.
func (r *StockBalanceRepo) ListByItemForUpdate(ctx context.Context, itemID string) ([]*entity.StockBalance, error) {
	return r.listByItem(ctx, itemID, true)
}

func (r *StockBalanceRepo) listByItem(ctx context.Context, itemID string, forUpdate bool) ([]*entity.StockBalance, error) {
	query := `
		SELECT item_id, location_kind, outlet_id, allocated_qty, available_qty, updated_at
		FROM stock_balances
		WHERE item_id = $1
		ORDER BY CASE location_kind WHEN 'RESERVE' THEN 0 ELSE 1 END, outlet_id`
	if forUpdate {
		query += " FOR UPDATE"
	}
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza el saldo (por ítem y ubicación).
func (r *StockBalanceRepo) Upsert(ctx context.Context, balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (item_id, location_kind, outlet_id, allocated_qty, available_qty, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (item_id, location_kind, outlet_id)
		DO UPDATE SET allocated_qty = EXCLUDED.allocated_qty, available_qty = EXCLUDED.available_qty, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		balance.ItemID, string(balance.Location.Kind), balance.Location.OutletID,
		balance.Allocated, balance.Available,
	)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}
