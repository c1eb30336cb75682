package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/internal/application/allocation"
)

// Ensure TxRunner implements allocation.TxRunner.
var _ allocation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks del motor dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repositorios atados a la tx
// y hace Commit o Rollback. Los locks de fila (SELECT FOR UPDATE) adquiridos
// por los repos viven hasta el cierre de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(repos allocation.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := allocation.Repos{
		Balances:    NewStockBalanceRepository(tx),
		Allocations: NewVendorAllocationRepository(tx),
		Movements:   NewMovementRepository(tx),
		Purchases:   NewPurchaseRepository(tx),
		Sequences:   NewSequenceRepository(tx),
		Items:       NewItemRepository(tx),
		Outlets:     NewOutletRepository(tx),
		Vendors:     NewVendorRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
