package allocation

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Engine orquesta las operaciones atómicas del libro de asignaciones:
// recepción de compra, ajuste, traslado, asignación a vendedor, consumo,
// restauración, salida genérica y cancelación total. Cada operación corre
// dentro de una transacción (TxRunner): bloquea las filas de saldo que toca,
// valida invariantes, muta saldos, agrega movimientos y dispara el recálculo
// de totales; cualquier error revierte todo.
type Engine struct {
	txRunner TxRunner
	items    repository.ItemRepository
	outlets  repository.OutletRepository
	vendors  repository.VendorRepository
	// lecturas fuera de transacción (historial, saldos en mano)
	movements repository.MovementRepository
	balances  repository.StockBalanceRepository
}

// NewEngine construye el motor de asignaciones.
func NewEngine(
	txRunner TxRunner,
	items repository.ItemRepository,
	outlets repository.OutletRepository,
	vendors repository.VendorRepository,
	movements repository.MovementRepository,
	balances repository.StockBalanceRepository,
) *Engine {
	return &Engine{
		txRunner:  txRunner,
		items:     items,
		outlets:   outlets,
		vendors:   vendors,
		movements: movements,
		balances:  balances,
	}
}

// OnHand saldos actuales de un ítem en todas sus ubicaciones (lectura sin lock).
func (e *Engine) OnHand(ctx context.Context, itemID string) ([]*entity.StockBalance, error) {
	return e.balances.ListByItem(ctx, itemID)
}

// occurredAt normaliza la marca de tiempo de una operación: cero significa ahora.
func occurredAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// lockBefore orden fijo de bloqueo entre ubicaciones con fila de saldo:
// Reserve antes que Outlet, sucursales por id ascendente. Evita ciclos de
// deadlock entre traslados concurrentes cruzados.
func lockBefore(a, b entity.Location) bool {
	if a.Kind != b.Kind {
		return a.Kind == entity.LocationKindReserve
	}
	return a.OutletID < b.OutletID
}
