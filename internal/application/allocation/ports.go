package allocation

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD. El TxRunner los
// construye sobre la tx y los pasa al callback; ninguna referencia debe
// sobrevivir al callback.
type Repos struct {
	Balances    repository.StockBalanceRepository
	Allocations repository.VendorAllocationRepository
	Movements   repository.MovementRepository
	Purchases   repository.PurchaseRepository
	Sequences   repository.SequenceRepository
	Items       repository.ItemRepository
	Outlets     repository.OutletRepository
	Vendors     repository.VendorRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados
// a esa tx. Commit si fn devuelve nil; Rollback completo ante cualquier error:
// nada queda parcialmente persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
