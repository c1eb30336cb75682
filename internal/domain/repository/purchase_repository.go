package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PurchaseRepository puerto del agregado compra (compras, lotes y líneas).
type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, purchase *entity.Purchase) error
	GetPurchase(ctx context.Context, id string) (*entity.Purchase, error)
	// GetPurchaseForUpdate bloquea la fila de la compra (cancelación, recálculo).
	GetPurchaseForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	// SaveTotals persiste cargos, tasa y totales recalculados.
	SaveTotals(ctx context.Context, purchase *entity.Purchase) error
	// MarkCancelled marca la compra cancelada con motivo, actor y fecha.
	MarkCancelled(ctx context.Context, id, cancelledBy, reason string, at time.Time) error

	CreateLot(ctx context.Context, lot *entity.Lot) error
	GetLot(ctx context.Context, id string) (*entity.Lot, error)

	CreateLine(ctx context.Context, line *entity.PurchaseLine) error
	GetLine(ctx context.Context, id string) (*entity.PurchaseLine, error)
	// GetLineForUpdate bloquea la línea (reducción de cantidad).
	GetLineForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error)
	// UpdateLineQuantity fija la cantidad de la línea (solo decrece).
	UpdateLineQuantity(ctx context.Context, id string, quantity int64) error
	ListLinesByPurchase(ctx context.Context, purchaseID string) ([]*entity.PurchaseLine, error)
	ListLinesByLot(ctx context.Context, lotID string) ([]*entity.PurchaseLine, error)
}
