package entity

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

// StockBalance saldo de un ítem en una ubicación con fila propia (Reserve u Outlet).
// Allocated: unidades atribuidas a la ubicación (incluye las entregadas a
// vendedores desde una sucursal). Available: unidades físicamente en estante,
// aún no comprometidas. Invariante: 0 <= Available <= Allocated.
// Las filas se crean perezosamente en el primer crédito y nunca se borran.
type StockBalance struct {
	ItemID    string
	Location  Location // solo RESERVE u OUTLET
	Allocated int64
	Available int64
	UpdatedAt time.Time
}

// NewStockBalance fila en cero para (ítem, ubicación); usada cuando aún no existe en BD.
func NewStockBalance(itemID string, loc Location) *StockBalance {
	return &StockBalance{ItemID: itemID, Location: loc}
}

// Credit acredita unidades: sube Allocated y Available.
func (b *StockBalance) Credit(qty int64) {
	b.Allocated += qty
	b.Available += qty
}

// Debit retira unidades físicamente (traslado, cancelación, salida genérica):
// baja Allocated y Available juntos. Falla con InsufficientStockError si no
// hay disponibilidad suficiente.
func (b *StockBalance) Debit(qty int64) error {
	if b.Available < qty {
		return &domain.InsufficientStockError{
			ItemID:    b.ItemID,
			Location:  b.Location.String(),
			Requested: qty,
			Available: b.Available,
		}
	}
	b.Allocated -= qty
	b.Available -= qty
	return nil
}

// Hold compromete unidades sin moverlas de atribución (asignación a vendedor):
// baja solo Available, dejando Allocated como rastro de a qué sucursal
// pertenecen las unidades en manos del vendedor.
func (b *StockBalance) Hold(qty int64) error {
	if b.Available < qty {
		return &domain.InsufficientStockError{
			ItemID:    b.ItemID,
			Location:  b.Location.String(),
			Requested: qty,
			Available: b.Available,
		}
	}
	b.Available -= qty
	return nil
}
