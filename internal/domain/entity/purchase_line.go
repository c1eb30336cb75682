package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLine una línea dentro de un lote: ítem, cantidad recibida y precio
// unitario. La cantidad solo decrece después de creada (cancelación parcial);
// una corrección al alza se registra como línea nueva, nunca incrementando una
// existente.
type PurchaseLine struct {
	ID         string
	LotID      string
	PurchaseID string
	ItemID     string
	Quantity   int64
	UnitPrice  decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
