package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra.
const (
	PurchaseStatusActive    = "ACTIVE"
	PurchaseStatusCancelled = "CANCELLED"
)

// Purchase agrega los lotes de una interacción con un proveedor. Los totales
// son calculados (RecalcTotals) y se recalculan tras cada cambio de línea o
// de cargos; nunca se editan a mano.
type Purchase struct {
	ID         string
	SupplierID string
	Status     string
	Fees       decimal.Decimal // cargos a nivel compra (flete, manejo)
	TaxRate    decimal.Decimal // tasa aplicada sobre el total sin impuesto
	Subtotal   decimal.Decimal // Σ cantidad × peso unitario × precio unitario
	TotalExTax decimal.Decimal // subtotal + cargos
	TotalIncTax decimal.Decimal
	CancelledAt *time.Time
	CancelledBy string
	CancelReason string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Cancelled indica si la compra fue cancelada en su totalidad.
func (p *Purchase) Cancelled() bool {
	return p.Status == PurchaseStatusCancelled
}
