package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Totals totales calculados de una compra.
type Totals struct {
	Subtotal    decimal.Decimal // Σ cantidad × peso unitario × precio unitario
	TotalExTax  decimal.Decimal // subtotal + cargos
	TotalIncTax decimal.Decimal // con impuesto aplicado sobre TotalExTax
}

// RecalcTotals recalcula los totales de una compra a partir de sus líneas.
// Función pura e idempotente: mismo input, mismo output; el motor la invoca
// tras cada cambio de línea o de cargos y es seguro reintentarla.
// Líneas cuyo ítem no esté en el mapa aportan cero (el motor valida la
// existencia de ítems antes; aquí no se falla para mantener la pureza).
func RecalcTotals(lines []*entity.PurchaseLine, items map[string]*entity.Item, fees, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		item, ok := items[line.ItemID]
		if !ok {
			continue
		}
		qty := decimal.NewFromInt(line.Quantity)
		subtotal = subtotal.Add(qty.Mul(item.UnitWeight).Mul(line.UnitPrice))
	}
	exTax := subtotal.Add(fees)
	tax := exTax.Mul(taxRate)
	return Totals{
		Subtotal:    subtotal,
		TotalExTax:  exTax,
		TotalIncTax: exTax.Add(tax),
	}
}
