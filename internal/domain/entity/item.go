package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa una referencia de inventario (SKU) del catálogo externo.
// El catálogo es dueño del ciclo de vida; aquí solo se leen los atributos
// necesarios para recepción y costeo. UnitWeight es obligatorio (> 0) para
// calcular totales de compra (cantidad × peso × precio unitario).
type Item struct {
	ID         string
	SKU        string
	Name       string
	UnitWeight decimal.Decimal // peso por unidad, en la unidad de medida del catálogo
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasRequiredAttributes verifica los atributos mínimos para operar con el ítem.
func (i *Item) HasRequiredAttributes() bool {
	return i.UnitWeight.GreaterThan(decimal.Zero)
}
