package entity

import "time"

// Vendor un vendedor (agente de ventas) afiliado a una sucursal. Solo
// vendedores activos y afiliados a la sucursal origen pueden recibir
// asignaciones de inventario.
type Vendor struct {
	ID        string
	OutletID  string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanReceiveFrom indica si el vendedor puede recibir asignaciones desde la sucursal dada.
func (v *Vendor) CanReceiveFrom(outletID string) bool {
	return v.Active && v.OutletID == outletID
}
