package entity

import "time"

// Outlet una sucursal física donde reside inventario. El directorio de
// sucursales es un colaborador externo; aquí solo se valida existencia como
// destino de traslados y origen de asignaciones.
type Outlet struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
