package entity

import "fmt"

// LocationKind discrimina el tipo de ubicación donde pueden residir unidades.
type LocationKind string

// Tipos de ubicación (variante cerrada).
const (
	LocationKindExternal LocationKind = "EXTERNAL" // frontera: proveedor o cliente, sin fila de saldo
	LocationKindReserve  LocationKind = "RESERVE"  // pool compartido, sin id de sucursal
	LocationKindOutlet   LocationKind = "OUTLET"   // sucursal concreta
	LocationKindVendor   LocationKind = "VENDOR"   // vendedor asignado
)

// Location representa una ubicación de inventario como variante etiquetada cerrada.
// Reemplaza el esquema "outlet_id NULL significa reserva" por un tipo explícito:
// External no tiene fila de saldo, Reserve no lleva id, Outlet y Vendor llevan el suyo.
type Location struct {
	Kind     LocationKind
	OutletID string // solo para Kind == OUTLET
	VendorID string // solo para Kind == VENDOR
}

// LocationExternal ubicación frontera (entrada desde proveedor / salida a cliente).
func LocationExternal() Location {
	return Location{Kind: LocationKindExternal}
}

// LocationReserve el pool de reserva compartido.
func LocationReserve() Location {
	return Location{Kind: LocationKindReserve}
}

// LocationOutlet la sucursal indicada.
func LocationOutlet(outletID string) Location {
	return Location{Kind: LocationKindOutlet, OutletID: outletID}
}

// LocationVendor el vendedor indicado.
func LocationVendor(vendorID string) Location {
	return Location{Kind: LocationKindVendor, VendorID: vendorID}
}

// HasBalanceRow indica si la ubicación respalda una fila en stock_balances.
// Solo Reserve y Outlet mantienen saldos; External es frontera y Vendor se
// registra en vendor_allocations.
func (l Location) HasBalanceRow() bool {
	return l.Kind == LocationKindReserve || l.Kind == LocationKindOutlet
}

// RefID devuelve el id asociado a la variante ('' para External/Reserve).
func (l Location) RefID() string {
	switch l.Kind {
	case LocationKindOutlet:
		return l.OutletID
	case LocationKindVendor:
		return l.VendorID
	}
	return ""
}

// Equal compara dos ubicaciones por variante e id.
func (l Location) Equal(other Location) bool {
	return l.Kind == other.Kind && l.RefID() == other.RefID()
}

// String para logs y mensajes de error.
func (l Location) String() string {
	switch l.Kind {
	case LocationKindExternal:
		return "external"
	case LocationKindReserve:
		return "reserve"
	case LocationKindOutlet:
		return fmt.Sprintf("outlet:%s", l.OutletID)
	case LocationKindVendor:
		return fmt.Sprintf("vendor:%s", l.VendorID)
	}
	return string(l.Kind)
}

// Valid verifica que la variante sea conocida y que el id acompañe solo a quien corresponde.
func (l Location) Valid() bool {
	switch l.Kind {
	case LocationKindExternal, LocationKindReserve:
		return l.OutletID == "" && l.VendorID == ""
	case LocationKindOutlet:
		return l.OutletID != "" && l.VendorID == ""
	case LocationKindVendor:
		return l.VendorID != "" && l.OutletID == ""
	}
	return false
}
