package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindPurchaseIn     = "PURCHASE_IN"     // entrada desde proveedor
	MovementKindCancelPurchase = "CANCEL_PURCHASE" // devolución al proveedor
	MovementKindTransfer       = "TRANSFER"        // traslado reserva/sucursal
	MovementKindVendorAssign   = "VENDOR_ASSIGN"   // asignación a vendedor
	MovementKindSaleOut        = "SALE_OUT"        // venta desde vendedor
	MovementKindAdjustment     = "ADJUSTMENT"      // ajuste, salida genérica o devolución
)

// InventoryMovement registro inmutable de un traslado de cantidad entre dos
// ubicaciones. Se crea una vez y nunca se actualiza ni se borra; cada mutación
// de saldo va acompañada, en la misma transacción, de exactamente un movimiento.
type InventoryMovement struct {
	ID            string
	TransactionID string // agrupa los movimientos de una misma operación del motor
	ItemID        string
	Quantity      int64 // siempre > 0; la dirección la dan Source y Destination
	Kind          string
	Source        Location
	Destination   Location
	UnitCost      *decimal.Decimal // presente cuando el costo unitario es conocido
	PurchaseID    string           // documento de negocio vinculado ('' si no aplica)
	LineID        string           // línea de compra vinculada ('' si no aplica)
	Reference     string           // referencia externa del caller (factura, orden)
	Reason        string
	CreatedBy     string
	OccurredAt    time.Time
	CreatedAt     time.Time
}
