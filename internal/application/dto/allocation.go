package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineSplitRequest reparto parcial de una línea hacia una sucursal.
type LineSplitRequest struct {
	OutletID string `json:"outlet_id"`
	Quantity int64  `json:"quantity"`
}

// LineRequest una línea de recepción.
type LineRequest struct {
	ItemID    string             `json:"item_id"`
	Quantity  int64              `json:"quantity"`
	UnitPrice decimal.Decimal    `json:"unit_price"`
	Splits    []LineSplitRequest `json:"splits,omitempty"`
}

// ReceivePurchaseRequest cuerpo de POST /api/purchases.
type ReceivePurchaseRequest struct {
	SupplierID string          `json:"supplier_id"`
	Fees       decimal.Decimal `json:"fees"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Notes      string          `json:"notes,omitempty"`
	Lines      []LineRequest   `json:"lines"`
	OccurredAt time.Time       `json:"occurred_at,omitempty"`
}

// ReceivePurchaseResponse identificadores creados por la recepción.
type ReceivePurchaseResponse struct {
	PurchaseID string `json:"purchase_id"`
	LotID      string `json:"lot_id"`
	LotCode    string `json:"lot_code"`
}

// AddLineRequest cuerpo de POST /api/lots/:id/lines.
type AddLineRequest struct {
	Line       LineRequest `json:"line"`
	OccurredAt time.Time   `json:"occurred_at,omitempty"`
}

// ReduceLineRequest cuerpo de POST /api/lines/:id/reduce.
type ReduceLineRequest struct {
	Quantity   int64     `json:"quantity"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// UpdateFeesRequest cuerpo de PUT /api/purchases/:id/fees.
type UpdateFeesRequest struct {
	Fees decimal.Decimal `json:"fees"`
}

// CancelPurchaseRequest cuerpo de POST /api/purchases/:id/cancel.
type CancelPurchaseRequest struct {
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// LocationRequest ubicación con fila de saldo: RESERVE u OUTLET (con outlet_id).
type LocationRequest struct {
	Kind     string `json:"kind"`
	OutletID string `json:"outlet_id,omitempty"`
}

// TransferRequest cuerpo de POST /api/stock/transfers.
type TransferRequest struct {
	ItemID      string          `json:"item_id"`
	Source      LocationRequest `json:"source"`
	Destination LocationRequest `json:"destination"`
	Quantity    int64           `json:"quantity"`
	Reference   string          `json:"reference,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at,omitempty"`
}

// DepleteRequest cuerpo de POST /api/stock/depletions.
type DepleteRequest struct {
	ItemID     string    `json:"item_id"`
	Quantity   int64     `json:"quantity"`
	Reference  string    `json:"reference,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// AssignRequest cuerpo de POST /api/vendors/:id/allocations.
type AssignRequest struct {
	LineID     string    `json:"line_id"`
	OutletID   string    `json:"outlet_id"`
	Quantity   int64     `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// ConsumeRequest cuerpo de POST /api/vendors/:id/consumptions (venta) y
// de POST /api/vendors/:id/restores (devolución).
type ConsumeRequest struct {
	ItemID     string    `json:"item_id"`
	Quantity   int64     `json:"quantity"`
	Reference  string    `json:"reference,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// StockBalanceDTO saldo de un ítem en una ubicación.
type StockBalanceDTO struct {
	Location  string `json:"location"`
	Allocated int64  `json:"allocated_qty"`
	Available int64  `json:"available_qty"`
}

// MovementDTO un movimiento del historial.
type MovementDTO struct {
	ID            string           `json:"id"`
	TransactionID string           `json:"transaction_id"`
	ItemID        string           `json:"item_id"`
	Quantity      int64            `json:"quantity"`
	Kind          string           `json:"kind"`
	Source        string           `json:"source"`
	Destination   string           `json:"destination"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	PurchaseID    string           `json:"purchase_id,omitempty"`
	LineID        string           `json:"line_id,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	CreatedBy     string           `json:"created_by"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// MovementPageResponse página del historial con cursor de reanudación.
type MovementPageResponse struct {
	Movements  []MovementDTO `json:"movements"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
