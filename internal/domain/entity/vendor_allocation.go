package entity

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

// VendorAllocation unidades de una línea de compra asignadas a un vendedor.
// Allocated: total asignado; Sold: total vendido. Invariante: 0 <= Sold <= Allocated.
// IntakeDate se denormaliza desde el lote para ordenar el consumo FIFO sin join
// en memoria; ItemID para buscar por (vendedor, ítem) en la venta.
type VendorAllocation struct {
	ID             string
	PurchaseLineID string
	VendorID       string
	ItemID         string
	Allocated      int64
	Sold           int64
	IntakeDate     time.Time
	UpdatedAt      time.Time
}

// Remaining unidades asignadas aún sin vender.
func (a *VendorAllocation) Remaining() int64 {
	return a.Allocated - a.Sold
}

// Consume marca qty unidades como vendidas. Chequeo defensivo en memoria; el
// chequeo autoritativo es el UPDATE condicionado del repositorio.
func (a *VendorAllocation) Consume(qty int64) error {
	if a.Remaining() < qty {
		return &domain.InsufficientStockError{
			ItemID:    a.ItemID,
			Location:  LocationVendor(a.VendorID).String(),
			Requested: qty,
			Available: a.Remaining(),
		}
	}
	a.Sold += qty
	return nil
}

// Restore revierte qty unidades vendidas (devolución).
func (a *VendorAllocation) Restore(qty int64) error {
	if a.Sold < qty {
		return &domain.InsufficientStockError{
			ItemID:    a.ItemID,
			Location:  LocationVendor(a.VendorID).String(),
			Requested: qty,
			Available: a.Sold,
		}
	}
	a.Sold -= qty
	return nil
}
