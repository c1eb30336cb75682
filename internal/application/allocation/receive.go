package allocation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	domaininventory "github.com/jhoicas/Almacen-api/internal/domain/inventory"
)

// LineSplit destino parcial de una línea recibida: cuántas unidades entran
// directo a una sucursal en vez de a la reserva.
type LineSplit struct {
	OutletID string
	Quantity int64
}

// LineInput una línea de recepción: ítem, cantidad, precio unitario y reparto
// opcional hacia sucursales. El remanente no repartido acredita la reserva.
type LineInput struct {
	ItemID    string
	Quantity  int64
	UnitPrice decimal.Decimal
	Splits    []LineSplit
}

// ReceivePurchaseInput entrada para la recepción de una compra (PURCHASE_IN).
type ReceivePurchaseInput struct {
	SupplierID string
	UserID     string
	Fees       decimal.Decimal
	TaxRate    decimal.Decimal
	Notes      string
	Lines      []LineInput
	OccurredAt time.Time // cero = ahora
}

// ReceivePurchaseResult identificadores creados por la recepción.
type ReceivePurchaseResult struct {
	PurchaseID string
	LotID      string
	LotCode    string
}

// ReceivePurchase recibe una compra: crea la compra, un lote con código único
// por día y sus líneas; acredita reserva o destinos del reparto; registra un
// movimiento External→destino por bucket acreditado; recalcula totales.
// Todo dentro de una transacción: cualquier error revierte la operación completa.
func (e *Engine) ReceivePurchase(ctx context.Context, input ReceivePurchaseInput) (*ReceivePurchaseResult, error) {
	if input.UserID == "" {
		return nil, domain.NewValidationError("user_id", "actor requerido para auditoría")
	}
	if input.SupplierID == "" {
		return nil, domain.NewValidationError("supplier_id", "proveedor requerido")
	}
	if len(input.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "la compra requiere al menos una línea")
	}
	for i, line := range input.Lines {
		if err := e.validateLine(ctx, i, line); err != nil {
			return nil, err
		}
	}

	now := occurredAt(input.OccurredAt)
	var result ReceivePurchaseResult

	err := e.txRunner.Run(ctx, func(r Repos) error {
		code, err := nextCode(ctx, r.Sequences, SequenceScopeLot, now)
		if err != nil {
			return err
		}

		purchase := &entity.Purchase{
			ID:         uuid.New().String(),
			SupplierID: input.SupplierID,
			Status:     entity.PurchaseStatusActive,
			Fees:       input.Fees,
			TaxRate:    input.TaxRate,
			CreatedBy:  input.UserID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Purchases.CreatePurchase(ctx, purchase); err != nil {
			return err
		}

		lot := &entity.Lot{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			Code:       code,
			IntakeDate: now,
			Notes:      input.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Purchases.CreateLot(ctx, lot); err != nil {
			return err
		}

		txID := uuid.New().String()
		for _, in := range input.Lines {
			line := &entity.PurchaseLine{
				ID:         uuid.New().String(),
				LotID:      lot.ID,
				PurchaseID: purchase.ID,
				ItemID:     in.ItemID,
				Quantity:   in.Quantity,
				UnitPrice:  in.UnitPrice,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := r.Purchases.CreateLine(ctx, line); err != nil {
				return err
			}
			if err := creditLine(ctx, r, txID, line, in.Splits, input.UserID, now); err != nil {
				return err
			}
		}

		if err := recalcAndSave(ctx, r, purchase); err != nil {
			return err
		}

		result = ReceivePurchaseResult{PurchaseID: purchase.ID, LotID: lot.ID, LotCode: code}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// validateLine valida una línea de recepción antes de abrir la transacción:
// ítem existente con atributos requeridos, cantidades positivas, reparto que
// no exceda la cantidad de la línea y sucursales destino existentes.
func (e *Engine) validateLine(ctx context.Context, idx int, line LineInput) error {
	field := fmt.Sprintf("lines[%d]", idx)
	if line.Quantity <= 0 {
		return domain.NewValidationError(field+".quantity", "la cantidad debe ser positiva")
	}
	if line.UnitPrice.LessThan(decimal.Zero) {
		return domain.NewValidationError(field+".unit_price", "el precio unitario no puede ser negativo")
	}
	item, err := e.items.GetByID(ctx, line.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.NewValidationError(field+".item_id", "ítem desconocido: "+line.ItemID)
	}
	if !item.HasRequiredAttributes() {
		return domain.NewValidationError(field+".item_id", "el ítem no tiene peso unitario definido")
	}

	var splitSum int64
	for j, split := range line.Splits {
		splitField := fmt.Sprintf("%s.splits[%d]", field, j)
		if split.Quantity <= 0 {
			return domain.NewValidationError(splitField+".quantity", "la cantidad debe ser positiva")
		}
		if split.OutletID == "" {
			return domain.NewValidationError(splitField+".outlet_id", "sucursal requerida")
		}
		exists, err := e.outlets.Exists(ctx, split.OutletID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NewValidationError(splitField+".outlet_id", "sucursal desconocida: "+split.OutletID)
		}
		splitSum += split.Quantity
	}
	if splitSum > line.Quantity {
		return domain.NewValidationError(field+".splits", "la suma del reparto excede la cantidad de la línea")
	}
	return nil
}

// creditLine acredita las unidades de una línea recién creada: el remanente
// del reparto entra a la reserva y cada split a su sucursal, bloqueando filas
// en orden fijo (reserva primero, sucursales ascendentes). Un movimiento
// PURCHASE_IN External→destino por bucket acreditado, con el precio unitario
// de la línea como costo.
func creditLine(ctx context.Context, r Repos, txID string, line *entity.PurchaseLine, splits []LineSplit, userID string, now time.Time) error {
	var splitSum int64
	for _, s := range splits {
		splitSum += s.Quantity
	}

	type creditTarget struct {
		loc entity.Location
		qty int64
	}
	targets := make([]creditTarget, 0, len(splits)+1)
	if remainder := line.Quantity - splitSum; remainder > 0 {
		targets = append(targets, creditTarget{loc: entity.LocationReserve(), qty: remainder})
	}
	sorted := make([]LineSplit, len(splits))
	copy(sorted, splits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OutletID < sorted[j].OutletID })
	for _, s := range sorted {
		targets = append(targets, creditTarget{loc: entity.LocationOutlet(s.OutletID), qty: s.Quantity})
	}

	unitCost := line.UnitPrice
	for _, t := range targets {
		balance, err := r.Balances.GetForUpdate(ctx, line.ItemID, t.loc)
		if err != nil {
			return err
		}
		balance.Credit(t.qty)
		balance.UpdatedAt = now
		if err := r.Balances.Upsert(ctx, balance); err != nil {
			return err
		}
		mov := &entity.InventoryMovement{
			TransactionID: txID,
			ItemID:        line.ItemID,
			Quantity:      t.qty,
			Kind:          entity.MovementKindPurchaseIn,
			Source:        entity.LocationExternal(),
			Destination:   t.loc,
			UnitCost:      &unitCost,
			PurchaseID:    line.PurchaseID,
			LineID:        line.ID,
			CreatedBy:     userID,
			OccurredAt:    now,
			CreatedAt:     now,
		}
		if err := r.Movements.Append(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}

// recalcAndSave recalcula los totales de la compra desde sus líneas y los
// persiste. Explícito e idempotente: reemplaza los efectos colaterales de
// guardado implícito por una recomputación con orden definido.
func recalcAndSave(ctx context.Context, r Repos, purchase *entity.Purchase) error {
	lines, err := r.Purchases.ListLinesByPurchase(ctx, purchase.ID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	items, err := r.Items.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	totals := domaininventory.RecalcTotals(lines, items, purchase.Fees, purchase.TaxRate)
	purchase.Subtotal = totals.Subtotal
	purchase.TotalExTax = totals.TotalExTax
	purchase.TotalIncTax = totals.TotalIncTax
	return r.Purchases.SaveTotals(ctx, purchase)
}
