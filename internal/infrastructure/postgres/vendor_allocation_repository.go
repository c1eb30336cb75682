package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.VendorAllocationRepository = (*VendorAllocationRepo)(nil)

// VendorAllocationRepo implementación sobre PostgreSQL (usable con pool o tx).
// intake_date se denormaliza desde el lote al crear la fila: el orden FIFO se
// resuelve con un índice sobre (vendor_id, item_id, intake_date, id) sin join.
type VendorAllocationRepo struct {
	q Querier
}

// NewVendorAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorAllocationRepository(q Querier) *VendorAllocationRepo {
	return &VendorAllocationRepo{q: q}
}

const vendorAllocationColumns = `id, purchase_line_id, vendor_id, item_id, allocated_qty, sold_qty, intake_date, updated_at`

func scanVendorAllocation(row pgx.Row) (*entity.VendorAllocation, error) {
	var a entity.VendorAllocation
	err := row.Scan(&a.ID, &a.PurchaseLineID, &a.VendorID, &a.ItemID,
		&a.Allocated, &a.Sold, &a.IntakeDate, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetForUpdate asignación de (línea, vendedor) bloqueada; nil si no existe.
func (r *VendorAllocationRepo) GetForUpdate(ctx context.Context, lineID, vendorID string) (*entity.VendorAllocation, error) {
	query := `
		SELECT ` + vendorAllocationColumns + `
		FROM vendor_allocations
		WHERE purchase_line_id = $1 AND vendor_id = $2
		FOR UPDATE`
	a, err := scanVendorAllocation(r.q.QueryRow(ctx, query, lineID, vendorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor allocation for update: %w", err)
	}
	return a, nil
}

// Create persiste una asignación nueva.
func (r *VendorAllocationRepo) Create(ctx context.Context, alloc *entity.VendorAllocation) error {
	if alloc.ID == "" {
		alloc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO vendor_allocations (id, purchase_line_id, vendor_id, item_id, allocated_qty, sold_qty, intake_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err := r.q.Exec(ctx, query,
		alloc.ID, alloc.PurchaseLineID, alloc.VendorID, alloc.ItemID,
		alloc.Allocated, alloc.Sold, alloc.IntakeDate,
	)
	if err != nil {
		return fmt.Errorf("create vendor allocation: %w", err)
	}
	return nil
}

// Update persiste allocated/sold de una asignación existente.
func (r *VendorAllocationRepo) Update(ctx context.Context, alloc *entity.VendorAllocation) error {
	query := `
		UPDATE vendor_allocations
		SET allocated_qty = $2, sold_qty = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, alloc.ID, alloc.Allocated, alloc.Sold)
	if err != nil {
		return fmt.Errorf("update vendor allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update vendor allocation %s: no existe", alloc.ID)
	}
	return nil
}

// ListForConsume filas con remanente en orden FIFO (fecha de ingreso
// ascendente, id como desempate determinista), bloqueadas.
func (r *VendorAllocationRepo) ListForConsume(ctx context.Context, vendorID, itemID string) ([]*entity.VendorAllocation, error) {
	query := `
		SELECT ` + vendorAllocationColumns + `
		FROM vendor_allocations
		WHERE vendor_id = $1 AND item_id = $2 AND allocated_qty > sold_qty
		ORDER BY intake_date ASC, id ASC
		FOR UPDATE`
	return r.list(ctx, query, vendorID, itemID)
}

// ListForRestore filas con ventas en orden LIFO (fecha de ingreso
// descendente, id descendente), bloqueadas.
func (r *VendorAllocationRepo) ListForRestore(ctx context.Context, vendorID, itemID string) ([]*entity.VendorAllocation, error) {
	query := `
		SELECT ` + vendorAllocationColumns + `
		FROM vendor_allocations
		WHERE vendor_id = $1 AND item_id = $2 AND sold_qty > 0
		ORDER BY intake_date DESC, id DESC
		FOR UPDATE`
	return r.list(ctx, query, vendorID, itemID)
}

// ListByLineForUpdate todas las asignaciones de una línea, bloqueadas.
func (r *VendorAllocationRepo) ListByLineForUpdate(ctx context.Context, lineID string) ([]*entity.VendorAllocation, error) {
	query := `
		SELECT ` + vendorAllocationColumns + `
		FROM vendor_allocations
		WHERE purchase_line_id = $1
		ORDER BY id ASC
		FOR UPDATE`
	return r.list(ctx, query, lineID)
}

func (r *VendorAllocationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.VendorAllocation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendor allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.VendorAllocation
	for rows.Next() {
		a, err := scanVendorAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor allocation: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// SumAllocatedByLine total asignado de una línea entre todos los vendedores.
func (r *VendorAllocationRepo) SumAllocatedByLine(ctx context.Context, lineID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(allocated_qty), 0)
		FROM vendor_allocations
		WHERE purchase_line_id = $1`
	var total int64
	if err := r.q.QueryRow(ctx, query, lineID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum allocated by line: %w", err)
	}
	return total, nil
}

// ConsumeGuarded sold += qty con chequeo optimista en el WHERE: si otra
// transacción consumió entre la lectura y este UPDATE, ninguna fila califica
// y se devuelve false para que el motor aborte con ConflictError.
func (r *VendorAllocationRepo) ConsumeGuarded(ctx context.Context, id string, qty int64) (bool, error) {
	query := `
		UPDATE vendor_allocations
		SET sold_qty = sold_qty + $2, updated_at = now()
		WHERE id = $1 AND allocated_qty >= sold_qty + $2`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return false, fmt.Errorf("consume vendor allocation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RestoreGuarded sold -= qty con el chequeo simétrico (sold >= qty).
func (r *VendorAllocationRepo) RestoreGuarded(ctx context.Context, id string, qty int64) (bool, error) {
	query := `
		UPDATE vendor_allocations
		SET sold_qty = sold_qty - $2, updated_at = now()
		WHERE id = $1 AND sold_qty >= $2`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return false, fmt.Errorf("restore vendor allocation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
