package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del agregado compra (compras, lotes, líneas)
// sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, supplier_id, status, fees, tax_rate, subtotal, total_ex_tax, total_inc_tax,
	cancelled_at, cancelled_by, cancel_reason, created_by, created_at, updated_at`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var cancelledBy, cancelReason *string
	err := row.Scan(&p.ID, &p.SupplierID, &p.Status, &p.Fees, &p.TaxRate,
		&p.Subtotal, &p.TotalExTax, &p.TotalIncTax,
		&p.CancelledAt, &cancelledBy, &cancelReason,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if cancelledBy != nil {
		p.CancelledBy = *cancelledBy
	}
	if cancelReason != nil {
		p.CancelReason = *cancelReason
	}
	return &p, nil
}

// CreatePurchase persiste una compra nueva.
func (r *PurchaseRepo) CreatePurchase(ctx context.Context, p *entity.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchases (id, supplier_id, status, fees, tax_rate, subtotal, total_ex_tax, total_inc_tax, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SupplierID, p.Status, p.Fees, p.TaxRate,
		p.Subtotal, p.TotalExTax, p.TotalIncTax,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// GetPurchase obtiene una compra por id; nil si no existe.
func (r *PurchaseRepo) GetPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// GetPurchaseForUpdate obtiene la compra bloqueando la fila (SELECT FOR UPDATE).
func (r *PurchaseRepo) GetPurchaseForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 FOR UPDATE`
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase for update: %w", err)
	}
	return p, nil
}

// SaveTotals persiste cargos, tasa y totales recalculados de la compra.
func (r *PurchaseRepo) SaveTotals(ctx context.Context, p *entity.Purchase) error {
	query := `
		UPDATE purchases
		SET fees = $2, tax_rate = $3, subtotal = $4, total_ex_tax = $5, total_inc_tax = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Fees, p.TaxRate, p.Subtotal, p.TotalExTax, p.TotalIncTax)
	if err != nil {
		return fmt.Errorf("save purchase totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save purchase totals %s: no existe", p.ID)
	}
	return nil
}

// MarkCancelled marca la compra cancelada con motivo, actor y fecha.
func (r *PurchaseRepo) MarkCancelled(ctx context.Context, id, cancelledBy, reason string, at time.Time) error {
	query := `
		UPDATE purchases
		SET status = $2, cancelled_at = $3, cancelled_by = $4, cancel_reason = $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, entity.PurchaseStatusCancelled, at, cancelledBy, reason)
	if err != nil {
		return fmt.Errorf("mark purchase cancelled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark purchase cancelled %s: no existe", id)
	}
	return nil
}

// CreateLot persiste un lote nuevo. El código único por día viene del
// generador de numeración; la constraint única (code) respalda la garantía.
func (r *PurchaseRepo) CreateLot(ctx context.Context, lot *entity.Lot) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lots (id, purchase_id, code, intake_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.PurchaseID, lot.Code, lot.IntakeDate, lot.Notes, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create lot: código duplicado %s: %w", lot.Code, err)
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetLot obtiene un lote por id; nil si no existe.
func (r *PurchaseRepo) GetLot(ctx context.Context, id string) (*entity.Lot, error) {
	query := `
		SELECT id, purchase_id, code, intake_date, notes, created_at, updated_at
		FROM lots WHERE id = $1`
	var l entity.Lot
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.PurchaseID, &l.Code, &l.IntakeDate, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

const lineColumns = `id, lot_id, purchase_id, item_id, quantity, unit_price, created_at, updated_at`

func scanLine(row pgx.Row) (*entity.PurchaseLine, error) {
	var l entity.PurchaseLine
	err := row.Scan(&l.ID, &l.LotID, &l.PurchaseID, &l.ItemID,
		&l.Quantity, &l.UnitPrice, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLine persiste una línea nueva.
func (r *PurchaseRepo) CreateLine(ctx context.Context, line *entity.PurchaseLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_lines (id, lot_id, purchase_id, item_id, quantity, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.LotID, line.PurchaseID, line.ItemID,
		line.Quantity, line.UnitPrice, line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase line: %w", err)
	}
	return nil
}

// GetLine obtiene una línea por id; nil si no existe.
func (r *PurchaseRepo) GetLine(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	query := `SELECT ` + lineColumns + ` FROM purchase_lines WHERE id = $1`
	l, err := scanLine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase line: %w", err)
	}
	return l, nil
}

// GetLineForUpdate obtiene la línea bloqueando la fila (SELECT FOR UPDATE).
func (r *PurchaseRepo) GetLineForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	query := `SELECT ` + lineColumns + ` FROM purchase_lines WHERE id = $1 FOR UPDATE`
	l, err := scanLine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase line for update: %w", err)
	}
	return l, nil
}

// UpdateLineQuantity fija la cantidad de la línea (solo decrece: la
// constraint CHECK quantity >= 0 respalda el invariante).
func (r *PurchaseRepo) UpdateLineQuantity(ctx context.Context, id string, quantity int64) error {
	query := `UPDATE purchase_lines SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("update line quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update line quantity %s: no existe", id)
	}
	return nil
}

// ListLinesByPurchase líneas de una compra en orden de creación.
func (r *PurchaseRepo) ListLinesByPurchase(ctx context.Context, purchaseID string) ([]*entity.PurchaseLine, error) {
	query := `SELECT ` + lineColumns + ` FROM purchase_lines WHERE purchase_id = $1 ORDER BY created_at ASC, id ASC`
	return r.listLines(ctx, query, purchaseID)
}

// ListLinesByLot líneas de un lote en orden de creación.
func (r *PurchaseRepo) ListLinesByLot(ctx context.Context, lotID string) ([]*entity.PurchaseLine, error) {
	query := `SELECT ` + lineColumns + ` FROM purchase_lines WHERE lot_id = $1 ORDER BY created_at ASC, id ASC`
	return r.listLines(ctx, query, lotID)
}

func (r *PurchaseRepo) listLines(ctx context.Context, query string, args ...any) ([]*entity.PurchaseLine, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
