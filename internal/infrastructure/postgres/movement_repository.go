package postgres

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del log de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: las filas jamás se actualizan ni se borran.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta un movimiento inmutable.
func (r *MovementRepo) Append(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Quantity <= 0 {
		return fmt.Errorf("append movement: cantidad no positiva %d", m.Quantity)
	}
	query := `
		INSERT INTO inventory_movements (
			id, transaction_id, item_id, quantity, kind,
			src_kind, src_ref_id, dst_kind, dst_ref_id,
			unit_cost, purchase_id, line_id, reference, reason,
			created_by, occurred_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.ItemID, m.Quantity, m.Kind,
		string(m.Source.Kind), m.Source.RefID(), string(m.Destination.Kind), m.Destination.RefID(),
		m.UnitCost, nullIfEmpty(m.PurchaseID), nullIfEmpty(m.LineID), m.Reference, m.Reason,
		m.CreatedBy, m.OccurredAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// List página de movimientos en orden cronológico (occurred_at, id) con
// keyset pagination: el cursor codifica la última fila vista, de modo que el
// recorrido es reiniciable sin repetir ni saltar filas.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.InventoryMovement, string, error) {
	query := `
		SELECT id, transaction_id, item_id, quantity, kind,
			src_kind, src_ref_id, dst_kind, dst_ref_id,
			unit_cost, purchase_id, line_id, reference, reason,
			created_by, occurred_at, created_at
		FROM inventory_movements WHERE 1=1`
	var args []any
	pos := 1
	if filter.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.Cursor != "" {
		at, id, err := decodeCursor(filter.Cursor)
		if err != nil {
			return nil, "", err
		}
		query += fmt.Sprintf(" AND (occurred_at, id) > ($%d, $%d)", pos, pos+1)
		args = append(args, at, id)
		pos += 2
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY occurred_at ASC, id ASC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var srcKind, srcRef, dstKind, dstRef string
		var unitCost *decimal.Decimal
		var purchaseID, lineID *string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ItemID, &m.Quantity, &m.Kind,
			&srcKind, &srcRef, &dstKind, &dstRef,
			&unitCost, &purchaseID, &lineID, &m.Reference, &m.Reason,
			&m.CreatedBy, &m.OccurredAt, &m.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("scan movement: %w", err)
		}
		m.Source = decodeLocation(srcKind, srcRef)
		m.Destination = decodeLocation(dstKind, dstRef)
		m.UnitCost = unitCost
		if purchaseID != nil {
			m.PurchaseID = *purchaseID
		}
		if lineID != nil {
			m.LineID = *lineID
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	next := ""
	if len(list) == limit {
		last := list[len(list)-1]
		next = encodeCursor(last.OccurredAt, last.ID)
	}
	return list, next, nil
}

// decodeLocation reconstruye la variante de ubicación desde (kind, ref).
func decodeLocation(kind, ref string) entity.Location {
	switch entity.LocationKind(kind) {
	case entity.LocationKindReserve:
		return entity.LocationReserve()
	case entity.LocationKindOutlet:
		return entity.LocationOutlet(ref)
	case entity.LocationKindVendor:
		return entity.LocationVendor(ref)
	}
	return entity.LocationExternal()
}

// encodeCursor token opaco (occurred_at en nanos | id) en base64 URL-safe.
func encodeCursor(at time.Time, id string) string {
	raw := fmt.Sprintf("%d|%s", at.UnixNano(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("decode cursor: formato inválido")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("decode cursor: %w", err)
	}
	return time.Unix(0, nanos), parts[1], nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
