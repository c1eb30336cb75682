package allocation_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/allocation"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// memStore implementación en memoria de todos los puertos del motor. Un solo
// struct hace de los ocho repositorios: el estado compartido imita una BD.
type memStore struct {
	balances  map[string]*entity.StockBalance // clave item|location
	allocs    map[string]*entity.VendorAllocation
	movements []*entity.InventoryMovement
	purchases map[string]*entity.Purchase
	lots      map[string]*entity.Lot
	lines     map[string]*entity.PurchaseLine
	lineOrder []string // orden de creación de líneas
	sequences map[string]int64
	items     map[string]*entity.Item
	outlets   map[string]*entity.Outlet
	vendors   map[string]*entity.Vendor

	sequenceErr error // si no es nil, Next falla siempre (prueba de agotamiento)
}

func newMemStore() *memStore {
	return &memStore{
		balances:  make(map[string]*entity.StockBalance),
		allocs:    make(map[string]*entity.VendorAllocation),
		purchases: make(map[string]*entity.Purchase),
		lots:      make(map[string]*entity.Lot),
		lines:     make(map[string]*entity.PurchaseLine),
		sequences: make(map[string]int64),
		items:     make(map[string]*entity.Item),
		outlets:   make(map[string]*entity.Outlet),
		vendors:   make(map[string]*entity.Vendor),
	}
}

func balanceKey(itemID string, loc entity.Location) string {
	return itemID + "|" + loc.String()
}

func copyBalance(b *entity.StockBalance) *entity.StockBalance {
	c := *b
	return &c
}

func copyAlloc(a *entity.VendorAllocation) *entity.VendorAllocation {
	c := *a
	return &c
}

// clone copia profunda del estado, para emular el rollback transaccional.
func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.balances {
		c.balances[k] = copyBalance(v)
	}
	for k, v := range s.allocs {
		c.allocs[k] = copyAlloc(v)
	}
	c.movements = make([]*entity.InventoryMovement, len(s.movements))
	for i, m := range s.movements {
		mc := *m
		c.movements[i] = &mc
	}
	for k, v := range s.purchases {
		pc := *v
		c.purchases[k] = &pc
	}
	for k, v := range s.lots {
		lc := *v
		c.lots[k] = &lc
	}
	for k, v := range s.lines {
		lc := *v
		c.lines[k] = &lc
	}
	c.lineOrder = append([]string(nil), s.lineOrder...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	c.items = s.items
	c.outlets = s.outlets
	c.vendors = s.vendors
	c.sequenceErr = s.sequenceErr
	return c
}

func (s *memStore) restore(from *memStore) {
	s.balances = from.balances
	s.allocs = from.allocs
	s.movements = from.movements
	s.purchases = from.purchases
	s.lots = from.lots
	s.lines = from.lines
	s.lineOrder = from.lineOrder
	s.sequences = from.sequences
}

// ── StockBalanceRepository ────────────────────────────────────────────────────

func (s *memStore) Get(_ context.Context, itemID string, loc entity.Location) (*entity.StockBalance, error) {
	if b, ok := s.balances[balanceKey(itemID, loc)]; ok {
		return copyBalance(b), nil
	}
	return entity.NewStockBalance(itemID, loc), nil
}

func (s *memStore) GetForUpdate(ctx context.Context, itemID string, loc entity.Location) (*entity.StockBalance, error) {
	return s.Get(ctx, itemID, loc)
}

func (s *memStore) ListByItem(_ context.Context, itemID string) ([]*entity.StockBalance, error) {
	var list []*entity.StockBalance
	for _, b := range s.balances {
		if b.ItemID == itemID {
			list = append(list, copyBalance(b))
		}
	}
	// Reserva primero, sucursales en id ascendente (mismo orden que el adaptador real).
	sort.Slice(list, func(i, j int) bool {
		ri := list[i].Location.Kind == entity.LocationKindReserve
		rj := list[j].Location.Kind == entity.LocationKindReserve
		if ri != rj {
			return ri
		}
		return list[i].Location.OutletID < list[j].Location.OutletID
	})
	return list, nil
}

func (s *memStore) ListByItemForUpdate(ctx context.Context, itemID string) ([]*entity.StockBalance, error) {
	return s.ListByItem(ctx, itemID)
}

func (s *memStore) Upsert(_ context.Context, balance *entity.StockBalance) error {
	s.balances[balanceKey(balance.ItemID, balance.Location)] = copyBalance(balance)
	return nil
}

// ── VendorAllocationRepository ────────────────────────────────────────────────

func (s *memStore) GetAllocForUpdate(_ context.Context, lineID, vendorID string) (*entity.VendorAllocation, error) {
	for _, a := range s.allocs {
		if a.PurchaseLineID == lineID && a.VendorID == vendorID {
			return copyAlloc(a), nil
		}
	}
	return nil, nil
}

func (s *memStore) Create(_ context.Context, alloc *entity.VendorAllocation) error {
	if alloc.ID == "" {
		alloc.ID = uuid.New().String()
	}
	s.allocs[alloc.ID] = copyAlloc(alloc)
	return nil
}

func (s *memStore) Update(_ context.Context, alloc *entity.VendorAllocation) error {
	if _, ok := s.allocs[alloc.ID]; !ok {
		return fmt.Errorf("update vendor allocation %s: no existe", alloc.ID)
	}
	s.allocs[alloc.ID] = copyAlloc(alloc)
	return nil
}

func (s *memStore) listAllocs(vendorID, itemID string, keep func(*entity.VendorAllocation) bool) []*entity.VendorAllocation {
	var list []*entity.VendorAllocation
	for _, a := range s.allocs {
		if a.VendorID == vendorID && a.ItemID == itemID && keep(a) {
			list = append(list, copyAlloc(a))
		}
	}
	return list
}

func (s *memStore) ListForConsume(_ context.Context, vendorID, itemID string) ([]*entity.VendorAllocation, error) {
	list := s.listAllocs(vendorID, itemID, func(a *entity.VendorAllocation) bool { return a.Remaining() > 0 })
	sort.Slice(list, func(i, j int) bool {
		if !list[i].IntakeDate.Equal(list[j].IntakeDate) {
			return list[i].IntakeDate.Before(list[j].IntakeDate)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *memStore) ListForRestore(_ context.Context, vendorID, itemID string) ([]*entity.VendorAllocation, error) {
	list := s.listAllocs(vendorID, itemID, func(a *entity.VendorAllocation) bool { return a.Sold > 0 })
	sort.Slice(list, func(i, j int) bool {
		if !list[i].IntakeDate.Equal(list[j].IntakeDate) {
			return list[i].IntakeDate.After(list[j].IntakeDate)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (s *memStore) ListByLineForUpdate(_ context.Context, lineID string) ([]*entity.VendorAllocation, error) {
	var list []*entity.VendorAllocation
	for _, a := range s.allocs {
		if a.PurchaseLineID == lineID {
			list = append(list, copyAlloc(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *memStore) SumAllocatedByLine(_ context.Context, lineID string) (int64, error) {
	var total int64
	for _, a := range s.allocs {
		if a.PurchaseLineID == lineID {
			total += a.Allocated
		}
	}
	return total, nil
}

func (s *memStore) ConsumeGuarded(_ context.Context, id string, qty int64) (bool, error) {
	a, ok := s.allocs[id]
	if !ok || a.Allocated < a.Sold+qty {
		return false, nil
	}
	a.Sold += qty
	return true, nil
}

func (s *memStore) RestoreGuarded(_ context.Context, id string, qty int64) (bool, error) {
	a, ok := s.allocs[id]
	if !ok || a.Sold < qty {
		return false, nil
	}
	a.Sold -= qty
	return true, nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

func (s *memStore) Append(_ context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Quantity <= 0 {
		return fmt.Errorf("append movement: cantidad no positiva %d", m.Quantity)
	}
	mc := *m
	s.movements = append(s.movements, &mc)
	return nil
}

func (s *memStore) List(_ context.Context, filter repository.MovementFilter) ([]*entity.InventoryMovement, string, error) {
	all := make([]*entity.InventoryMovement, len(s.movements))
	copy(all, s.movements)
	sort.Slice(all, func(i, j int) bool {
		if !all[i].OccurredAt.Equal(all[j].OccurredAt) {
			return all[i].OccurredAt.Before(all[j].OccurredAt)
		}
		return all[i].ID < all[j].ID
	})

	var afterAt time.Time
	var afterID string
	hasCursor := filter.Cursor != ""
	if hasCursor {
		raw, err := base64.RawURLEncoding.DecodeString(filter.Cursor)
		if err != nil {
			return nil, "", err
		}
		parts := strings.SplitN(string(raw), "|", 2)
		nanos, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, "", err
		}
		afterAt, afterID = time.Unix(0, nanos), parts[1]
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	var page []*entity.InventoryMovement
	for _, m := range all {
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.From != nil && m.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.OccurredAt.After(*filter.To) {
			continue
		}
		if hasCursor {
			if m.OccurredAt.Before(afterAt) {
				continue
			}
			if m.OccurredAt.Equal(afterAt) && m.ID <= afterID {
				continue
			}
		}
		mc := *m
		page = append(page, &mc)
		if len(page) == limit {
			break
		}
	}

	next := ""
	if len(page) == limit {
		last := page[len(page)-1]
		raw := fmt.Sprintf("%d|%s", last.OccurredAt.UnixNano(), last.ID)
		next = base64.RawURLEncoding.EncodeToString([]byte(raw))
	}
	return page, next, nil
}

// ── PurchaseRepository ────────────────────────────────────────────────────────

func (s *memStore) CreatePurchase(_ context.Context, p *entity.Purchase) error {
	pc := *p
	s.purchases[p.ID] = &pc
	return nil
}

func (s *memStore) GetPurchase(_ context.Context, id string) (*entity.Purchase, error) {
	if p, ok := s.purchases[id]; ok {
		pc := *p
		return &pc, nil
	}
	return nil, nil
}

func (s *memStore) GetPurchaseForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return s.GetPurchase(ctx, id)
}

func (s *memStore) SaveTotals(_ context.Context, p *entity.Purchase) error {
	stored, ok := s.purchases[p.ID]
	if !ok {
		return fmt.Errorf("save purchase totals %s: no existe", p.ID)
	}
	stored.Fees = p.Fees
	stored.TaxRate = p.TaxRate
	stored.Subtotal = p.Subtotal
	stored.TotalExTax = p.TotalExTax
	stored.TotalIncTax = p.TotalIncTax
	return nil
}

func (s *memStore) MarkCancelled(_ context.Context, id, cancelledBy, reason string, at time.Time) error {
	p, ok := s.purchases[id]
	if !ok {
		return fmt.Errorf("mark purchase cancelled %s: no existe", id)
	}
	p.Status = entity.PurchaseStatusCancelled
	p.CancelledAt = &at
	p.CancelledBy = cancelledBy
	p.CancelReason = reason
	return nil
}

func (s *memStore) CreateLot(_ context.Context, lot *entity.Lot) error {
	for _, existing := range s.lots {
		if existing.Code == lot.Code {
			return fmt.Errorf("create lot: código duplicado %s", lot.Code)
		}
	}
	lc := *lot
	s.lots[lot.ID] = &lc
	return nil
}

func (s *memStore) GetLot(_ context.Context, id string) (*entity.Lot, error) {
	if l, ok := s.lots[id]; ok {
		lc := *l
		return &lc, nil
	}
	return nil, nil
}

func (s *memStore) CreateLine(_ context.Context, line *entity.PurchaseLine) error {
	lc := *line
	s.lines[line.ID] = &lc
	s.lineOrder = append(s.lineOrder, line.ID)
	return nil
}

func (s *memStore) GetLine(_ context.Context, id string) (*entity.PurchaseLine, error) {
	if l, ok := s.lines[id]; ok {
		lc := *l
		return &lc, nil
	}
	return nil, nil
}

func (s *memStore) GetLineForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	return s.GetLine(ctx, id)
}

func (s *memStore) UpdateLineQuantity(_ context.Context, id string, quantity int64) error {
	l, ok := s.lines[id]
	if !ok {
		return fmt.Errorf("update line quantity %s: no existe", id)
	}
	l.Quantity = quantity
	return nil
}

func (s *memStore) listLines(keep func(*entity.PurchaseLine) bool) []*entity.PurchaseLine {
	var list []*entity.PurchaseLine
	for _, id := range s.lineOrder {
		l := s.lines[id]
		if keep(l) {
			lc := *l
			list = append(list, &lc)
		}
	}
	return list
}

func (s *memStore) ListLinesByPurchase(_ context.Context, purchaseID string) ([]*entity.PurchaseLine, error) {
	return s.listLines(func(l *entity.PurchaseLine) bool { return l.PurchaseID == purchaseID }), nil
}

func (s *memStore) ListLinesByLot(_ context.Context, lotID string) ([]*entity.PurchaseLine, error) {
	return s.listLines(func(l *entity.PurchaseLine) bool { return l.LotID == lotID }), nil
}

// ── SequenceRepository ────────────────────────────────────────────────────────

func (s *memStore) Next(_ context.Context, scope string, day time.Time) (int64, error) {
	if s.sequenceErr != nil {
		return 0, s.sequenceErr
	}
	key := scope + "|" + day.Format("2006-01-02")
	s.sequences[key]++
	return s.sequences[key], nil
}

// ── Catálogo, sucursales, vendedores ─────────────────────────────────────────

func (s *memStore) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return s.items[id], nil
}

func (s *memStore) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

type outletPort struct{ s *memStore }

func (p outletPort) GetByID(_ context.Context, id string) (*entity.Outlet, error) {
	return p.s.outlets[id], nil
}

func (p outletPort) Exists(_ context.Context, id string) (bool, error) {
	_, ok := p.s.outlets[id]
	return ok, nil
}

type vendorPort struct{ s *memStore }

func (p vendorPort) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	return p.s.vendors[id], nil
}

// allocPort adapta memStore al puerto de asignaciones (GetForUpdate choca con
// el del saldo, así que se desambigua aquí).
type allocPort struct{ s *memStore }

func (p allocPort) GetForUpdate(ctx context.Context, lineID, vendorID string) (*entity.VendorAllocation, error) {
	return p.s.GetAllocForUpdate(ctx, lineID, vendorID)
}

func (p allocPort) Create(ctx context.Context, a *entity.VendorAllocation) error { return p.s.Create(ctx, a) }
func (p allocPort) Update(ctx context.Context, a *entity.VendorAllocation) error { return p.s.Update(ctx, a) }

func (p allocPort) ListForConsume(ctx context.Context, vendorID, itemID string) ([]*entity.VendorAllocation, error) {
	return p.s.ListForConsume(ctx, vendorID, itemID)
}

func (p allocPort) ListForRestore(ctx context.Context, vendorID, itemID string) ([]*entity.VendorAllocation, error) {
	return p.s.ListForRestore(ctx, vendorID, itemID)
}

func (p allocPort) ListByLineForUpdate(ctx context.Context, lineID string) ([]*entity.VendorAllocation, error) {
	return p.s.ListByLineForUpdate(ctx, lineID)
}

func (p allocPort) SumAllocatedByLine(ctx context.Context, lineID string) (int64, error) {
	return p.s.SumAllocatedByLine(ctx, lineID)
}

func (p allocPort) ConsumeGuarded(ctx context.Context, id string, qty int64) (bool, error) {
	return p.s.ConsumeGuarded(ctx, id, qty)
}

func (p allocPort) RestoreGuarded(ctx context.Context, id string, qty int64) (bool, error) {
	return p.s.RestoreGuarded(ctx, id, qty)
}

func (s *memStore) repos() allocation.Repos {
	return allocation.Repos{
		Balances:    s,
		Allocations: allocPort{s},
		Movements:   s,
		Purchases:   s,
		Sequences:   s,
		Items:       s,
		Outlets:     outletPort{s},
		Vendors:     vendorPort{s},
	}
}

// fakeTxRunner emula la atomicidad del runner real: toma un snapshot del
// estado antes del callback y lo restaura completo si fn falla.
type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repos allocation.Repos) error) error {
	snapshot := r.store.clone()
	if err := fn(r.store.repos()); err != nil {
		r.store.restore(snapshot)
		return err
	}
	return nil
}

// newTestEngine motor cableado sobre el almacén en memoria.
func newTestEngine() (*allocation.Engine, *memStore) {
	store := newMemStore()
	engine := allocation.NewEngine(
		&fakeTxRunner{store: store},
		store,
		outletPort{store},
		vendorPort{store},
		store,
		store,
	)
	return engine, store
}
