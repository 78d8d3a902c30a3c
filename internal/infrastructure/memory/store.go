// Package memory implementa el backend de persistencia en memoria.
// Ofrece la misma semántica transaccional que el backend PostgreSQL mediante
// snapshot-y-restauración: si el callback del lote falla, el estado completo
// vuelve al punto de partida. Lo usan los tests y sirve como backend liviano
// de desarrollo sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

type rowKey struct {
	productID string
	sizeID    string
}

// state es el estado completo del store; clonable para rollback.
type state struct {
	stocks      map[rowKey]entity.StockRecord
	history     []entity.HistoryEntry
	seq         int64
	sales       map[string]entity.Sale
	saleItems   map[string][]entity.SaleItem
	orders      map[string]entity.Order
	orderItems  map[string][]entity.OrderItem
	adjustments map[string]entity.Adjustment
	adjEntries  map[string][]entity.AdjustmentEntry
}

func newState() *state {
	return &state{
		stocks:      make(map[rowKey]entity.StockRecord),
		sales:       make(map[string]entity.Sale),
		saleItems:   make(map[string][]entity.SaleItem),
		orders:      make(map[string]entity.Order),
		orderItems:  make(map[string][]entity.OrderItem),
		adjustments: make(map[string]entity.Adjustment),
		adjEntries:  make(map[string][]entity.AdjustmentEntry),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	c.history = append(c.history, s.history...)
	c.seq = s.seq
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = append([]entity.SaleItem(nil), v...)
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = append([]entity.OrderItem(nil), v...)
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = v
	}
	for k, v := range s.adjEntries {
		c.adjEntries[k] = append([]entity.AdjustmentEntry(nil), v...)
	}
	return c
}

// Store backend en memoria. Implementa ledger.TxRunner y expone repositorios
// sueltos para lecturas fuera de lote (snapshot reads).
type Store struct {
	mu sync.Mutex
	st *state
}

var _ ledger.TxRunner = (*Store)(nil)

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repos atados al store bajo el lock global. Si fn falla,
// restaura el snapshot previo: ninguna escritura del lote sobrevive.
func (s *Store) Run(ctx context.Context, fn func(r ledger.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.st.clone()
	repos := ledger.Repos{
		Stock:       &stockRepo{s: s, inTx: true},
		History:     &historyRepo{s: s, inTx: true},
		Sales:       &saleRepo{s: s, inTx: true},
		Orders:      &orderRepo{s: s, inTx: true},
		Adjustments: &adjustmentRepo{s: s, inTx: true},
	}
	if err := fn(repos); err != nil {
		s.st = backup
		return err
	}
	return nil
}

// Stock devuelve un repositorio de stock para lecturas fuera de lote.
func (s *Store) Stock() repository.StockRepository { return &stockRepo{s: s} }

// History devuelve un repositorio de historial para lecturas fuera de lote.
func (s *Store) History() repository.HistoryRepository { return &historyRepo{s: s} }

// Sales devuelve un repositorio de ventas.
func (s *Store) Sales() repository.SaleRepository { return &saleRepo{s: s} }

// Orders devuelve un repositorio de órdenes.
func (s *Store) Orders() repository.OrderRepository { return &orderRepo{s: s} }

// Adjustments devuelve un repositorio de ajustes.
func (s *Store) Adjustments() repository.AdjustmentRepository { return &adjustmentRepo{s: s} }

// lock toma el lock global salvo que el repo ya corra dentro de Run.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ── StockRepository ───────────────────────────────────────────────────────────

type stockRepo struct {
	s    *Store
	inTx bool
}

var _ repository.StockRepository = (*stockRepo)(nil)

func (r *stockRepo) Get(ctx context.Context, productID, sizeID string) (*entity.StockRecord, error) {
	defer r.s.lock(r.inTx)()
	if rec, ok := r.s.st.stocks[rowKey{productID, sizeID}]; ok {
		out := rec
		return &out, nil
	}
	return &entity.StockRecord{ProductID: productID, SizeID: sizeID, Quantity: 0}, nil
}

func (r *stockRepo) Upsert(ctx context.Context, record *entity.StockRecord) error {
	defer r.s.lock(r.inTx)()
	r.s.st.stocks[rowKey{record.ProductID, record.SizeID}] = *record
	return nil
}

func (r *stockRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockRecord, error) {
	defer r.s.lock(r.inTx)()
	all := make([]*entity.StockRecord, 0, len(r.s.st.stocks))
	for _, rec := range r.s.st.stocks {
		out := rec
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ProductID != all[j].ProductID {
			return all[i].ProductID < all[j].ProductID
		}
		return all[i].SizeID < all[j].SizeID
	})
	return paginate(all, limit, offset), nil
}

func (r *stockRepo) ListBelowThreshold(ctx context.Context, threshold int64) ([]*entity.StockRecord, error) {
	defer r.s.lock(r.inTx)()
	var below []*entity.StockRecord
	for _, rec := range r.s.st.stocks {
		if rec.Quantity < threshold {
			out := rec
			below = append(below, &out)
		}
	}
	sort.Slice(below, func(i, j int) bool {
		if below[i].Quantity != below[j].Quantity {
			return below[i].Quantity < below[j].Quantity
		}
		if below[i].ProductID != below[j].ProductID {
			return below[i].ProductID < below[j].ProductID
		}
		return below[i].SizeID < below[j].SizeID
	})
	return below, nil
}

// ── HistoryRepository ─────────────────────────────────────────────────────────

type historyRepo struct {
	s    *Store
	inTx bool
}

var _ repository.HistoryRepository = (*historyRepo)(nil)

func (r *historyRepo) Create(ctx context.Context, entry *entity.HistoryEntry) error {
	defer r.s.lock(r.inTx)()
	r.s.st.seq++
	entry.Seq = r.s.st.seq
	r.s.st.history = append(r.s.st.history, *entry)
	return nil
}

func (r *historyRepo) ListByProductSize(ctx context.Context, productID, sizeID string, limit, offset int) ([]*entity.HistoryEntry, error) {
	defer r.s.lock(r.inTx)()
	var entries []*entity.HistoryEntry
	for i := range r.s.st.history {
		e := r.s.st.history[i]
		if e.ProductID == productID && e.SizeID == sizeID {
			entries = append(entries, &e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].RecordedAt.Equal(entries[j].RecordedAt) {
			return entries[i].RecordedAt.Before(entries[j].RecordedAt)
		}
		return entries[i].Seq < entries[j].Seq
	})
	if limit <= 0 {
		return entries, nil
	}
	return paginate(entries, limit, offset), nil
}

func (r *historyRepo) ListPeriod(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.HistoryEntry, error) {
	defer r.s.lock(r.inTx)()
	var entries []*entity.HistoryEntry
	for i := range r.s.st.history {
		e := r.s.st.history[i]
		if !e.RecordedAt.Before(from) && !e.RecordedAt.After(to) {
			entries = append(entries, &e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].RecordedAt.Equal(entries[j].RecordedAt) {
			return entries[i].RecordedAt.After(entries[j].RecordedAt)
		}
		return entries[i].Seq > entries[j].Seq
	})
	return paginate(entries, limit, offset), nil
}

func (r *historyRepo) SumDeltasUntil(ctx context.Context, productID, sizeID string, until time.Time) (int64, error) {
	defer r.s.lock(r.inTx)()
	var total int64
	for _, e := range r.s.st.history {
		if e.ProductID == productID && e.SizeID == sizeID && !e.RecordedAt.After(until) {
			total += e.Delta
		}
	}
	return total, nil
}

func (r *historyRepo) SumByReason(ctx context.Context, from, to time.Time) ([]repository.ReasonTotal, error) {
	defer r.s.lock(r.inTx)()
	byReason := make(map[string]*repository.ReasonTotal)
	batches := make(map[string]map[string]bool)
	for _, e := range r.s.st.history {
		if e.RecordedAt.Before(from) || e.RecordedAt.After(to) {
			continue
		}
		t, ok := byReason[e.Reason]
		if !ok {
			t = &repository.ReasonTotal{Reason: e.Reason}
			byReason[e.Reason] = t
			batches[e.Reason] = make(map[string]bool)
		}
		units := e.Delta
		if units < 0 {
			units = -units
		}
		t.Units += units
		t.Entries++
		batches[e.Reason][e.BatchID] = true
	}
	var totals []repository.ReasonTotal
	for reason, t := range byReason {
		t.Batches = int64(len(batches[reason]))
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Reason < totals[j].Reason })
	return totals, nil
}

// ── SaleRepository ────────────────────────────────────────────────────────────

type saleRepo struct {
	s    *Store
	inTx bool
}

var _ repository.SaleRepository = (*saleRepo)(nil)

func (r *saleRepo) Create(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem) error {
	defer r.s.lock(r.inTx)()
	for _, existing := range r.s.st.sales {
		if existing.InvoiceNumber == sale.InvoiceNumber {
			return domain.ErrInvalidInput
		}
	}
	r.s.st.sales[sale.ID] = *sale
	copied := make([]entity.SaleItem, len(items))
	for i, it := range items {
		copied[i] = *it
	}
	r.s.st.saleItems[sale.ID] = copied
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, []*entity.SaleItem, error) {
	defer r.s.lock(r.inTx)()
	sale, ok := r.s.st.sales[id]
	if !ok {
		return nil, nil, nil
	}
	out := sale
	var items []*entity.SaleItem
	for i := range r.s.st.saleItems[id] {
		it := r.s.st.saleItems[id][i]
		items = append(items, &it)
	}
	return &out, items, nil
}

func (r *saleRepo) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.Sale
	for _, sale := range r.s.st.sales {
		if from != nil && sale.Date.Before(*from) {
			continue
		}
		if to != nil && sale.Date.After(*to) {
			continue
		}
		out := sale
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

// ── OrderRepository ───────────────────────────────────────────────────────────

type orderRepo struct {
	s    *Store
	inTx bool
}

var _ repository.OrderRepository = (*orderRepo)(nil)

func (r *orderRepo) Create(ctx context.Context, order *entity.Order) error {
	defer r.s.lock(r.inTx)()
	stored := *order
	stored.Items = nil
	r.s.st.orders[order.ID] = stored
	copied := make([]entity.OrderItem, len(order.Items))
	for i, it := range order.Items {
		copied[i] = *it
	}
	r.s.st.orderItems[order.ID] = copied
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	order, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	out := order
	for i := range r.s.st.orderItems[id] {
		it := r.s.st.orderItems[id][i]
		out.Items = append(out.Items, &it)
	}
	return &out, nil
}

func (r *orderRepo) List(ctx context.Context, status string, from, to *time.Time, limit, offset int) ([]*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.Order
	for _, order := range r.s.st.orders {
		if status != "" && order.Status != status {
			continue
		}
		if from != nil && order.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && order.CreatedAt.After(*to) {
			continue
		}
		out := order
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string, arrival *time.Time) (bool, error) {
	defer r.s.lock(r.inTx)()
	order, ok := r.s.st.orders[id]
	if !ok || order.Status != fromStatus {
		return false, nil
	}
	order.Status = toStatus
	if arrival != nil {
		order.ArrivalDate = arrival
	}
	r.s.st.orders[id] = order
	return true, nil
}

func (r *orderRepo) ReplaceItems(ctx context.Context, orderID string, items []*entity.OrderItem) (bool, error) {
	defer r.s.lock(r.inTx)()
	order, ok := r.s.st.orders[orderID]
	if !ok || order.Status != entity.OrderStatusPending {
		return false, nil
	}
	copied := make([]entity.OrderItem, len(items))
	total := decimal.Zero
	for i, it := range items {
		copied[i] = *it
		total = total.Add(it.Subtotal)
	}
	order.TotalCost = total
	r.s.st.orders[orderID] = order
	r.s.st.orderItems[orderID] = copied
	return true, nil
}

// ── AdjustmentRepository ──────────────────────────────────────────────────────

type adjustmentRepo struct {
	s    *Store
	inTx bool
}

var _ repository.AdjustmentRepository = (*adjustmentRepo)(nil)

func (r *adjustmentRepo) Create(ctx context.Context, adjustment *entity.Adjustment) error {
	defer r.s.lock(r.inTx)()
	stored := *adjustment
	stored.Entries = nil
	r.s.st.adjustments[adjustment.ID] = stored
	copied := make([]entity.AdjustmentEntry, len(adjustment.Entries))
	for i, e := range adjustment.Entries {
		copied[i] = *e
	}
	r.s.st.adjEntries[adjustment.ID] = copied
	return nil
}

func (r *adjustmentRepo) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	defer r.s.lock(r.inTx)()
	adj, ok := r.s.st.adjustments[id]
	if !ok {
		return nil, nil
	}
	out := adj
	for i := range r.s.st.adjEntries[id] {
		e := r.s.st.adjEntries[id][i]
		out.Entries = append(out.Entries, &e)
	}
	return &out, nil
}

func (r *adjustmentRepo) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Adjustment, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.Adjustment
	for _, adj := range r.s.st.adjustments {
		if from != nil && adj.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && adj.CreatedAt.After(*to) {
			continue
		}
		out := adj
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
