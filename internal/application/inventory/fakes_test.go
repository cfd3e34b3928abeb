package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/repository"
)

// memStore base en memoria con semántica de transacción: las escrituras se acumulan y se
// aplican juntas al confirmar; GetForUpdate bloquea la fila hasta el fin de la transacción.
type memStore struct {
	mu        sync.Mutex
	stocks    map[string]entity.Stock
	movements []entity.StockMovement
	refs      map[string]struct{}
	rowLocks  map[string]*sync.Mutex
	products  map[string]*entity.Product
	branches  map[string]*entity.Branch
	users     map[string]string

	// failMovement se devuelve desde StockMovementRepository.Create si no es nil.
	failMovement error
	commits      int
}

func newMemStore() *memStore {
	return &memStore{
		stocks:   map[string]entity.Stock{},
		refs:     map[string]struct{}{},
		rowLocks: map[string]*sync.Mutex{},
		products: map[string]*entity.Product{},
		branches: map[string]*entity.Branch{},
		users:    map[string]string{},
	}
}

func (s *memStore) addBranch(id, name string) {
	s.branches[id] = &entity.Branch{ID: id, Name: name, IsActive: true}
}

func (s *memStore) addProduct(id, code, name string, price int64) {
	s.products[id] = &entity.Product{ID: id, Code: code, Name: name, Price: decimal.NewFromInt(price), IsActive: true}
}

func (s *memStore) addStock(id, productID, branchID string, qty, minimum int) {
	s.stocks[id] = entity.Stock{ID: id, ProductID: productID, BranchID: branchID, Quantity: qty, MinimumStock: minimum}
}

func (s *memStore) stock(id string) entity.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stocks[id]
}

func (s *memStore) movementList() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, len(s.movements))
	copy(out, s.movements)
	return out
}

func (s *memStore) rowLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[id] = l
	}
	return l
}

// ── TxRunner ────────────────────────────────────────────────────────────────

type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(repository.StockRepository, repository.StockMovementRepository) error) error {
	tx := &memTx{store: r.store, staged: map[string]entity.Stock{}}
	defer tx.release()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(&memStockRepo{tx: tx}, &memMovementRepo{tx: tx}); err != nil {
		return err
	}
	return tx.commit()
}

type memTx struct {
	store     *memStore
	staged    map[string]entity.Stock
	created   []string
	movements []entity.StockMovement
	locked    []*sync.Mutex
}

func (tx *memTx) release() {
	for i := len(tx.locked) - 1; i >= 0; i-- {
		tx.locked[i].Unlock()
	}
	tx.locked = nil
}

func (tx *memTx) lookup(id string) (entity.Stock, bool) {
	if st, ok := tx.staged[id]; ok {
		return st, true
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	st, ok := tx.store.stocks[id]
	return st, ok
}

func (tx *memTx) commit() error {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range tx.created {
		st := tx.staged[id]
		for _, other := range s.stocks {
			if other.ProductID == st.ProductID && other.BranchID == st.BranchID {
				return domain.ErrDuplicateStock
			}
		}
	}
	for _, m := range tx.movements {
		if _, dup := s.refs[m.ReferenceNumber]; dup {
			return domain.ErrReferenceCollision
		}
	}
	for id, st := range tx.staged {
		s.stocks[id] = st
	}
	for _, m := range tx.movements {
		s.refs[m.ReferenceNumber] = struct{}{}
		s.movements = append(s.movements, m)
	}
	s.commits++
	return nil
}

type memStockRepo struct {
	tx *memTx
}

func (r *memStockRepo) GetByID(_ context.Context, id string) (*entity.Stock, error) {
	st, ok := r.tx.lookup(id)
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *memStockRepo) GetByProductAndBranch(_ context.Context, productID, branchID string) (*entity.Stock, error) {
	for _, st := range r.tx.staged {
		if st.ProductID == productID && st.BranchID == branchID {
			st := st
			return &st, nil
		}
	}
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stocks {
		if st.ProductID == productID && st.BranchID == branchID {
			st := st
			return &st, nil
		}
	}
	return nil, nil
}

func (r *memStockRepo) GetForUpdate(ctx context.Context, id string) (*entity.Stock, error) {
	l := r.tx.store.rowLock(id)
	l.Lock()
	r.tx.locked = append(r.tx.locked, l)
	return r.GetByID(ctx, id)
}

func (r *memStockRepo) Create(ctx context.Context, st *entity.Stock) error {
	existing, _ := r.GetByProductAndBranch(ctx, st.ProductID, st.BranchID)
	if existing != nil {
		return domain.ErrDuplicateStock
	}
	r.tx.staged[st.ID] = *st
	r.tx.created = append(r.tx.created, st.ID)
	return nil
}

func (r *memStockRepo) UpdateQuantity(_ context.Context, st *entity.Stock) error {
	cur, ok := r.tx.lookup(st.ID)
	if !ok {
		return domain.ErrNotFound
	}
	cur.Quantity = st.Quantity
	cur.UpdatedAt = st.UpdatedAt
	r.tx.staged[st.ID] = cur
	return nil
}

type memMovementRepo struct {
	tx *memTx
}

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	s := r.tx.store
	s.mu.Lock()
	fail := s.failMovement
	_, dup := s.refs[m.ReferenceNumber]
	s.mu.Unlock()
	if fail != nil {
		return fail
	}
	if dup {
		return domain.ErrReferenceCollision
	}
	for _, staged := range r.tx.movements {
		if staged.ReferenceNumber == m.ReferenceNumber {
			return domain.ErrReferenceCollision
		}
	}
	r.tx.movements = append(r.tx.movements, *m)
	return nil
}

// ── Repositorios de lectura ─────────────────────────────────────────────────

type memProducts struct{ store *memStore }

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.store.products[id], nil
}

type memBranches struct{ store *memStore }

func (r memBranches) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	return r.store.branches[id], nil
}

// memStocks lectura sin transacción (fuera del ledger).
type memStocks struct {
	memStockRepo
}

func newMemStocks(s *memStore) *memStocks {
	return &memStocks{memStockRepo{tx: &memTx{store: s, staged: map[string]entity.Stock{}}}}
}

type memQuery struct{ store *memStore }

func (q memQuery) snapshot(st entity.Stock) entity.StockSnapshot {
	snap := entity.StockSnapshot{
		ID:           st.ID,
		ProductID:    st.ProductID,
		BranchID:     st.BranchID,
		Quantity:     st.Quantity,
		MinimumStock: st.MinimumStock,
		UpdatedAt:    st.UpdatedAt,
	}
	if p := q.store.products[st.ProductID]; p != nil {
		snap.ProductName, snap.ProductCode, snap.Price = p.Name, p.Code, p.Price
	}
	if b := q.store.branches[st.BranchID]; b != nil {
		snap.BranchName = b.Name
	}
	return snap
}

func (q memQuery) GetSnapshot(_ context.Context, id string) (*entity.StockSnapshot, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	st, ok := q.store.stocks[id]
	if !ok {
		return nil, nil
	}
	snap := q.snapshot(st)
	return &snap, nil
}

func (q memQuery) ListSnapshots(_ context.Context, f repository.StockListFilter) ([]entity.StockSnapshot, int, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	var all []entity.StockSnapshot
	for _, st := range q.store.stocks {
		snap := q.snapshot(st)
		if f.BranchID != "" && snap.BranchID != f.BranchID {
			continue
		}
		if f.LowStockOnly && !snap.IsLow() {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(snap.ProductName), needle) &&
				!strings.Contains(strings.ToLower(snap.ProductCode), needle) {
				continue
			}
		}
		all = append(all, snap)
	}
	sort.Slice(all, func(i, j int) bool {
		switch f.Sort {
		case repository.StockSortQuantityDesc:
			return all[i].Quantity > all[j].Quantity
		case repository.StockSortProductName:
			return all[i].ProductName < all[j].ProductName
		default:
			if all[i].Quantity == all[j].Quantity {
				return all[i].ID < all[j].ID
			}
			return all[i].Quantity < all[j].Quantity
		}
	})
	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return all[f.Offset:end], total, nil
}

func (q memQuery) ListMovements(_ context.Context, f repository.MovementHistoryFilter) ([]entity.MovementRecord, int, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	var out []entity.MovementRecord
	for i := len(q.store.movements) - 1; i >= 0; i-- {
		m := q.store.movements[i]
		if m.ProductID != f.ProductID || m.BranchID() != f.BranchID {
			continue
		}
		rec := entity.MovementRecord{
			ID:              m.ID,
			ReferenceNumber: m.ReferenceNumber,
			Type:            m.Type,
			Quantity:        m.Quantity,
			Notes:           m.Notes,
			CreatedByName:   q.store.users[m.CreatedBy],
			CreatedAt:       m.CreatedAt,
		}
		if m.FromBranchID != nil {
			name := q.store.branches[*m.FromBranchID].Name
			rec.FromBranchName = &name
		}
		if m.ToBranchID != nil {
			name := q.store.branches[*m.ToBranchID].Name
			rec.ToBranchName = &name
		}
		out = append(out, rec)
	}
	total := len(out)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return out[f.Offset:end], total, nil
}

// ── Referencias ─────────────────────────────────────────────────────────────

// scriptedRefs devuelve los números en orden y luego números secuenciales.
type scriptedRefs struct {
	mu     sync.Mutex
	script []string
	n      int
	calls  int
}

func (r *scriptedRefs) Next() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.script) > 0 {
		ref := r.script[0]
		r.script = r.script[1:]
		return ref, nil
	}
	r.n++
	return fmt.Sprintf("MOV-20260314-SEQ%03d", r.n), nil
}

func (r *scriptedRefs) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
