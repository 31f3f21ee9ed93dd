package repositories

import (
	"context"
	"sync"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/services"
)

// MemoryStore keeps the catalog and ledger in process memory behind a
// mutex. It backs tests and the demo mode; semantics match GormStore,
// including the conditional pool adjustment and all-or-nothing Transact.
type MemoryStore struct {
	mu       sync.Mutex
	products map[string]models.Product
	order    []string // insertion order, for stable reads
	stocks   map[models.Category]int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: map[string]models.Product{},
		stocks:   map[models.Category]int{},
	}
}

func (s *MemoryStore) ReadProducts(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readProducts(), nil
}

func (s *MemoryStore) ReadProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readProduct(id)
}

func (s *MemoryStore) WriteProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeProduct(p)
	return nil
}

func (s *MemoryStore) DeleteProductByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteProduct(id)
}

func (s *MemoryStore) ReadCategoryStock(_ context.Context, c models.Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stocks[c], nil
}

func (s *MemoryStore) WriteCategoryStock(_ context.Context, c models.Category, stock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[c] = stock
	return nil
}

func (s *MemoryStore) AdjustCategoryStock(_ context.Context, c models.Category, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustStock(c, delta)
}

func (s *MemoryStore) CommittedQuantity(_ context.Context, c models.Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committedQuantity(c), nil
}

// Transact serialises fn under the store lock and snapshots the state
// first; when fn fails the snapshot is restored, so partial writes never
// become visible.
func (s *MemoryStore) Transact(_ context.Context, fn func(tx services.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapProducts := make(map[string]models.Product, len(s.products))
	for id, p := range s.products {
		snapProducts[id] = p
	}
	snapOrder := append([]string(nil), s.order...)
	snapStocks := make(map[models.Category]int, len(s.stocks))
	for c, v := range s.stocks {
		snapStocks[c] = v
	}

	if err := fn(&memoryTx{s: s}); err != nil {
		s.products = snapProducts
		s.order = snapOrder
		s.stocks = snapStocks
		return err
	}
	return nil
}

// memoryTx is the transaction-scoped view; the caller already holds the
// store lock, so it delegates to the unlocked internals.
type memoryTx struct {
	s *MemoryStore
}

func (t *memoryTx) ReadProducts(_ context.Context) ([]models.Product, error) {
	return t.s.readProducts(), nil
}

func (t *memoryTx) ReadProduct(_ context.Context, id string) (*models.Product, error) {
	return t.s.readProduct(id)
}

func (t *memoryTx) WriteProduct(_ context.Context, p *models.Product) error {
	t.s.writeProduct(p)
	return nil
}

func (t *memoryTx) DeleteProductByID(_ context.Context, id string) error {
	return t.s.deleteProduct(id)
}

func (t *memoryTx) ReadCategoryStock(_ context.Context, c models.Category) (int, error) {
	return t.s.stocks[c], nil
}

func (t *memoryTx) WriteCategoryStock(_ context.Context, c models.Category, stock int) error {
	t.s.stocks[c] = stock
	return nil
}

func (t *memoryTx) AdjustCategoryStock(_ context.Context, c models.Category, delta int) error {
	return t.s.adjustStock(c, delta)
}

func (t *memoryTx) CommittedQuantity(_ context.Context, c models.Category) (int, error) {
	return t.s.committedQuantity(c), nil
}

func (t *memoryTx) Transact(_ context.Context, fn func(tx services.Store) error) error {
	// Already inside a transaction; run fn against the same view.
	return fn(t)
}

// unlocked internals, callers hold s.mu

func (s *MemoryStore) readProducts() []models.Product {
	out := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *MemoryStore) readProduct(id string) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, &models.NotFoundError{ID: id}
	}
	return &p, nil
}

func (s *MemoryStore) writeProduct(p *models.Product) {
	if _, exists := s.products[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.products[p.ID] = *p
}

func (s *MemoryStore) deleteProduct(id string) error {
	if _, ok := s.products[id]; !ok {
		return &models.NotFoundError{ID: id}
	}
	delete(s.products, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) adjustStock(c models.Category, delta int) error {
	next := s.stocks[c] + delta
	if next < 0 {
		return &models.InsufficientStockError{
			Category:  c,
			Requested: -delta,
			Available: s.stocks[c],
		}
	}
	s.stocks[c] = next
	return nil
}

func (s *MemoryStore) committedQuantity(c models.Category) int {
	total := 0
	for _, p := range s.products {
		if p.Category == c {
			total += p.Quantity
		}
	}
	return total
}
