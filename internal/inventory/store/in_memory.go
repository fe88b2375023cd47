package store

import (
	"slices"
	"sync"

	"github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/shopspring/decimal"
)

// inMemory implements ProductStore using an id-keyed map plus the insertion order of ids.
type inMemory struct {
	mu            sync.RWMutex
	products      map[int]Product
	order         []int
	stockFloor    bool
}

// Option configures the in-memory store.
type Option func(*inMemory)

// WithSeed loads the given products into the store, keeping their ids and order.
// A repeated id overwrites the earlier record in place.
func WithSeed(products []Product) Option {
	return func(s *inMemory) {
		for _, p := range products {
			if _, exists := s.products[p.ID]; !exists {
				s.order = append(s.order, p.ID)
			}
			s.products[p.ID] = p
		}
	}
}

// WithStockFloor makes AdjustQuantity refuse results below zero.
// Without it quantities may go negative.
func WithStockFloor() Option {
	return func(s *inMemory) {
		s.stockFloor = true
	}
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore(opts ...Option) ProductStore {
	s := &inMemory{
		products: make(map[int]Product),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List retrieves all products in insertion order.
func (s *inMemory) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.products[id])
	}
	return list
}

// Get retrieves a product by its ID.
func (s *inMemory) Get(id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, errors.ErrProductNotFound
	}
	return p, nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(name string, quantity int, price float64) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:       s.nextID(),
		Name:     name,
		Quantity: quantity,
		Price:    price,
	}
	s.products[product.ID] = product
	s.order = append(s.order, product.ID)

	return product
}

// nextID returns max(existing ids) + 1, or 0 when the store is empty. Caller holds the lock.
func (s *inMemory) nextID() int {
	if len(s.order) == 0 {
		return 0
	}
	return slices.Max(s.order) + 1
}

// Replace overwrites every mutable field of a product.
func (s *inMemory) Replace(id int, name string, quantity int, price float64) (Product, error) {
	return s.update(id, func(p *Product) error {
		p.Name = name
		p.Quantity = quantity
		p.Price = price
		return nil
	})
}

// PatchPrice updates the price of a product.
func (s *inMemory) PatchPrice(id int, price float64) (Product, error) {
	return s.update(id, func(p *Product) error {
		p.Price = price
		return nil
	})
}

// AdjustQuantity adds delta to the quantity of a product.
func (s *inMemory) AdjustQuantity(id int, delta int) (Product, error) {
	return s.update(id, func(p *Product) error {
		if s.stockFloor && p.Quantity+delta < 0 {
			return errors.ErrInsufficientStock
		}
		p.Quantity += delta
		return nil
	})
}

// update applies fn to a copy of the product and stores the copy only if fn succeeds.
func (s *inMemory) update(id int, fn func(p *Product) error) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, errors.ErrProductNotFound
	}
	if err := fn(&p); err != nil {
		return Product{}, err
	}
	s.products[id] = p
	return p, nil
}

// Delete deletes a product by its ID.
func (s *inMemory) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return errors.ErrProductNotFound
	}
	delete(s.products, id)
	s.order = slices.DeleteFunc(s.order, func(v int) bool { return v == id })
	return nil
}

// TotalQuantity sums the quantity of every product.
func (s *inMemory) TotalQuantity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, p := range s.products {
		total += p.Quantity
	}
	return total
}

// QuantityOf returns the quantity of a product.
func (s *inMemory) QuantityOf(id int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return 0, errors.ErrProductNotFound
	}
	return p.Quantity, nil
}

// QuantityExtremes returns the smallest and largest quantity in the store.
func (s *inMemory) QuantityExtremes() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return 0, 0, errors.ErrEmptyInventory
	}
	first := s.products[s.order[0]]
	minQty, maxQty := first.Quantity, first.Quantity
	for _, p := range s.products {
		minQty = min(minQty, p.Quantity)
		maxQty = max(maxQty, p.Quantity)
	}
	return minQty, maxQty, nil
}

// TotalInventoryValue sums quantity * price in decimal arithmetic.
func (s *inMemory) TotalInventoryValue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, p := range s.products {
		line := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Quantity)))
		total = total.Add(line)
	}
	return total.InexactFloat64()
}
