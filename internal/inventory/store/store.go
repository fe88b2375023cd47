// Package store provides an interface for product storage operations.
package store

// Product represents a product entity in the store.
type Product struct {
	ID       int
	Name     string
	Quantity int
	Price    float64
}

// ProductStore is an interface for product storage operations.
// Implementations own their records: every returned Product is a copy.
type ProductStore interface {
	// List returns all products in insertion order.
	// Returns an empty slice if no products exist.
	List() []Product

	// Get retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Get(id int) (Product, error)

	// Create adds a new product with id = max(existing ids) + 1, or 0 for an empty store.
	Create(name string, quantity int, price float64) Product

	// Replace overwrites name, quantity and price of an existing product. The id is kept.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Replace(id int, name string, quantity int, price float64) (Product, error)

	// PatchPrice updates only the price of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	PatchPrice(id int, price float64) (Product, error)

	// Delete removes the product whose id equals the given ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Delete(id int) error

	// AdjustQuantity adds delta to the product quantity; negative delta is a sale.
	// Returns ErrProductNotFound if no product exists with the given ID and
	// ErrInsufficientStock if the result would drop below zero and the store enforces a stock floor.
	AdjustQuantity(id int, delta int) (Product, error)

	// TotalQuantity returns the sum of quantities over all products.
	TotalQuantity() int

	// QuantityOf returns the quantity of a single product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	QuantityOf(id int) (int, error)

	// QuantityExtremes returns the minimum and maximum quantity over all products.
	// Returns ErrEmptyInventory if the store has no products.
	QuantityExtremes() (minQty int, maxQty int, err error)

	// TotalInventoryValue returns the sum of quantity * price over all products.
	TotalInventoryValue() float64
}
