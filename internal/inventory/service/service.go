// Package service provides the implementation of inventory business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"

	perrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/abgdnv/inventory/internal/inventory/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ProductService defines the methods for managing products and reading stock aggregates.
type ProductService interface {
	// FindAll returns all products in insertion order.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int) (*ProductDto, error)

	// Create adds a new product to the inventory.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Replace overwrites an existing product's details.
	// Returns ErrProductNotFound if no product exists with the given ID
	// and ErrIDMismatch if the body carries a different id.
	Replace(ctx context.Context, id int, product ProductReplaceDto) (*ProductDto, error)

	// UpdatePrice changes only the price of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	UpdatePrice(ctx context.Context, id int, price float64) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int) error

	// Sell decreases the stock of a product.
	// Quantities may go negative unless the store enforces a stock floor,
	// in which case ErrInsufficientStock is returned.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Sell(ctx context.Context, id int, quantity int) (*ProductDto, error)

	// Purchase increases the stock of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Purchase(ctx context.Context, id int, quantity int) (*ProductDto, error)

	// TotalQuantity returns the number of units across the whole inventory.
	TotalQuantity(ctx context.Context) (int, error)

	// QuantityOf returns the number of units of one product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	QuantityOf(ctx context.Context, id int) (int, error)

	// StockExtremes returns the lowest and highest stock level.
	// Returns ErrEmptyInventory if there are no products.
	StockExtremes(ctx context.Context) (*StockExtremesDto, error)

	// TotalValue returns the value of the inventory (sum of quantity * price).
	TotalValue(ctx context.Context) (float64, error)
}

// Service implements ProductService on top of a ProductStore.
type Service struct {
	repository      store.ProductStore
	createdCounter  metric.Int64Counter
	soldCounter     metric.Int64Counter
	purchaseCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository.
// Counters are registered on the global meter provider.
func NewService(repo store.ProductStore) *Service {
	meter := otel.Meter("inventory-service")
	return &Service{
		repository:      repo,
		createdCounter:  mustCounter(meter, "products_created", "Total number of created products"),
		soldCounter:     mustCounter(meter, "stock_units_sold", "Total number of units sold"),
		purchaseCounter: mustCounter(meter, "stock_units_purchased", "Total number of units purchased"),
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Pointer fields tell a missing field apart from a zero value.
type ProductCreateDto struct {
	Name     *string  `json:"name"     validate:"required,min=1,max=100"`
	Quantity *int     `json:"quantity" validate:"required,min=0"`
	Price    *float64 `json:"price"    validate:"required,min=0"`
}

// ProductReplaceDto represents the data transfer object for replacing a product.
// ID is optional; when present it must equal the id in the path.
type ProductReplaceDto struct {
	ID       *int     `json:"id"       validate:"omitempty,min=0"`
	Name     *string  `json:"name"     validate:"required,min=1,max=100"`
	Quantity *int     `json:"quantity" validate:"required,min=0"`
	Price    *float64 `json:"price"    validate:"required,min=0"`
}

// PriceUpdateDto represents the data transfer object for a partial price update.
type PriceUpdateDto struct {
	Price *float64 `json:"price" validate:"required,min=0"`
}

// StockAdjustDto represents the data transfer object for a sale or a purchase.
type StockAdjustDto struct {
	Quantity *int `json:"quantity" validate:"required,min=1"`
}

// StockExtremesDto holds the lowest and highest stock level.
type StockExtremesDto struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FindAll retrieves all products as ProductDTOs.
func (s *Service) FindAll(_ context.Context) ([]ProductDto, error) {
	products := s.repository.List()
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(item)
	}

	return productDTOs, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(_ context.Context, id int) (*ProductDto, error) {
	product, err := s.repository.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	return toDto(product), nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	p := s.repository.Create(*product.Name, *product.Quantity, *product.Price)
	slog.DebugContext(ctx, "product stored", "ID", p.ID)
	s.createdCounter.Add(ctx, 1)

	return toDto(p), nil
}

// Replace overwrites a product's details and returns the result as a ProductDto.
func (s *Service) Replace(_ context.Context, id int, product ProductReplaceDto) (*ProductDto, error) {
	if product.ID != nil && *product.ID != id {
		return nil, fmt.Errorf("failed to replace product with ID %d: %w", id, perrors.ErrIDMismatch)
	}
	updated, err := s.repository.Replace(id, *product.Name, *product.Quantity, *product.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to replace product with ID %d: %w", id, err)
	}

	return toDto(updated), nil
}

// UpdatePrice changes the price of a product and returns the result as a ProductDto.
func (s *Service) UpdatePrice(_ context.Context, id int, price float64) (*ProductDto, error) {
	updated, err := s.repository.PatchPrice(id, price)
	if err != nil {
		return nil, fmt.Errorf("failed to update price for product with ID %d: %w", id, err)
	}

	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(_ context.Context, id int) error {
	if err := s.repository.Delete(id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return nil
}

// Sell removes quantity units from the stock of a product.
func (s *Service) Sell(ctx context.Context, id int, quantity int) (*ProductDto, error) {
	updated, err := s.repository.AdjustQuantity(id, -quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to register sale for product with ID %d: %w", id, err)
	}
	s.soldCounter.Add(ctx, int64(quantity), metric.WithAttributes(attribute.String("product", updated.Name)))

	return toDto(updated), nil
}

// Purchase adds quantity units to the stock of a product.
func (s *Service) Purchase(ctx context.Context, id int, quantity int) (*ProductDto, error) {
	updated, err := s.repository.AdjustQuantity(id, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to register purchase for product with ID %d: %w", id, err)
	}
	s.purchaseCounter.Add(ctx, int64(quantity), metric.WithAttributes(attribute.String("product", updated.Name)))

	return toDto(updated), nil
}

// TotalQuantity returns the number of units in stock.
func (s *Service) TotalQuantity(_ context.Context) (int, error) {
	return s.repository.TotalQuantity(), nil
}

// QuantityOf returns the number of units in stock for one product.
func (s *Service) QuantityOf(_ context.Context, id int) (int, error) {
	qty, err := s.repository.QuantityOf(id)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch quantity for product with ID %d: %w", id, err)
	}
	return qty, nil
}

// StockExtremes returns the lowest and highest stock level.
func (s *Service) StockExtremes(_ context.Context) (*StockExtremesDto, error) {
	minQty, maxQty, err := s.repository.QuantityExtremes()
	if err != nil {
		return nil, fmt.Errorf("failed to compute stock extremes: %w", err)
	}
	return &StockExtremesDto{Min: minQty, Max: maxQty}, nil
}

// TotalValue returns the total value of the inventory.
func (s *Service) TotalValue(_ context.Context) (float64, error) {
	return s.repository.TotalInventoryValue(), nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product store.Product) *ProductDto {
	return &ProductDto{
		ID:       product.ID,
		Name:     product.Name,
		Quantity: product.Quantity,
		Price:    product.Price,
	}
}
