package services

import (
	"context"

	"github.com/pecaforte/inventory/app/models"
)

// Store is the persistence collaborator the inventory service is built on.
// It is injected at construction time; the service holds no ambient
// reference to any backend.
//
// AdjustCategoryStock is the conditional, store-side ledger mutation: the
// backend applies "stock = stock + delta where stock + delta >= 0" as one
// atomic statement and returns InsufficientStockError when the condition
// does not hold. Check-then-act sequences on the client side are not enough
// under concurrent mutations of the same category.
//
// Transact runs fn against a store view whose writes commit together or not
// at all. Implementations pass a transaction-scoped Store into fn.
type Store interface {
	ReadProducts(ctx context.Context) ([]models.Product, error)
	ReadProduct(ctx context.Context, id string) (*models.Product, error)
	WriteProduct(ctx context.Context, p *models.Product) error
	DeleteProductByID(ctx context.Context, id string) error

	ReadCategoryStock(ctx context.Context, c models.Category) (int, error)
	WriteCategoryStock(ctx context.Context, c models.Category, stock int) error
	AdjustCategoryStock(ctx context.Context, c models.Category, delta int) error

	// CommittedQuantity returns the sum of product quantities in c.
	CommittedQuantity(ctx context.Context, c models.Category) (int, error)

	Transact(ctx context.Context, fn func(tx Store) error) error
}
