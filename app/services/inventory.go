// Package services holds the inventory core: the coordination logic that
// keeps the product catalog and the per-category stock ledger consistent
// under every mutation.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/pkg/cache"
	"github.com/pecaforte/inventory/pkg/event"
	"github.com/pecaforte/inventory/pkg/logger"
	"github.com/pecaforte/inventory/pkg/metrics"
)

// EventMovement is fired after every successful inventory mutation. The
// payload is a StockMovement.
const EventMovement = "inventory.movement"

const (
	cacheKeyCatalog = "catalog"
	cacheKeyLedger  = "ledger"
	cacheTTL        = 30 * time.Second
)

// StockMovement describes one committed mutation: what changed, by how
// much, and the category pool level after the change.
type StockMovement struct {
	Operation string          `json:"operation"` // add|update|delete|set_stock
	Category  models.Category `json:"category"`
	ProductID string          `json:"product_id,omitempty"`
	Delta     int             `json:"delta"` // applied to the pool; negative consumes
	Stock     int             `json:"stock"` // pool level after the operation
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Category string               `json:"category"`
	Fields   models.ProductFields `json:"fields"`
	Quantity int                  `json:"quantity"`
}

// Inventory coordinates the catalog and the ledger. Both entity types are
// mutated only through it; the injected Store is the system of record.
type Inventory struct {
	store Store
}

// NewInventory builds the service around the given persistence collaborator.
func NewInventory(store Store) *Inventory {
	return &Inventory{store: store}
}

// AddProduct creates a product and reserves its quantity from the category
// pool. The insert and the pool decrement commit together; when the pool
// cannot cover the quantity nothing is written and InsufficientStockError
// reports the shortfall.
func (s *Inventory) AddProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	cat, err := s.validateInput(in, "")
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:        uuid.NewString(),
		Category:  cat,
		Fields:    in.Fields,
		Quantity:  in.Quantity,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.Transact(ctx, func(tx Store) error {
		if err := tx.WriteProduct(ctx, p); err != nil {
			return err
		}
		return tx.AdjustCategoryStock(ctx, cat, -in.Quantity)
	})
	if err != nil {
		s.recordFailure("add", err)
		return nil, wrapStore("add product", err)
	}

	s.committed(ctx, StockMovement{
		Operation: "add",
		Category:  cat,
		ProductID: p.ID,
		Delta:     -in.Quantity,
	})
	return p, nil
}

// UpdateProduct applies a patch to an existing product. A quantity change
// adjusts the pool by the delta; growing the product consumes more stock,
// shrinking it credits stock back. The category is immutable.
func (s *Inventory) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	p, err := s.store.ReadProduct(ctx, id)
	if err != nil {
		return nil, wrapStore("update product", err)
	}

	if _, err := s.validateInput(in, p.Category); err != nil {
		return nil, err
	}

	delta := in.Quantity - p.Quantity
	p.Fields = in.Fields
	p.Quantity = in.Quantity
	p.UpdatedAt = time.Now().UTC()

	err = s.store.Transact(ctx, func(tx Store) error {
		if err := tx.WriteProduct(ctx, p); err != nil {
			return err
		}
		return tx.AdjustCategoryStock(ctx, p.Category, -delta)
	})
	if err != nil {
		s.recordFailure("update", err)
		return nil, wrapStore("update product", err)
	}

	s.committed(ctx, StockMovement{
		Operation: "update",
		Category:  p.Category,
		ProductID: p.ID,
		Delta:     -delta,
	})
	return p, nil
}

// DeleteProduct removes a product and credits its quantity back to the
// category pool, in one transaction.
func (s *Inventory) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.store.ReadProduct(ctx, id)
	if err != nil {
		return wrapStore("delete product", err)
	}

	err = s.store.Transact(ctx, func(tx Store) error {
		if err := tx.DeleteProductByID(ctx, id); err != nil {
			return err
		}
		return tx.AdjustCategoryStock(ctx, p.Category, p.Quantity)
	})
	if err != nil {
		s.recordFailure("delete", err)
		return wrapStore("delete product", err)
	}

	s.committed(ctx, StockMovement{
		Operation: "delete",
		Category:  p.Category,
		ProductID: p.ID,
		Delta:     p.Quantity,
	})
	return nil
}

// SetCategoryStock overwrites the remaining pool for a category. The new
// value must be non-negative and must not fall below the quantity already
// committed to products in that category.
func (s *Inventory) SetCategoryStock(ctx context.Context, category string, newStock int) error {
	cat, err := models.ParseCategory(category)
	if err != nil {
		return models.NewValidationError("category", err.Error())
	}
	if newStock < 0 {
		return models.NewValidationError("stock", "stock cannot be negative")
	}

	err = s.store.Transact(ctx, func(tx Store) error {
		committed, err := tx.CommittedQuantity(ctx, cat)
		if err != nil {
			return err
		}
		if newStock < committed {
			return models.NewValidationError("stock",
				fmt.Sprintf("stock cannot be set below the %d units already committed", committed))
		}
		return tx.WriteCategoryStock(ctx, cat, newStock)
	})
	if err != nil {
		s.recordFailure("set_stock", err)
		return wrapStore("set category stock", err)
	}

	s.committed(ctx, StockMovement{
		Operation: "set_stock",
		Category:  cat,
	})
	return nil
}

// Catalog returns every product. Reads go through the cache; mutations
// invalidate it.
func (s *Inventory) Catalog(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := cache.Remember(cacheKeyCatalog, cacheTTL, &products, func() error {
		var err error
		products, err = s.store.ReadProducts(ctx)
		return err
	})
	if err != nil {
		return nil, wrapStore("read catalog", err)
	}
	return products, nil
}

// Ledger returns the remaining pool for every category. Categories without
// a stored row read as zero.
func (s *Inventory) Ledger(ctx context.Context) ([]models.CategoryStock, error) {
	var entries []models.CategoryStock
	err := cache.Remember(cacheKeyLedger, cacheTTL, &entries, func() error {
		entries = entries[:0]
		for _, cat := range models.Categories() {
			stock, err := s.store.ReadCategoryStock(ctx, cat)
			if err != nil {
				return err
			}
			entries = append(entries, models.CategoryStock{Category: cat, Stock: stock})
		}
		return nil
	})
	if err != nil {
		return nil, wrapStore("read ledger", err)
	}
	return entries, nil
}

// CategoryStats summarises one category for the stats endpoint.
type CategoryStats struct {
	Category models.Category `json:"category"`
	Products int             `json:"products"`
	Units    int             `json:"units"`
	Stock    int             `json:"stock"`
	Value    float64         `json:"value"`
}

// Stats aggregates the catalog and the ledger.
type Stats struct {
	TotalProducts int             `json:"total_products"`
	TotalUnits    int             `json:"total_units"`
	TotalValue    float64         `json:"total_value"`
	Categories    []CategoryStats `json:"categories"`
}

// Stats computes catalog totals and per-category breakdowns.
func (s *Inventory) Stats(ctx context.Context) (*Stats, error) {
	products, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	perCat := make(map[models.Category]*CategoryStats, len(ledger))
	out := &Stats{}
	for _, entry := range ledger {
		cs := &CategoryStats{Category: entry.Category, Stock: entry.Stock}
		perCat[entry.Category] = cs
	}

	for _, p := range products {
		cs, ok := perCat[p.Category]
		if !ok {
			cs = &CategoryStats{Category: p.Category}
			perCat[p.Category] = cs
		}
		cs.Products++
		cs.Units += p.Quantity
		cs.Value += float64(p.Quantity) * p.Fields.UnitPrice

		out.TotalProducts++
		out.TotalUnits += p.Quantity
		out.TotalValue += float64(p.Quantity) * p.Fields.UnitPrice
	}

	for _, cat := range models.Categories() {
		if cs, ok := perCat[cat]; ok {
			out.Categories = append(out.Categories, *cs)
		}
	}
	return out, nil
}

// committed runs the post-commit bookkeeping: refresh the pool gauge, fire
// the movement event and drop stale cache entries.
func (s *Inventory) committed(ctx context.Context, m StockMovement) {
	metrics.StockMovements.WithLabelValues(m.Operation, "success").Inc()

	stock, err := s.store.ReadCategoryStock(ctx, m.Category)
	if err != nil {
		logger.Warn("inventory: pool readback failed", "category", m.Category, "error", err)
	} else {
		m.Stock = stock
		metrics.CategoryStockLevel.WithLabelValues(m.Category.String()).Set(float64(stock))
	}

	_ = cache.Del(cacheKeyCatalog, cacheKeyLedger)
	event.Fire(EventMovement, m)
}

func (s *Inventory) recordFailure(op string, err error) {
	outcome := "error"
	var ise *models.InsufficientStockError
	if errors.As(err, &ise) {
		outcome = "insufficient"
	}
	metrics.StockMovements.WithLabelValues(op, outcome).Inc()
}

// validateInput checks a product payload. With existing set, the input's
// category must match it (category is immutable after creation).
func (s *Inventory) validateInput(in ProductInput, existing models.Category) (models.Category, error) {
	errs := map[string]string{}

	cat, err := models.ParseCategory(in.Category)
	if err != nil {
		errs["category"] = err.Error()
	} else if existing != "" && cat != existing {
		errs["category"] = "category cannot be changed; delete and recreate the product"
		cat = existing
	}

	if in.Quantity < 0 {
		errs["quantity"] = "quantity cannot be negative"
	}
	if in.Fields.UnitPrice < 0 {
		errs["unit_price"] = "unit price cannot be negative"
	}

	if cat != "" {
		validateFields(cat, in.Fields, errs)
	}

	if len(errs) > 0 {
		return "", &models.ValidationError{Errors: errs}
	}
	return cat, nil
}

// validateFields enforces the per-category required fields and the option
// lists the product form offers.
func validateFields(cat models.Category, f models.ProductFields, errs map[string]string) {
	opts := cat.Options()

	switch cat {
	case models.CategoryRing, models.CategoryBuckle:
		if f.Number == "" {
			errs["number"] = "number is required"
		}
		if f.Measure == "" {
			errs["measure"] = "measure is required"
		}
	case models.CategoryPump:
		if f.Bore == "" {
			errs["bore"] = "bore is required"
		}
	}

	checkOption(errs, "number", f.Number, opts.Numbers)
	checkOption(errs, "measure", f.Measure, opts.Measures)
	checkOption(errs, "inch", f.Inch, opts.Inches)
	checkOption(errs, "model", f.Model, opts.Models)
	checkOption(errs, "bore", f.Bore, opts.Bores)
}

func checkOption(errs map[string]string, field, value string, allowed []string) {
	if value == "" || len(allowed) == 0 {
		return
	}
	if !slices.Contains(allowed, value) {
		errs[field] = fmt.Sprintf("%q is not a valid %s", value, field)
	}
}

// wrapStore passes domain errors through untouched and wraps everything
// else as a persistence failure.
func wrapStore(op string, err error) error {
	var (
		ise *models.InsufficientStockError
		ve  *models.ValidationError
		nfe *models.NotFoundError
	)
	if errors.As(err, &ise) || errors.As(err, &ve) || errors.As(err, &nfe) {
		return err
	}
	return &models.StoreUnavailableError{Op: op, Err: err}
}
