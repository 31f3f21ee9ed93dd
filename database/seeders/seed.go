// Package seeders fills a fresh database with demo data. Seeding goes
// through the inventory service so the stock invariant holds for the
// seeded state too.
package seeders

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/repositories"
	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/pkg/logger"
)

var initialStock = map[models.Category]int{
	models.CategoryRing:   200,
	models.CategoryBuckle: 150,
	models.CategoryPump:   80,
}

var demoProducts = []services.ProductInput{
	{
		Category: "ring",
		Fields:   models.ProductFields{Number: "30", Measure: "30 mm", Inch: "1/4", Model: "round", UnitPrice: 1.8},
		Quantity: 40,
	},
	{
		Category: "ring",
		Fields:   models.ProductFields{Number: "45", Measure: "45 mm", Inch: "5/16", Model: "flat", UnitPrice: 2.4},
		Quantity: 25,
	},
	{
		Category: "buckle",
		Fields:   models.ProductFields{Number: "25", Measure: "25x41", Inch: "1/4", Model: "round", UnitPrice: 3.1},
		Quantity: 30,
	},
	{
		Category: "pump",
		Fields:   models.ProductFields{Bore: "10x", UnitPrice: 12.5},
		Quantity: 10,
	},
}

// Run seeds the ledger pools and a small demo catalog. It is a no-op when
// the catalog already has products.
func Run(db *gorm.DB) error {
	store := repositories.NewGormStore(db)
	svc := services.NewInventory(store)
	ctx := context.Background()

	existing, err := store.ReadProducts(ctx)
	if err != nil {
		return fmt.Errorf("seed: read catalog: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("seed: catalog not empty, skipping", "products", len(existing))
		return nil
	}

	for cat, stock := range initialStock {
		if err := svc.SetCategoryStock(ctx, cat.String(), stock); err != nil {
			return fmt.Errorf("seed: set stock for %s: %w", cat, err)
		}
	}

	for _, in := range demoProducts {
		if _, err := svc.AddProduct(ctx, in); err != nil {
			return fmt.Errorf("seed: add %s product: %w", in.Category, err)
		}
	}

	logger.Info("seed: done",
		"products", len(demoProducts),
		"categories", len(initialStock),
	)
	return nil
}
