package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/repositories"
	"github.com/pecaforte/inventory/app/services"
)

func newService(t *testing.T, stocks map[models.Category]int) (*services.Inventory, *repositories.MemoryStore) {
	t.Helper()

	store := repositories.NewMemoryStore()
	for cat, stock := range stocks {
		require.NoError(t, store.WriteCategoryStock(context.Background(), cat, stock))
	}
	return services.NewInventory(store), store
}

func ringInput(quantity int) services.ProductInput {
	return services.ProductInput{
		Category: "ring",
		Fields: models.ProductFields{
			Number:    "30",
			Measure:   "30 mm",
			Inch:      "1/4",
			Model:     "round",
			UnitPrice: 2.5,
		},
		Quantity: quantity,
	}
}

func TestAddProductReservesStock(t *testing.T) {
	svc, store := newService(t, map[models.Category]int{models.CategoryRing: 10})
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.CategoryRing, p.Category)
	assert.False(t, p.CreatedAt.IsZero())

	stock, err := store.ReadCategoryStock(ctx, models.CategoryRing)
	require.NoError(t, err)
	assert.Equal(t, 6, stock)
}

func TestAddProductInsufficientStock(t *testing.T) {
	svc, store := newService(t, map[models.Category]int{models.CategoryRing: 10})
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)

	_, err = svc.AddProduct(ctx, ringInput(7))
	var ise *models.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, models.CategoryRing, ise.Category)
	assert.Equal(t, 7, ise.Requested)
	assert.Equal(t, 6, ise.Available)

	// The failed add must leave both catalog and ledger untouched.
	products, err := store.ReadProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	stock, err := store.ReadCategoryStock(ctx, models.CategoryRing)
	require.NoError(t, err)
	assert.Equal(t, 6, stock)
}

func TestUpdateProductAdjustsByDelta(t *testing.T) {
	svc, store := newService(t, map[models.Category]int{models.CategoryRing: 10})
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)

	// Growing the product consumes more stock.
	_, err = svc.UpdateProduct(ctx, p.ID, ringInput(6))
	require.NoError(t, err)
	stock, _ := store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 4, stock)

	// Shrinking credits stock back.
	_, err = svc.UpdateProduct(ctx, p.ID, ringInput(1))
	require.NoError(t, err)
	stock, _ = store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 9, stock)
}

func TestUpdateProductInsufficientStock(t *testing.T) {
	svc, store := newService(t, map[models.Category]int{models.CategoryRing: 10})
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, p.ID, ringInput(11))
	var ise *models.InsufficientStockError
	require.ErrorAs(t, err, &ise)

	// No partial apply: quantity and pool are unchanged.
	got, err := store.ReadProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	stock, _ := store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 6, stock)
}

func TestUpdateProductCategoryImmutable(t *testing.T) {
	svc, _ := newService(t, map[models.Category]int{
		models.CategoryRing:   10,
		models.CategoryBuckle: 10,
	})
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)

	in := ringInput(4)
	in.Category = "buckle"
	_, err = svc.UpdateProduct(ctx, p.ID, in)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "category")
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newService(t, map[models.Category]int{models.CategoryRing: 10})

	_, err := svc.UpdateProduct(context.Background(), "missing", ringInput(1))
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "missing", nfe.ID)
}

func TestDeleteProductCreditsStock(t *testing.T) {
	svc, store := newService(t, map[models.Category]int{models.CategoryRing: 10})
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	stock, _ := store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 10, stock)

	err = svc.DeleteProduct(ctx, p.ID)
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestDeleteThenReAddRoundTrip(t *testing.T) {
	svc, store := newService(t, map[models.Category]int{models.CategoryRing: 10})
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)
	before, _ := store.ReadCategoryStock(ctx, models.CategoryRing)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err = svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)

	after, _ := store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, before, after)
}

func TestConservationLaw(t *testing.T) {
	const initial = 50
	svc, store := newService(t, map[models.Category]int{models.CategoryRing: initial})
	ctx := context.Background()

	var ids []string
	for _, q := range []int{5, 8, 3} {
		p, err := svc.AddProduct(ctx, ringInput(q))
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	_, err := svc.UpdateProduct(ctx, ids[1], ringInput(12))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, ids[0]))

	// Failed mutations must not disturb the balance either.
	_, err = svc.AddProduct(ctx, ringInput(initial+1))
	require.Error(t, err)

	products, err := store.ReadProducts(ctx)
	require.NoError(t, err)
	committed := 0
	for _, p := range products {
		committed += p.Quantity
	}
	stock, err := store.ReadCategoryStock(ctx, models.CategoryRing)
	require.NoError(t, err)

	assert.Equal(t, initial, stock+committed)
}

func TestSetCategoryStock(t *testing.T) {
	svc, store := newService(t, map[models.Category]int{models.CategoryRing: 10})
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)

	// Below the committed allocation: rejected.
	err = svc.SetCategoryStock(ctx, "ring", 3)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors["stock"], "4")

	// Negative: rejected.
	err = svc.SetCategoryStock(ctx, "ring", -1)
	require.ErrorAs(t, err, &ve)

	// Valid and idempotent.
	require.NoError(t, svc.SetCategoryStock(ctx, "ring", 20))
	require.NoError(t, svc.SetCategoryStock(ctx, "ring", 20))
	stock, _ := store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 20, stock)
}

func TestAddProductValidation(t *testing.T) {
	svc, _ := newService(t, map[models.Category]int{models.CategoryRing: 10})
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*services.ProductInput)
		field  string
	}{
		{"unknown category", func(in *services.ProductInput) { in.Category = "gasket" }, "category"},
		{"negative quantity", func(in *services.ProductInput) { in.Quantity = -1 }, "quantity"},
		{"negative price", func(in *services.ProductInput) { in.Fields.UnitPrice = -0.5 }, "unit_price"},
		{"missing number", func(in *services.ProductInput) { in.Fields.Number = "" }, "number"},
		{"number outside options", func(in *services.ProductInput) { in.Fields.Number = "99" }, "number"},
		{"model outside options", func(in *services.ProductInput) { in.Fields.Model = "oval" }, "model"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := ringInput(1)
			tc.mutate(&in)

			_, err := svc.AddProduct(ctx, in)
			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Errors, tc.field)
		})
	}
}

func TestPumpRequiresBore(t *testing.T) {
	svc, _ := newService(t, map[models.Category]int{models.CategoryPump: 10})

	in := services.ProductInput{Category: "pump", Quantity: 1}
	_, err := svc.AddProduct(context.Background(), in)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "bore")

	in.Fields.Bore = "10x"
	_, err = svc.AddProduct(context.Background(), in)
	require.NoError(t, err)
}

func TestLedgerReadsMissingCategoriesAsZero(t *testing.T) {
	svc, _ := newService(t, map[models.Category]int{models.CategoryRing: 5})

	ledger, err := svc.Ledger(context.Background())
	require.NoError(t, err)
	require.Len(t, ledger, len(models.Categories()))

	byCat := map[models.Category]int{}
	for _, entry := range ledger {
		byCat[entry.Category] = entry.Stock
	}
	assert.Equal(t, 5, byCat[models.CategoryRing])
	assert.Equal(t, 0, byCat[models.CategoryBuckle])
	assert.Equal(t, 0, byCat[models.CategoryPump])
}

func TestStats(t *testing.T) {
	svc, _ := newService(t, map[models.Category]int{models.CategoryRing: 20})
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, ringInput(4))
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, ringInput(6))
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 10, stats.TotalUnits)
	assert.InDelta(t, 25.0, stats.TotalValue, 0.001)

	require.NotEmpty(t, stats.Categories)
	ring := stats.Categories[0]
	assert.Equal(t, models.CategoryRing, ring.Category)
	assert.Equal(t, 2, ring.Products)
	assert.Equal(t, 10, ring.Stock) // 20 allocated, 10 committed
}
