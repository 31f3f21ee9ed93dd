package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/repositories"
	"github.com/pecaforte/inventory/app/services"
)

func newGormStore(t *testing.T) *repositories.GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.CategoryStock{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGormStore(db)
}

func ringProduct(quantity int) *models.Product {
	return &models.Product{
		ID:       uuid.NewString(),
		Category: models.CategoryRing,
		Fields:   models.ProductFields{Number: "30", Measure: "30 mm", UnitPrice: 1.5},
		Quantity: quantity,
	}
}

func TestGormStoreProductRoundTrip(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	p := ringProduct(3)
	require.NoError(t, store.WriteProduct(ctx, p))

	got, err := store.ReadProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, models.CategoryRing, got.Category)
	assert.Equal(t, "30 mm", got.Fields.Measure)
	assert.InDelta(t, 1.5, got.Fields.UnitPrice, 0.001)

	// Full replace by id.
	p.Quantity = 7
	require.NoError(t, store.WriteProduct(ctx, p))
	got, err = store.ReadProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	require.NoError(t, store.DeleteProductByID(ctx, p.ID))
	_, err = store.ReadProduct(ctx, p.ID)
	var nfe *models.NotFoundError
	assert.ErrorAs(t, err, &nfe)

	err = store.DeleteProductByID(ctx, p.ID)
	assert.ErrorAs(t, err, &nfe)
}

func TestGormStoreCategoryStock(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	// Missing row reads as zero.
	stock, err := store.ReadCategoryStock(ctx, models.CategoryPump)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	require.NoError(t, store.WriteCategoryStock(ctx, models.CategoryPump, 15))
	stock, err = store.ReadCategoryStock(ctx, models.CategoryPump)
	require.NoError(t, err)
	assert.Equal(t, 15, stock)

	// Upsert overwrites.
	require.NoError(t, store.WriteCategoryStock(ctx, models.CategoryPump, 8))
	stock, _ = store.ReadCategoryStock(ctx, models.CategoryPump)
	assert.Equal(t, 8, stock)
}

func TestGormStoreAdjustCategoryStock(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteCategoryStock(ctx, models.CategoryRing, 10))

	require.NoError(t, store.AdjustCategoryStock(ctx, models.CategoryRing, -4))
	stock, _ := store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 6, stock)

	// Over-draw fails with the shortfall and leaves the pool untouched.
	err := store.AdjustCategoryStock(ctx, models.CategoryRing, -7)
	var ise *models.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 7, ise.Requested)
	assert.Equal(t, 6, ise.Available)
	stock, _ = store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 6, stock)

	// Credit on a category with no row yet creates it.
	require.NoError(t, store.AdjustCategoryStock(ctx, models.CategoryBuckle, 5))
	stock, _ = store.ReadCategoryStock(ctx, models.CategoryBuckle)
	assert.Equal(t, 5, stock)

	// Debit on a missing row reports zero available.
	err = store.AdjustCategoryStock(ctx, models.CategoryPump, -1)
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 0, ise.Available)
}

func TestGormStoreCommittedQuantity(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteProduct(ctx, ringProduct(3)))
	require.NoError(t, store.WriteProduct(ctx, ringProduct(4)))

	total, err := store.CommittedQuantity(ctx, models.CategoryRing)
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	total, err = store.CommittedQuantity(ctx, models.CategoryPump)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestGormStoreTransactRollsBack(t *testing.T) {
	store := newGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteCategoryStock(ctx, models.CategoryRing, 10))

	p := ringProduct(4)
	boom := errors.New("boom")
	err := store.Transact(ctx, func(tx services.Store) error {
		if err := tx.WriteProduct(ctx, p); err != nil {
			return err
		}
		if err := tx.AdjustCategoryStock(ctx, models.CategoryRing, -4); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Both writes rolled back together.
	_, err = store.ReadProduct(ctx, p.ID)
	var nfe *models.NotFoundError
	assert.ErrorAs(t, err, &nfe)
	stock, _ := store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 10, stock)
}

func TestMemoryStoreTransactRollsBack(t *testing.T) {
	store := repositories.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.WriteCategoryStock(ctx, models.CategoryRing, 10))

	p := ringProduct(4)
	boom := errors.New("boom")
	err := store.Transact(ctx, func(tx services.Store) error {
		if err := tx.WriteProduct(ctx, p); err != nil {
			return err
		}
		if err := tx.AdjustCategoryStock(ctx, models.CategoryRing, -4); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	products, _ := store.ReadProducts(ctx)
	assert.Empty(t, products)
	stock, _ := store.ReadCategoryStock(ctx, models.CategoryRing)
	assert.Equal(t, 10, stock)
}
