// Package repositories provides the persistence backends behind the
// inventory service: a GORM-backed store for real deployments and an
// in-memory store for tests.
package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/services"
)

// GormStore persists the catalog and the ledger in a relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ReadProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Order("created_at").Find(&products).Error
	return products, err
}

func (s *GormStore) ReadProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteProduct inserts or fully replaces a product by id.
func (s *GormStore) WriteProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *GormStore) DeleteProductByID(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{ID: id}
	}
	return nil
}

// ReadCategoryStock returns the remaining pool for a category; a category
// without a ledger row reads as zero.
func (s *GormStore) ReadCategoryStock(ctx context.Context, c models.Category) (int, error) {
	var row models.CategoryStock
	err := s.db.WithContext(ctx).First(&row, "category = ?", c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Stock, nil
}

func (s *GormStore) WriteCategoryStock(ctx context.Context, c models.Category, stock int) error {
	row := models.CategoryStock{Category: c, Stock: stock, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"stock", "updated_at"}),
		}).
		Create(&row).Error
}

// AdjustCategoryStock applies delta to the pool as one conditional UPDATE,
// checked by the database. A read-modify-write pair would let two racing
// mutations both pass a stale check; here the WHERE clause guarantees the
// pool never goes negative.
func (s *GormStore) AdjustCategoryStock(ctx context.Context, c models.Category, delta int) error {
	res := s.db.WithContext(ctx).
		Model(&models.CategoryStock{}).
		Where("category = ? AND stock + ? >= 0", c, delta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Either the row is missing or the condition failed.
	var row models.CategoryStock
	err := s.db.WithContext(ctx).First(&row, "category = ?", c).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if delta >= 0 {
			return s.db.WithContext(ctx).
				Create(&models.CategoryStock{Category: c, Stock: delta, UpdatedAt: time.Now().UTC()}).
				Error
		}
		return &models.InsufficientStockError{Category: c, Requested: -delta, Available: 0}
	case err != nil:
		return err
	default:
		return &models.InsufficientStockError{Category: c, Requested: -delta, Available: row.Stock}
	}
}

func (s *GormStore) CommittedQuantity(ctx context.Context, c models.Category) (int, error) {
	var total int
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category = ?", c).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// Transact runs fn inside a database transaction; fn receives a store view
// bound to that transaction, so every write commits or rolls back together.
func (s *GormStore) Transact(ctx context.Context, fn func(tx services.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
