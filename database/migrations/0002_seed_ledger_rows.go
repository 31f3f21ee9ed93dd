package migrations

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/pkg/migration"
)

// Ledger rows exist from day one so every category reads as an explicit
// zero instead of depending on the read-as-zero fallback.
type seedLedgerRows struct{}

func init() {
	migration.Register("20260831_000002_seed_ledger_rows", &seedLedgerRows{})
}

func (seedLedgerRows) Up(db *gorm.DB) error {
	for _, cat := range models.Categories() {
		row := models.CategoryStock{Category: cat, Stock: 0}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (seedLedgerRows) Down(db *gorm.DB) error {
	return db.Where("stock = 0").Delete(&models.CategoryStock{}).Error
}
