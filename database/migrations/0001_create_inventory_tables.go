// Package migrations registers the schema migrations. Importing the
// package (blank import from the CLI) is enough to fill the registry.
package migrations

import (
	"gorm.io/gorm"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/pkg/migration"
)

type createInventoryTables struct{}

func init() {
	migration.Register("20260831_000001_create_inventory_tables", &createInventoryTables{})
}

func (createInventoryTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.CategoryStock{})
}

func (createInventoryTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{}, &models.CategoryStock{})
}
