package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ProductFields carries the category-dependent descriptive attributes of a
// product. Which fields are meaningful depends on the category; there is no
// cross-field invariant.
type ProductFields struct {
	Number     string  `json:"number"`
	Measure    string  `json:"measure"`
	Inch       string  `json:"inch"`
	Model      string  `json:"model"`
	Thickness  string  `json:"thickness"`
	BoreLength string  `json:"bore_length"`
	Bore       string  `json:"bore"`
	UnitPrice  float64 `json:"unit_price"`
}

// Value serialises the fields to JSON for storage in a text column.
func (f ProductFields) Value() (driver.Value, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("product fields: marshal: %w", err)
	}
	return string(data), nil
}

// Scan deserialises a text/blob column back into the struct.
func (f *ProductFields) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = ProductFields{}
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return fmt.Errorf("product fields: cannot scan %T", src)
}

// Product is a catalog entry representing some quantity of a specific part
// variant within a category. The category is immutable after creation;
// moving a product between categories is delete + recreate.
type Product struct {
	ID        string        `gorm:"primaryKey;size:36"     json:"id"`
	Category  Category      `gorm:"size:32;not null;index" json:"category"`
	Fields    ProductFields `gorm:"type:text"              json:"fields"`
	Quantity  int           `gorm:"not null;default:0"     json:"quantity"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CategoryStock is the per-category ledger row: the remaining allocatable
// unit count. Creating a product consumes from it, deleting credits back.
type CategoryStock struct {
	Category  Category  `gorm:"primaryKey;size:32" json:"category"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	UpdatedAt time.Time `json:"updated_at"`
}
