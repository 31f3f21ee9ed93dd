package models

import (
	"fmt"
	"strings"
)

// Category partitions the catalog and is the unit of stock pooling.
type Category string

const (
	CategoryRing   Category = "ring"
	CategoryBuckle Category = "buckle"
	CategoryPump   Category = "pump"
)

// CategoryAll is the sentinel accepted by the catalog filter, never stored.
const CategoryAll = "all"

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryRing, CategoryBuckle, CategoryPump}
}

// ParseCategory normalises and validates a category token.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryRing:
		return CategoryRing, nil
	case CategoryBuckle:
		return CategoryBuckle, nil
	case CategoryPump:
		return CategoryPump, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) String() string { return string(c) }

// FieldOptions holds the allowed values for the enumerated descriptive
// fields of one category. An empty list means the field is free-form.
type FieldOptions struct {
	Numbers  []string `json:"numbers,omitempty"`
	Measures []string `json:"measures,omitempty"`
	Inches   []string `json:"inches,omitempty"`
	Models   []string `json:"models,omitempty"`
	Bores    []string `json:"bores,omitempty"`
}

// categoryOptions mirrors the option lists the product form offers per
// category. Values outside these lists are rejected at validation time.
var categoryOptions = map[Category]FieldOptions{
	CategoryRing: {
		Numbers:  []string{"20", "25", "30", "40", "45", "50", "55", "60", "65"},
		Measures: []string{"20 mm", "25 mm", "30 mm", "40 mm", "45 mm", "50 mm", "55 mm", "60 mm", "65 mm"},
		Inches:   []string{"3/16", "1/4", "5/16"},
		Models:   []string{"round", "flat"},
	},
	CategoryBuckle: {
		Numbers:  []string{"15", "20", "25", "30", "35", "40"},
		Measures: []string{"15x33", "20x33", "25x41", "30x43", "35x53", "40x54"},
		Inches:   []string{"3/16", "1/4", "5/16"},
		Models:   []string{"round", "flat"},
	},
	CategoryPump: {
		Bores: []string{"0,5x", "10x", "15x", "25x"},
	},
}

// Options returns the field option lists for c.
func (c Category) Options() FieldOptions { return categoryOptions[c] }
