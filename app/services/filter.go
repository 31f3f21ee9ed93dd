package services

import (
	"strings"

	"github.com/pecaforte/inventory/app/models"
)

// FilterProducts narrows products by a free-text term and a category token.
// The term matches case-insensitively as a substring against the category
// name and the number and measure fields. The category filter is an exact
// case-insensitive match, with "all" (or empty) matching everything.
//
// Pure function; matched elements keep their input order.
func FilterProducts(products []models.Product, term, category string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	category = strings.ToLower(strings.TrimSpace(category))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != models.CategoryAll &&
			category != strings.ToLower(p.Category.String()) {
			continue
		}
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesTerm(p models.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Category.String()), term) ||
		strings.Contains(strings.ToLower(p.Fields.Number), term) ||
		strings.Contains(strings.ToLower(p.Fields.Measure), term)
}
