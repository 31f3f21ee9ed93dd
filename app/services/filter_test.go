package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/services"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "a", Category: models.CategoryRing, Fields: models.ProductFields{Number: "30", Measure: "30 mm"}},
		{ID: "b", Category: models.CategoryBuckle, Fields: models.ProductFields{Number: "25", Measure: "25x41"}},
		{ID: "c", Category: models.CategoryRing, Fields: models.ProductFields{Number: "45", Measure: "45 mm"}},
		{ID: "d", Category: models.CategoryPump, Fields: models.ProductFields{Bore: "10x"}},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterIdentity(t *testing.T) {
	products := sampleProducts()

	got := services.FilterProducts(products, "", "all")
	assert.Equal(t, ids(products), ids(got), "empty term with 'all' returns everything in order")

	got = services.FilterProducts(products, "", "")
	assert.Equal(t, ids(products), ids(got))
}

func TestFilterByCategory(t *testing.T) {
	products := sampleProducts()

	got := services.FilterProducts(products, "", "ring")
	assert.Equal(t, []string{"a", "c"}, ids(got))

	// Category match is case-insensitive.
	got = services.FilterProducts(products, "", "RING")
	assert.Equal(t, []string{"a", "c"}, ids(got))

	got = services.FilterProducts(products, "", "pump")
	assert.Equal(t, []string{"d"}, ids(got))
}

func TestFilterByTerm(t *testing.T) {
	products := sampleProducts()

	// Matches the number field.
	got := services.FilterProducts(products, "45", "all")
	assert.Equal(t, []string{"c"}, ids(got))

	// Matches the measure field, case-insensitively.
	got = services.FilterProducts(products, "25X41", "all")
	assert.Equal(t, []string{"b"}, ids(got))

	// Matches the category name.
	got = services.FilterProducts(products, "buck", "all")
	assert.Equal(t, []string{"b"}, ids(got))

	got = services.FilterProducts(products, "no-such-part", "all")
	assert.Empty(t, got)
}

func TestFilterTermAndCategoryCombined(t *testing.T) {
	products := sampleProducts()

	// "30" appears in ring "a" only; category narrows further.
	got := services.FilterProducts(products, "30", "ring")
	assert.Equal(t, []string{"a"}, ids(got))

	got = services.FilterProducts(products, "30", "buckle")
	assert.Empty(t, got)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	before := ids(products)

	_ = services.FilterProducts(products, "45", "ring")
	require.Equal(t, before, ids(products))
}
