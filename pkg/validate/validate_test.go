package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stockInput struct {
	Category string  `json:"category" validate:"required,in=ring,buckle,pump"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price"    validate:"nullable,gte=0"`
	Note     string  `json:"note"     validate:"nullable,max=10"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&stockInput{Category: "ring", Quantity: 4, Price: 12.5})
	assert.False(t, HasErrors(errs))
}

func TestStructRequired(t *testing.T) {
	errs := Struct(&stockInput{Quantity: 1})
	assert.Contains(t, errs, "category")
}

func TestStructInRule(t *testing.T) {
	errs := Struct(&stockInput{Category: "gasket"})
	assert.Equal(t, "The selected category is invalid.", errs["category"])
}

func TestStructGteRejectsNegative(t *testing.T) {
	errs := Struct(&stockInput{Category: "pump", Quantity: -3})
	assert.Contains(t, errs, "quantity")
}

func TestStructNullableSkipsEmpty(t *testing.T) {
	errs := Struct(&stockInput{Category: "buckle", Quantity: 0})
	assert.False(t, HasErrors(errs))
}

func TestStructMaxLength(t *testing.T) {
	errs := Struct(&stockInput{Category: "ring", Note: "a very long note indeed"})
	assert.Contains(t, errs, "note")
}
