package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/pkg/bind"
	"github.com/pecaforte/inventory/pkg/response"
)

type StockController struct {
	inventory *services.Inventory
}

func NewStockController(inv *services.Inventory) *StockController {
	return &StockController{inventory: inv}
}

// Index returns the remaining pool for every category.
func (c *StockController) Index(w http.ResponseWriter, r *http.Request) {
	ledger, err := c.inventory.Ledger(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	response.Success(w, ledger)
}

type setStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// Update overwrites a category's pool. The value may not fall below the
// quantity already committed to products in that category.
func (c *StockController) Update(w http.ResponseWriter, r *http.Request) {
	var body setStockRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category := chi.URLParam(r, "category")
	if err := c.inventory.SetCategoryStock(r.Context(), category, body.Stock); err != nil {
		respondError(w, err)
		return
	}

	ledger, err := c.inventory.Ledger(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	response.Success(w, ledger)
}

// Stats aggregates catalog and ledger totals for the dashboard.
func (c *StockController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.inventory.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	response.Success(w, stats)
}
