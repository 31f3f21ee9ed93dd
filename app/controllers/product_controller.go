package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/pkg/bind"
	"github.com/pecaforte/inventory/pkg/response"
)

type ProductController struct {
	inventory *services.Inventory
}

func NewProductController(inv *services.Inventory) *ProductController {
	return &ProductController{inventory: inv}
}

// List returns the catalog, narrowed by the optional ?search= and
// ?category= query parameters. category accepts "all" as a pass-through.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.inventory.Catalog(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query()
	products = services.FilterProducts(products, q.Get("search"), q.Get("category"))
	response.Success(w, products)
}

// Create adds a product, reserving its quantity from the category pool.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.inventory.AddProduct(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	response.Created(w, p)
}

// Update patches a product; quantity changes adjust the pool by the delta.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.inventory.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondError(w, err)
		return
	}
	response.Success(w, p)
}

// Delete removes a product and credits its quantity back to the pool.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.inventory.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	response.Success(w, map[string]string{"deleted": chi.URLParam(r, "id")})
}

type categoryInfo struct {
	Category models.Category     `json:"category"`
	Options  models.FieldOptions `json:"options"`
}

// Categories lists the valid categories with the option lists that drive
// the product form.
func (c *ProductController) Categories(w http.ResponseWriter, _ *http.Request) {
	out := make([]categoryInfo, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		out = append(out, categoryInfo{Category: cat, Options: cat.Options()})
	}
	response.Success(w, out)
}
