package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pecaforte/inventory/app/jobs"
	"github.com/pecaforte/inventory/app/models"
	"github.com/pecaforte/inventory/app/repositories"
	"github.com/pecaforte/inventory/app/routes"
	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/pkg/auth"
	"github.com/pecaforte/inventory/pkg/router"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func setup(t *testing.T) (http.Handler, *repositories.MemoryStore) {
	t.Helper()

	store := repositories.NewMemoryStore()
	for cat, stock := range map[models.Category]int{
		models.CategoryRing:   10,
		models.CategoryBuckle: 5,
	} {
		require.NoError(t, store.WriteCategoryStock(context.Background(), cat, stock))
	}

	inv := services.NewInventory(store)
	jobs.Configure(inv)

	hash, err := auth.HashPassword("adm123")
	require.NoError(t, err)

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Inventory:  inv,
		Authorizer: services.NewAuthorizer(hash),
	})
	return r.Handler(), store
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func operatorToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken()
	require.NoError(t, err)
	return token
}

func TestLoginEndpoint(t *testing.T) {
	h, _ := setup(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{"password": "adm123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data["token"])

	rec, _ = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "password")
}

func TestMutationsRequireToken(t *testing.T) {
	h, _ := setup(t)

	body := map[string]interface{}{"category": "ring", "quantity": 1}
	rec, _ := doJSON(t, h, http.MethodPost, "/api/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPut, "/api/stocks/ring", "bogus-token", map[string]int{"stock": 5})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func createRing(t *testing.T, h http.Handler, token string, quantity int) models.Product {
	t.Helper()

	rec, env := doJSON(t, h, http.MethodPost, "/api/products", token, services.ProductInput{
		Category: "ring",
		Fields:   models.ProductFields{Number: "30", Measure: "30 mm", UnitPrice: 2},
		Quantity: quantity,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p models.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestProductLifecycle(t *testing.T) {
	h, store := setup(t)
	token := operatorToken(t)

	p := createRing(t, h, token, 4)
	assert.NotEmpty(t, p.ID)

	stock, _ := store.ReadCategoryStock(context.Background(), models.CategoryRing)
	assert.Equal(t, 6, stock)

	// Update quantity.
	rec, _ := doJSON(t, h, http.MethodPut, "/api/products/"+p.ID, token, services.ProductInput{
		Category: "ring",
		Fields:   models.ProductFields{Number: "30", Measure: "30 mm", UnitPrice: 2},
		Quantity: 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	stock, _ = store.ReadCategoryStock(context.Background(), models.CategoryRing)
	assert.Equal(t, 8, stock)

	// Delete credits the pool back.
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/products/"+p.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stock, _ = store.ReadCategoryStock(context.Background(), models.CategoryRing)
	assert.Equal(t, 10, stock)
}

func TestCreateProductInsufficientStockMapsTo409(t *testing.T) {
	h, _ := setup(t)
	token := operatorToken(t)

	createRing(t, h, token, 4)

	rec, env := doJSON(t, h, http.MethodPost, "/api/products", token, services.ProductInput{
		Category: "ring",
		Fields:   models.ProductFields{Number: "30", Measure: "30 mm"},
		Quantity: 7,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, env.Message, "requested 7")
	assert.Contains(t, env.Message, "available 6")
}

func TestCreateProductValidationMapsTo422(t *testing.T) {
	h, _ := setup(t)
	token := operatorToken(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/products", token, services.ProductInput{
		Category: "gasket",
		Quantity: -1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "category")
	assert.Contains(t, env.Errors, "quantity")
}

func TestUnknownProductMapsTo404(t *testing.T) {
	h, _ := setup(t)
	token := operatorToken(t)

	rec, _ := doJSON(t, h, http.MethodDelete, "/api/products/no-such-id", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProductsWithFilter(t *testing.T) {
	h, _ := setup(t)
	token := operatorToken(t)

	createRing(t, h, token, 2)
	createRing(t, h, token, 3)

	rec, env := doJSON(t, h, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 2)

	rec, env = doJSON(t, h, http.MethodGet, "/api/products?category=buckle", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var none []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &none))
	assert.Empty(t, none)

	rec, env = doJSON(t, h, http.MethodGet, "/api/products?search=30&category=ring", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rings []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &rings))
	assert.Len(t, rings, 2)
}

func TestStocksEndpoints(t *testing.T) {
	h, _ := setup(t)
	token := operatorToken(t)

	rec, env := doJSON(t, h, http.MethodGet, "/api/stocks", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ledger []models.CategoryStock
	require.NoError(t, json.Unmarshal(env.Data, &ledger))
	assert.Len(t, ledger, len(models.Categories()))

	rec, _ = doJSON(t, h, http.MethodPut, "/api/stocks/ring", token, map[string]int{"stock": 42})
	require.Equal(t, http.StatusOK, rec.Code)

	// Below committed allocation → 422.
	createRing(t, h, token, 4)
	rec, env = doJSON(t, h, http.MethodPut, "/api/stocks/ring", token, map[string]int{"stock": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "stock")

	// Negative stock is caught by the request validator.
	rec, _ = doJSON(t, h, http.MethodPut, "/api/stocks/ring", token, map[string]int{"stock": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Unknown category → 422.
	rec, _ = doJSON(t, h, http.MethodPut, "/api/stocks/gasket", token, map[string]int{"stock": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	h, _ := setup(t)
	token := operatorToken(t)
	createRing(t, h, token, 4)

	rec, env := doJSON(t, h, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats services.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 4, stats.TotalUnits)
}

func TestCategoriesEndpoint(t *testing.T) {
	h, _ := setup(t)

	rec, env := doJSON(t, h, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cats []struct {
		Category models.Category     `json:"category"`
		Options  models.FieldOptions `json:"options"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	require.Len(t, cats, 3)
	assert.Equal(t, models.CategoryRing, cats[0].Category)
	assert.NotEmpty(t, cats[0].Options.Numbers)
}

func TestExportEndpointQueuesJob(t *testing.T) {
	h, _ := setup(t)
	token := operatorToken(t)

	req := httptest.NewRequest(http.MethodPost, "/api/exports", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "queued", out["status"])
	assert.Contains(t, out["path"], "exports/catalog-")
}

func TestGraphQLProductsQuery(t *testing.T) {
	h, _ := setup(t)
	token := operatorToken(t)
	createRing(t, h, token, 4)

	query := map[string]string{
		"query": `{ products(category: "ring") { id quantity fields { number } } stocks { category stock } }`,
	}
	rec, _ := doJSON(t, h, http.MethodPost, "/api/graphql", "", query)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Data struct {
			Products []struct {
				ID       string `json:"id"`
				Quantity int    `json:"quantity"`
				Fields   struct {
					Number string `json:"number"`
				} `json:"fields"`
			} `json:"products"`
			Stocks []struct {
				Category string `json:"category"`
				Stock    int    `json:"stock"`
			} `json:"stocks"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Empty(t, result.Errors, rec.Body.String())
	require.Len(t, result.Data.Products, 1)
	assert.Equal(t, 4, result.Data.Products[0].Quantity)
	assert.Equal(t, "30", result.Data.Products[0].Fields.Number)
	assert.Len(t, result.Data.Stocks, len(models.Categories()))
}

func TestMovementsEndpointEmptyWithoutRecorder(t *testing.T) {
	h, _ := setup(t)

	rec, env := doJSON(t, h, http.MethodGet, "/api/movements", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var movements []interface{}
	require.NoError(t, json.Unmarshal(env.Data, &movements))
	assert.Empty(t, movements)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/movements?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	h, _ := setup(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
