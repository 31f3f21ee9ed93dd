// Package routes wires the HTTP surface: endpoints, per-route middleware
// and the listeners reacting to inventory movements.
package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pecaforte/inventory/app/controllers"
	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/pkg/audit"
	"github.com/pecaforte/inventory/pkg/event"
	"github.com/pecaforte/inventory/pkg/logger"
	"github.com/pecaforte/inventory/pkg/metrics"
	"github.com/pecaforte/inventory/pkg/middleware"
	"github.com/pecaforte/inventory/pkg/response"
	"github.com/pecaforte/inventory/pkg/router"
	"github.com/pecaforte/inventory/pkg/ws"
)

// Deps carries everything the routes need; all collaborators are injected.
type Deps struct {
	Inventory  *services.Inventory
	Authorizer *services.Authorizer
	Hub        *ws.Hub
	Recorder   *audit.Recorder
}

// RegisterAPI mounts every endpoint on r.
func RegisterAPI(r *router.Router, d Deps) {
	authController := controllers.NewAuthController(d.Authorizer)
	productController := controllers.NewProductController(d.Inventory)
	stockController := controllers.NewStockController(d.Inventory)
	exportController := controllers.NewExportController()
	movementController := controllers.NewMovementController(d.Recorder)
	graphqlController := controllers.NewGraphQLController(d.Inventory)

	api := r.Group("/api")

	// Brute-force protection on the password gate.
	api.Post("/login", "auth.login", authController.Login,
		middleware.RateLimit(10, time.Minute))

	// Reads are open; the capability token guards mutations only.
	api.Get("/products", "products.list", productController.List)
	api.Get("/categories", "categories.list", productController.Categories)
	api.Get("/stocks", "stocks.index", stockController.Index)
	api.Get("/stats", "stats.show", stockController.Stats)
	api.Get("/movements", "movements.index", movementController.Index)
	api.Post("/graphql", "graphql", graphqlController.Handle)

	protected := api.Group("", middleware.Auth)
	protected.Post("/products", "products.create", productController.Create)
	protected.Put("/products/{id}", "products.update", productController.Update)
	protected.Delete("/products/{id}", "products.delete", productController.Delete)
	protected.Put("/stocks/{category}", "stocks.update", stockController.Update)
	protected.Post("/exports", "exports.create", exportController.Create)

	r.Get("/ws/inventory", "ws.inventory", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, d.Hub)
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
}

// RegisterListeners hooks the movement event up to the websocket hub and
// the audit trail.
func RegisterListeners(d Deps) {
	event.Listen(services.EventMovement, func(payload interface{}) {
		m, ok := payload.(services.StockMovement)
		if !ok {
			return
		}

		d.Recorder.Record(audit.Movement{
			Operation: m.Operation,
			Category:  m.Category.String(),
			ProductID: m.ProductID,
			Delta:     m.Delta,
			Stock:     m.Stock,
		})

		if d.Hub != nil {
			msg, err := json.Marshal(map[string]interface{}{
				"type":     "movement",
				"movement": m,
			})
			if err != nil {
				logger.Warn("routes: marshal movement", "error", err)
				return
			}
			select {
			case d.Hub.Broadcast <- msg:
			default:
				// Hub backlog full; the UI re-reads on reconnect anyway.
			}
		}
	})
}
