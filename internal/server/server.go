// Package server boots the application: configuration, collaborators,
// routes and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pecaforte/inventory/app/jobs"
	"github.com/pecaforte/inventory/app/repositories"
	"github.com/pecaforte/inventory/app/routes"
	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/config"
	"github.com/pecaforte/inventory/pkg/audit"
	"github.com/pecaforte/inventory/pkg/cache"
	"github.com/pecaforte/inventory/pkg/database"
	grpcserver "github.com/pecaforte/inventory/pkg/grpc"
	"github.com/pecaforte/inventory/pkg/logger"
	"github.com/pecaforte/inventory/pkg/metrics"
	"github.com/pecaforte/inventory/pkg/middleware"
	"github.com/pecaforte/inventory/pkg/queue"
	"github.com/pecaforte/inventory/pkg/reqid"
	"github.com/pecaforte/inventory/pkg/router"
	"github.com/pecaforte/inventory/pkg/storage"
	"github.com/pecaforte/inventory/pkg/ws"
)

// Start boots every collaborator and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, caching disabled", "error", err)
	}
	storage.Connect()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder, err := audit.Connect(ctx)
	if err != nil {
		logger.Warn("server: audit trail disabled", "error", err)
	}

	store := repositories.NewGormStore(db)
	inventory := services.NewInventory(store)
	authorizer := services.NewAuthorizer(config.AdminPasswordHash())

	hub := ws.NewHub()
	go hub.Run()

	// Background jobs run in-process when the memory driver is active;
	// with the redis driver a separate `pecaforte queue:work` process
	// picks them up.
	jobs.Configure(inventory)
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB, ""))
	} else {
		go queue.Work(ctx, 2)
	}

	deps := routes.Deps{
		Inventory:  inventory,
		Authorizer: authorizer,
		Hub:        hub,
		Recorder:   recorder,
	}
	routes.RegisterListeners(deps)

	r := router.New()
	r.Use(
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
	)
	routes.RegisterAPI(r, deps)

	var grpcSrv interface{ GracefulStop() }
	if port := config.GRPCPort(); port != "" {
		srv, err := grpcserver.Start(port)
		if err != nil {
			return err
		}
		grpcSrv = srv
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "port", config.AppPort(), "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: http shutdown", "error", err)
	}

	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	recorder.Close()

	return nil
}
