package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pos-backoffice/internal/config"
	"pos-backoffice/internal/db"
	"pos-backoffice/internal/httpserver"
	variantrepo "pos-backoffice/internal/repository/variant"
	catalogsvc "pos-backoffice/internal/service/catalog"
	purchasesvc "pos-backoffice/internal/service/purchase"
	salesvc "pos-backoffice/internal/service/sale"
	"pos-backoffice/internal/storage"
	"pos-backoffice/internal/upstream"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var store storage.Store
	switch cfg.SnapshotBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer rdb.Close()
		store = storage.NewRedis(rdb)
	case config.BackendMemory:
		store = storage.NewMemory()
	default:
		store = storage.NewPostgres(dbpool)
	}
	logger.Printf("snapshot backend: %s", cfg.SnapshotBackend)

	erp := upstream.New(cfg.UpstreamBaseURL, cfg.TenantKey, logger)

	variantRepo := variantrepo.NewPostgres(dbpool, logger)
	catalogService := catalogsvc.New(variantRepo)
	saleService := salesvc.New(store, erp, logger)
	purchaseService := purchasesvc.New(store, erp, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:  catalogService,
		SaleSvc:     saleService,
		PurchaseSvc: purchaseService,
		Auth:        erp,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
