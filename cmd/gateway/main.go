package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"inventory-system/config"
	"inventory-system/internal/cache"
	"inventory-system/internal/database"
	"inventory-system/internal/gateway/handlers"
	"inventory-system/internal/health"
	"inventory-system/internal/logger"
	"inventory-system/internal/notify"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/account"
	"inventory-system/internal/services/admin"
	"inventory-system/internal/services/catalog"
	"inventory-system/internal/services/orders"
	"inventory-system/internal/services/party"
	"inventory-system/internal/services/support"
	"inventory-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.Init(cfg.Logger)
	if err != nil {
		zap.S().Fatalf("Failed to init logger: %v", err)
	}
	defer log.Sync()

	tokens, err := utils.NewTokenIssuer(cfg.Auth)
	if err != nil {
		zap.S().Fatalf("Invalid auth config: %v", err)
	}
	hasher := utils.NewBcryptHasher()

	db, err := database.NewConnection(cfg.DB.DSN)
	if err != nil {
		zap.S().Fatalf("Failed to connect to db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		zap.S().Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.Seed(context.Background(), db, hasher, cfg.Seed); err != nil {
		zap.S().Fatalf("Failed to seed database: %v", err)
	}

	redisClient, err := config.NewRedis(cfg.Redis)
	if err != nil {
		zap.S().Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	notifier := notify.NewRedisNotifier(redisClient)

	store := repository.NewStore(db)
	listings := cache.NewRedisCache(redisClient)
	supportService := support.NewService(store, notifier)

	customers := party.NewCustomerService(store)
	suppliers := party.NewSupplierService(store)

	h := httpHandlers{
		auth: handlers.NewAuthHTTPHandler(account.NewService(store, hasher, tokens)),
		catalog: handlers.NewCatalogHTTPHandler(
			catalog.NewCategoryService(store, catalog.WithCache(listings)),
			catalog.NewItemService(store, catalog.WithCache(listings)),
		),
		customers: handlers.NewCustomerHTTPHandler(customers),
		suppliers: handlers.NewSupplierHTTPHandler(suppliers),
		purchases: handlers.NewPurchaseOrderHTTPHandler(
			orders.NewPurchaseOrderService(store, orders.WithPublisher(notifier)),
			suppliers,
		),
		sales: handlers.NewSalesOrderHTTPHandler(
			orders.NewSalesOrderService(store, orders.WithPublisher(notifier)),
			customers,
		),
		admin:   handlers.NewAdminHTTPHandler(admin.NewService(store), supportService),
		support: handlers.NewSupportHTTPHandler(supportService, notifier),
	}

	monitor := health.NewMonitor()
	monitor.Register("database", health.DatabaseProbe(db))
	monitor.Register("redis", health.RedisProbe(redisClient))
	if err := monitor.Start("@every 30s"); err != nil {
		zap.S().Fatalf("Failed to schedule health checks: %v", err)
	}
	defer monitor.Stop()

	grpcServer, err := monitor.ServeGRPC(":" + cfg.Server.GRPCPort)
	if err != nil {
		zap.S().Fatalf("Failed to listen for gRPC health: %v", err)
	}
	defer grpcServer.GracefulStop()

	r, err := setupRouter(cfg.Server, h, tokens, monitor)
	if err != nil {
		zap.S().Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("Failed to start server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zap.S().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("Server forced to shutdown: %v", err)
	}
}
