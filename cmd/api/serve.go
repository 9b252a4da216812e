package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/config"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/infrastructure/database"
	"github.com/eazyque/eazyque-api/internal/infrastructure/events"
	infraRepo "github.com/eazyque/eazyque-api/internal/infrastructure/repository"
	"github.com/eazyque/eazyque-api/internal/logger"
	"github.com/eazyque/eazyque-api/internal/presentation/http/handler"
	"github.com/eazyque/eazyque-api/internal/presentation/http/routes"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/eazyque/eazyque-api/pkg/printer"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "Port to listen on (overrides APP_PORT)")
	serveCmd.Flags().Bool("migrate", true, "Run migrations before serving")
	_ = viper.BindPFlag("APP_PORT", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")
	cfg := loadConfig()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}
	if err := database.SeedDefaultData(cmd.Context(), db); err != nil {
		log.WithError(err).Warn("failed to seed default data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher := newPublisher(ctx, cfg)
	defer publisher.Close()

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	// Repositories
	store := infraRepo.NewStore(db)
	productRepo := infraRepo.NewProductRepository(db)
	inventoryRepo := infraRepo.NewInventoryRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	userRepo := infraRepo.NewUserRepository(db)
	shopRepo := infraRepo.NewShopRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)
	analyticsRepo := infraRepo.NewAnalyticsRepository(db)

	orderCfg := service.OrderConfig{
		DefaultMinStockLevel:         cfg.Order.DefaultMinStockLevel,
		DefaultMaxStockLevel:         cfg.Order.DefaultMaxStockLevel,
		LoyaltyPointsPerCurrencyUnit: cfg.Order.LoyaltyPointsPerCurrencyUnit,
		LoyaltyPointsThreshold:       money.FromRupees(float64(cfg.Order.LoyaltyThresholdRupees)),
	}

	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.WithError(err).Warn("failed to initialise printer, receipts will not print")
		thermalPrinter = printer.Null{}
	}

	// Services
	orderService := service.NewOrderService(store, orderRepo, publisher, orderCfg)
	inventoryService := service.NewInventoryService(store, inventoryRepo, publisher, orderCfg)
	productService := service.NewProductService(productRepo, shopRepo)
	customerService := service.NewCustomerService(customerRepo)
	authService := service.NewAuthService(userRepo, shopRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	dashboardService := service.NewDashboardService(analyticsRepo)
	taxService := service.NewTaxService()
	receiptService := service.NewReceiptService(orderService, thermalPrinter, cfg.Printer.Width)

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Order:     handler.NewOrderHandler(orderService),
		Customer:  handler.NewCustomerHandler(customerService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Tax:       handler.NewTaxHandler(taxService),
		User:      handler.NewUserHandler(userService),
		Printer:   handler.NewPrinterHandler(receiptService),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	go purgeIdempotencyKeys(ctx, idempotencyRepo, time.Hour)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", port).WithField("env", cfg.App.Env).Infof("starting %s", cfg.App.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPublisher connects to Redis when configured and falls back to a no-op
func newPublisher(ctx context.Context, cfg *config.Config) events.Publisher {
	if cfg.Redis.Addr == "" {
		return events.NoopPublisher{}
	}
	pub, err := events.NewRedisPublisher(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger.WithComponent("events"))
	if err != nil {
		logger.WithComponent("events").WithError(err).Warn("redis unavailable, events disabled")
		return events.NoopPublisher{}
	}
	return pub
}

func purgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, every time.Duration) {
	log := logger.WithComponent("idempotency")
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("failed to purge idempotency keys")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Info("purged expired idempotency keys")
			}
		}
	}
}
