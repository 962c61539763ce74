package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/taller-api/internal/application/analytics"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/serviceorder"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/clock"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/jhoicas/taller-api/pkg/metrics"
)

// txRunner transacciones del libro de stock y de las órdenes de servicio.
type txRunner interface {
	inventory.TxRunner
	serviceorder.TxRunner
}

// storage repositorios y runner del driver configurado.
type storage struct {
	tx        txRunner
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	orders    repository.ServiceOrderRepository
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == config.StorageDriverMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			tx:        store,
			products:  store.Products(),
			movements: store.Movements(),
			orders:    store.ServiceOrders(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		tx:        postgres.NewTxRunner(pool, log),
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		orders:    postgres.NewServiceOrderRepository(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.close()

	clk := clock.New()
	ledgerUC := inventory.NewStockLedgerUseCase(store.tx, store.products, store.movements, clk, log)
	alertUC := inventory.NewStockAlertUseCase(store.products)
	productUC := usecase.NewProductUseCase(store.tx, store.products, ledgerUC, clk)
	serviceOrderUC := serviceorder.NewServiceOrderUseCase(store.tx, store.orders, ledgerUC, clk, log)
	dashboardUC := analytics.NewDashboardUseCase(store.orders, store.products, clk)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(metrics.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		StockLedger:    ledgerUC,
		StockAlerts:    alertUC,
		ServiceOrderUC: serviceOrderUC,
		DashboardUC:    dashboardUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
