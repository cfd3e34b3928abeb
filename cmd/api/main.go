package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/application/auth"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/application/inventory"
	domaininv "github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/inventory"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/infrastructure/metrics"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/prassaaa/dashboard-rokokgs-sub000/internal/interfaces/http"
	"github.com/prassaaa/dashboard-rokokgs-sub000/pkg/config"
	"github.com/prassaaa/dashboard-rokokgs-sub000/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("esquema actualizado")
	}

	stockMetrics := metrics.New(cfg.App.Name)

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	queryRepo := postgres.NewStockQueryRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Stock.TxTimeout)

	guard := domaininv.NewGuard()
	refs := domaininv.NewReferenceGenerator(cfg.Stock.ReferencePrefix, cfg.Stock.ReferenceSuffixLen)
	ledger := inventory.NewStockLedger(txRunner, productRepo, branchRepo, refs,
		inventory.WithMaxAttempts(cfg.Stock.ReferenceMaxAttempts),
		inventory.WithLedgerMetrics(stockMetrics),
	)
	queries := inventory.NewStockQueryService(queryRepo, guard, cfg.Stock.PageSize)
	stockUC := inventory.NewStockUseCase(ledger, queries, stockRepo, guard, stockMetrics, log)
	actors := auth.NewActorResolver(userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(stockMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Rokok GS Stock API",
		}))
	}

	app.Get("/metrics", adaptor.HTTPHandler(stockMetrics.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:   stockUC,
		Actors:    actors,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		Logger:    log,
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
