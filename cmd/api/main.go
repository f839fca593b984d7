package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stockfifo-api/internal/application/auth"
	"github.com/jhoicas/stockfifo-api/internal/application/ledger"
	"github.com/jhoicas/stockfifo-api/internal/application/usecase"
	"github.com/jhoicas/stockfifo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockfifo-api/internal/interfaces/http"
	"github.com/jhoicas/stockfifo-api/pkg/batch"
	"github.com/jhoicas/stockfifo-api/pkg/config"
	"github.com/jhoicas/stockfifo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones al día")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	storeRepo := postgres.NewStoreRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	staffRepo := postgres.NewStaffRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	batchGen, err := batch.New(cfg.App.NodeID)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de números de lote")
	}

	storeUC := usecase.NewStoreUseCase(storeRepo)
	itemUC := usecase.NewItemUseCase(itemRepo)
	receiveUC := ledger.NewReceiveUseCase(txRunner, storeRepo, itemRepo, batchGen)
	transferUC := ledger.NewTransferUseCase(txRunner, storeRepo, itemRepo, staffRepo, transferRepo)
	sellUC := ledger.NewSellUseCase(txRunner, lotRepo, storeRepo)
	queryUC := ledger.NewQueryUseCase(lotRepo, activityRepo)
	authUC := auth.NewAuthUseCase(staffRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockFIFO API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StoreUC:    storeUC,
		ItemUC:     itemUC,
		ReceiveUC:  receiveUC,
		TransferUC: transferUC,
		SellUC:     sellUC,
		QueryUC:    queryUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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
