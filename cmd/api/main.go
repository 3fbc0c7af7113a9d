package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/liquidacion-api/internal/application/cache"
	appsettlement "github.com/jhoicas/liquidacion-api/internal/application/settlement"
	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
	"github.com/jhoicas/liquidacion-api/internal/domain/settlement"
	"github.com/jhoicas/liquidacion-api/internal/infrastructure/excel"
	"github.com/jhoicas/liquidacion-api/internal/infrastructure/mongodb"
	"github.com/jhoicas/liquidacion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/liquidacion-api/internal/interfaces/http"
	"github.com/jhoicas/liquidacion-api/pkg/config"
	"github.com/jhoicas/liquidacion-api/pkg/logger"
)

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	engine, err := settlement.NewEngine(settlement.Policy{
		Fee: settlement.FeePolicy{
			Marker: cfg.Settlement.FeeMarker,
			Rate:   cfg.Settlement.FeeRate,
		},
		Cost: settlement.CostPolicy{WorkUsageReason: cfg.Settlement.WorkUsageReason},
		Distribution: settlement.DistributionPolicy{
			CompanyCutPercent:        cfg.Settlement.CompanyCutPercent,
			ExecutiveRatios:          cfg.Settlement.ExecutiveRatios,
			DefaultCommissionPercent: cfg.Settlement.DefaultCommissionPercent,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("política de liquidación")
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("conexión al almacén de registros")
	}
	defer closeStore()

	sessions := cache.NewSessions(cfg.Settlement.CacheTTL)
	settlementUC := appsettlement.NewSettlementUseCase(store, engine, sessions, log)
	settlementHandler := httpRouter.NewSettlementHandler(settlementUC, excel.NewSettlementExporter(), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Settlement: settlementHandler,
		AppName:    cfg.App.Name,
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

// openStore conecta el adaptador elegido por STORE_DRIVER.
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.RecordStore, func(), error) {
	switch cfg.Driver {
	case config.DriverMongoDB:
		s, err := mongodb.NewRecordStore(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.QueryTimeout)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.Close(closeCtx)
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.NewRecordStore(pool)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("driver de almacén desconocido %q", cfg.Driver)
}
