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

	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/application/purchasing"
	"github.com/jmcastano/trastienda-api/internal/application/sales"
	infrapdf "github.com/jmcastano/trastienda-api/internal/infrastructure/pdf"
	"github.com/jmcastano/trastienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/jmcastano/trastienda-api/internal/interfaces/http"
	"github.com/jmcastano/trastienda-api/pkg/config"
	"github.com/jmcastano/trastienda-api/pkg/logger"
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
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos de solo lectura atados al pool. Las escrituras pasan por el
	// TxRunner, que ata sus propios repos a la transacción.
	varianteRepo := postgres.NewVarianteRepository(pool)
	tipoRepo := postgres.NewTipoMovimientoRepository(pool)
	movimientoRepo := postgres.NewMovimientoRepository(pool)
	compraRepo := postgres.NewCompraRepository(pool)
	ajusteRepo := postgres.NewAjusteRepository(pool)
	ventaRepo := postgres.NewVentaRepository(pool)
	devolucionRepo := postgres.NewDevolucionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	compraUC := purchasing.NewCompraUseCase(txRunner, compraRepo, varianteRepo)
	ajusteUC := inventory.NewAjusteUseCase(txRunner, ajusteRepo, tipoRepo, varianteRepo)
	consultasUC := inventory.NewConsultasUseCase(varianteRepo, movimientoRepo, tipoRepo)
	ventaUC := sales.NewVentaUseCase(txRunner, ventaRepo, varianteRepo)
	devolucionUC := sales.NewDevolucionUseCase(txRunner, devolucionRepo, ventaRepo)

	kardexPDF := infrapdf.NewKardexGenerator()

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
		Title:    "Trastienda API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompraUC:     compraUC,
		AjusteUC:     ajusteUC,
		ConsultasUC:  consultasUC,
		VentaUC:      ventaUC,
		DevolucionUC: devolucionUC,
		KardexPDF:    kardexPDF,
		JWTSecret:    cfg.JWT.Secret,
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
