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
	"github.com/milhojas/pedidos-api/internal/application/auth"
	apporder "github.com/milhojas/pedidos-api/internal/application/order"
	appsync "github.com/milhojas/pedidos-api/internal/application/sync"
	"github.com/milhojas/pedidos-api/internal/application/usecase"
	infrapdf "github.com/milhojas/pedidos-api/internal/infrastructure/pdf"
	"github.com/milhojas/pedidos-api/internal/infrastructure/postgres"
	"github.com/milhojas/pedidos-api/internal/infrastructure/realtime"
	httpRouter "github.com/milhojas/pedidos-api/internal/interfaces/http"
	"github.com/milhojas/pedidos-api/pkg/config"
	"github.com/milhojas/pedidos-api/pkg/logger"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Hub de eventos en memoria: cada refetch exitoso del coordinador publica
	// una señal "sync" que los clientes SSE usan para volver a leer.
	hub := realtime.NewHub()

	// El fetch del snapshot corre en una transacción de solo lectura para
	// que las cuatro colecciones salgan del mismo corte de la base.
	snapshotReader := postgres.NewSnapshotReader(pool)
	coordinator := appsync.New(
		snapshotReader, hub, log, time.Duration(cfg.Sync.DebounceMS)*time.Millisecond,
	)
	if err := coordinator.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("carga inicial del snapshot")
	}
	go coordinator.Run(ctx)

	// Conexión dedicada en LISTEN: los triggers del esquema notifican cada
	// cambio en orders/order_items y el coordinador rehace el fetch completo.
	listener := postgres.NewListener(pool, cfg.Sync.Channel, log)
	go listener.Run(ctx, func(postgres.ChangeEvent) {
		coordinator.Invalidate()
	})

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	settingUC := usecase.NewSettingUseCase(settingRepo)
	orderUC := apporder.NewUseCase(txRunner, orderRepo, coordinator, log)

	voucherGen := infrapdf.NewVoucherGenerator()

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
		Title:    "Pedidos Milhojas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		SettingUC:   settingUC,
		OrderUC:     orderUC,
		Coordinator: coordinator,
		Hub:         hub,
		Voucher:     voucherGen,
		JWTSecret:   cfg.JWT.Secret,
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

	// Detiene listener y coordinador antes de cerrar el servidor.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
