package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/cotizador/docs"
	"github.com/jhoicas/cotizador/internal/application/usecase"
	"github.com/jhoicas/cotizador/internal/infrastructure/metrics"
	"github.com/jhoicas/cotizador/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cotizador/internal/interfaces/http"
	"github.com/jhoicas/cotizador/pkg/config"
	"github.com/jhoicas/cotizador/pkg/jwt"
	"github.com/jhoicas/cotizador/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("auth", cfg.Auth.Provider).
		Msg("iniciando API")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	invitationRepo := postgres.NewInvitationRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	userUC := usecase.NewUserUseCase(userRepo, invitationRepo, cfg.Auth.BootstrapAdmin)
	clientUC := usecase.NewClientUseCase(clientRepo)
	quotationUC := usecase.NewQuotationUseCase(quotationRepo, txRunner)

	var verifier jwt.TokenVerifier
	switch cfg.Auth.Provider {
	case config.ProviderLocal:
		verifier = jwt.HMACVerifier{Secret: cfg.Auth.LocalSecret, Issuer: cfg.Auth.LocalIssuer}
	default:
		verifier = jwt.NewFirebaseVerifier(cfg.Firebase.ProjectID, cfg.Firebase.CertsURL,
			&http.Client{Timeout: 10 * time.Second})
	}

	m := metrics.New("cotizador_api")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + " API",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(logger.RequestLogger(log.Named("http")))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cotizador API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Type("json")
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		UserUC:      userUC,
		ClientUC:    clientUC,
		QuotationUC: quotationUC,
		Verifier:    verifier,
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

	log.Info().Msg("API detenida")
}
