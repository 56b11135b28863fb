package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/application/session"
	"github.com/jhoicas/cotizador/internal/infrastructure/backend"
	"github.com/jhoicas/cotizador/internal/infrastructure/identity/firebase"
	"github.com/jhoicas/cotizador/internal/infrastructure/identity/local"
	"github.com/jhoicas/cotizador/internal/infrastructure/metrics"
	"github.com/jhoicas/cotizador/internal/infrastructure/pdf"
	"github.com/jhoicas/cotizador/internal/infrastructure/sessionstore"
	"github.com/jhoicas/cotizador/internal/interfaces/web"
	"github.com/jhoicas/cotizador/pkg/config"
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
		Service: "web",
	})
	if cfg.Web.SessionSecret == "" {
		log.Fatal().Msg("WEB_SESSION_SECRET es requerido")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("api", cfg.Backend.URL).
		Str("auth", cfg.Auth.Provider).
		Msg("iniciando aplicación web")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Credenciales de sesión: Redis si está configurado, si no memoria del proceso.
	var store ports.CredentialStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		store = sessionstore.NewRedisStore(rdb, cfg.Web.SessionTTL)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: las sesiones no sobreviven a un reinicio")
		store = sessionstore.NewMemoryStore(cfg.Web.SessionTTL)
	}

	var idps ports.IdentityProviderFactory
	switch cfg.Auth.Provider {
	case config.ProviderLocal:
		idps = local.NewFactory(local.NewDirectory(), cfg.Auth.LocalSecret, cfg.Auth.LocalIssuer,
			time.Duration(cfg.Auth.TokenMinutes)*time.Minute)
	default:
		idps = firebase.NewFactory(firebase.Config{
			APIKey:      cfg.Firebase.APIKey,
			IdentityURL: cfg.Firebase.IdentityURL,
			TokenURL:    cfg.Firebase.TokenURL,
			ContinueURL: cfg.Firebase.ContinueURL,
		}, &http.Client{Timeout: 15 * time.Second}, log)
	}

	m := metrics.New("cotizador_web")

	api := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, log, backend.WithObserver(m.ObserveBackend))

	mgr := session.NewManager(idps, api, store, log, cfg.Web.SessionIdle)
	mgr.OnCountChange = m.SetSessions
	go mgr.Run(ctx)

	generator := pdf.NewMarotoQuotationGenerator(pdf.CompanyInfo{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
		Logo:    cfg.Company.Logo,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + " Web",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(logger.RequestLogger(log.Named("http")))
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name + "-web", "sessions": mgr.Len()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	web.Router(app, web.RouterDeps{
		Sessions: mgr,
		Cookie: web.SessionConfig{
			Secret: cfg.Web.SessionSecret,
			TTL:    cfg.Web.SessionTTL,
			Secure: cfg.Web.CookieSecure,
		},
		PDF:           generator,
		Log:           log,
		AuthRateLimit: cfg.Web.AuthRateLimit,
	})

	go func() {
		if err := app.Listen(cfg.Web.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor web finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación web detenida")
}
