package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/cotizador/internal/application/quotation"
	"github.com/jhoicas/cotizador/internal/application/session"
	"github.com/jhoicas/cotizador/pkg/logger"
)

// RouterDeps dependencias de la aplicación web.
type RouterDeps struct {
	Sessions *session.Manager
	Cookie   SessionConfig
	PDF      quotation.PDFGenerator
	Log      *logger.Logger
	// AuthRateLimit intentos por minuto y por IP en los POST de acceso; 0 deshabilita.
	AuthRateLimit int
}

// Router registra las pantallas del navegador. Todas pasan por la sesión;
// las protegidas además por RequireAuth o RequireAdmin.
func Router(app *fiber.App, deps RouterDeps) {
	root := app.Group("", SessionMiddleware(deps.Cookie, deps.Sessions))

	// ── Acceso ─────────────────────────────────────────────
	authHandler := NewAuthHandler(deps.Log)
	root.Get("/login", authHandler.LoginPage)
	root.Get("/403", authHandler.Forbidden)
	root.Post("/logout", authHandler.Logout)

	access := root.Group("/auth")
	if deps.AuthRateLimit > 0 {
		access.Use(limiter.New(limiter.Config{
			Max:        deps.AuthRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(alertView{
					Title:   "Error",
					Message: "Demasiados intentos. Espera un momento e intenta de nuevo.",
				})
			},
		}))
	}
	access.Post("/login", authHandler.Login)
	access.Post("/signup", authHandler.Signup)
	access.Post("/google", authHandler.Google)
	access.Post("/reset", authHandler.PasswordReset)

	// ── Pantallas con sesión ───────────────────────────────
	private := root.Group("", RequireAuth())
	private.Get("/", Dashboard)

	private.Get("/profile", GetProfile)
	private.Put("/profile", UpdateProfile)

	private.Get("/clients", ListClients)
	private.Get("/clients/search", SearchClients)
	private.Post("/clients", CreateClient)
	private.Put("/clients/:id", UpdateClient)
	private.Delete("/clients/:id", DeleteClient)

	quotationHandler := NewQuotationHandler(deps.PDF, deps.Log)
	private.Get("/quotations", quotationHandler.List)
	private.Get("/quotations/new", quotationHandler.New)
	private.Get("/quotations/edit/:id", quotationHandler.Edit)
	private.Post("/quotations/preview", quotationHandler.Preview)
	private.Post("/quotations", quotationHandler.Create)
	private.Put("/quotations/:id", quotationHandler.Update)
	private.Get("/quotations/:id/pdf", quotationHandler.PDF)
	private.Get("/quotations/:id", quotationHandler.Get)
	private.Delete("/quotations/:id", quotationHandler.Delete)

	// ── Administración ─────────────────────────────────────
	admin := root.Group("/admin", RequireAdmin())
	admin.Get("/users", ListAuthorized)
	admin.Post("/users", Invite)
	admin.Delete("/users/:email", Revoke)
}
