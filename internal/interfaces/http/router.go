package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/application/usecase"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC      *usecase.UserUseCase
	ClientUC    *usecase.ClientUseCase
	QuotationUC *usecase.QuotationUseCase
	Verifier    jwt.TokenVerifier
}

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Verifier))

	// Sync solo necesita un token válido: es quien crea el usuario.
	authHandler := NewAuthHandler(deps.UserUC)
	api.Post("/auth/sync", authHandler.Sync)

	// El resto exige usuario sincronizado. Sync queda antes de LoadUser y no llama Next.
	synced := api.Group("", LoadUser(deps.UserUC))

	profileHandler := NewProfileHandler(deps.UserUC)
	synced.Get("/profile", profileHandler.Get)
	synced.Put("/profile/name", profileHandler.UpdateName)

	clientHandler := NewClientHandler(deps.ClientUC)
	synced.Get("/clients", clientHandler.List)
	synced.Post("/clients", clientHandler.Create)
	synced.Put("/clients/:id", clientHandler.Update)
	synced.Delete("/clients/:id", clientHandler.Delete)

	quotationHandler := NewQuotationHandler(deps.QuotationUC)
	synced.Get("/quotations", quotationHandler.List)
	synced.Get("/quotations/stats", quotationHandler.Stats)
	synced.Get("/quotations/:id", quotationHandler.GetByID)
	synced.Post("/quotations", quotationHandler.Create)
	synced.Put("/quotations/:id", quotationHandler.Update)
	synced.Delete("/quotations/:id", quotationHandler.Delete)

	// Usuarios (solo ADMIN)
	users := synced.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/invite", userHandler.Invite)
	users.Get("/authorized", userHandler.ListAuthorized)
	users.Delete("/authorized/:email", userHandler.Revoke)
}
