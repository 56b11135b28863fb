package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/application/guard"
	"github.com/jhoicas/cotizador/internal/application/session"
)

// RequireAuth deja pasar solo sesiones sincronizadas.
func RequireAuth() fiber.Handler {
	return guarded(guard.Authenticated)
}

// RequireAdmin sesiones sincronizadas con rol ADMIN; el resto va a /403.
func RequireAdmin() fiber.Handler {
	return guarded(guard.Admin)
}

func guarded(decide func(session.Snapshot) guard.Decision) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := currentSession(c)
		if s == nil {
			return c.Redirect(guard.LoginPath, fiber.StatusSeeOther)
		}
		d := decide(s.Model.Snapshot())
		switch d.Outcome {
		case guard.Allow:
			return c.Next()
		case guard.Redirect:
			return c.Redirect(d.Location, fiber.StatusSeeOther)
		default:
			// Mientras se resuelve la sesión no se muestra contenido protegido ni el login.
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusAccepted).JSON(loadingView)
		}
	}
}
