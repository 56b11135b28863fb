package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/application/guard"
	"github.com/jhoicas/cotizador/internal/domain"
)

// backendError respuesta para fallas del backend. 401 cierra el flujo hacia /login;
// 403 lleva a /403; el resto muestra el mensaje de la pantalla (fallback).
// Un correo sin invitación vigente cierra la sesión y vuelve a /login con el aviso.
func backendError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		if s := currentSession(c); s != nil {
			s.Model.DenyAccess(c.UserContext())
		}
		return c.Redirect(guard.LoginPath, fiber.StatusSeeOther)
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Redirect(guard.LoginPath, fiber.StatusSeeOther)
	case errors.Is(err, domain.ErrForbidden):
		return c.Redirect(guard.ForbiddenPath, fiber.StatusSeeOther)
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(alertView{Title: "Error", Message: fallback})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusBadRequest).JSON(alertView{Title: "Error", Message: fallback})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(alertView{Title: "Error", Message: fallback})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(alertView{Title: "Error", Message: message})
}

func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}
