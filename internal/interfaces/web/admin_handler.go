package web

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

type inviteForm struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListAuthorized GET /admin/users
func ListAuthorized(c *fiber.Ctx) error {
	list, err := currentSession(c).Backend.Users().ListAuthorized(c.UserContext())
	if err != nil {
		return backendError(c, err, "No se pudo cargar la lista de accesos")
	}
	out := make([]invitationView, 0, len(list))
	for _, inv := range list {
		out = append(out, newInvitationView(inv))
	}
	return c.JSON(out)
}

// Invite POST /admin/users : sin rol explícito se invita como USER.
func Invite(c *fiber.Ctx) error {
	const failed = "No se pudo enviar la invitación"
	var in inviteForm
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, failed)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return badRequest(c, msgEmailRequired)
	}
	role := entity.RoleUser
	if in.Role != "" {
		role = entity.ParseRole(in.Role)
		if !role.Valid() {
			return badRequest(c, "Rol inválido")
		}
	}
	inv, err := currentSession(c).Backend.Users().Invite(c.UserContext(), email, role)
	if err != nil {
		return backendError(c, err, failed)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"title":      "¡Invitación enviada!",
		"message":    "Se ha autorizado a " + inv.Email + " con éxito.",
		"invitation": newInvitationView(*inv),
	})
}

// Revoke DELETE /admin/users/:email
func Revoke(c *fiber.Ctx) error {
	const failed = "No se pudo eliminar el acceso"
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || strings.TrimSpace(email) == "" {
		return badRequest(c, failed)
	}
	if err := currentSession(c).Backend.Users().Revoke(c.UserContext(), email); err != nil {
		return backendError(c, err, failed)
	}
	return c.JSON(alertView{Title: "Eliminado", Message: "Acceso revocado correctamente"})
}
