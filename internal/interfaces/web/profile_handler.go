package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

type profileView struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func newProfileView(u *entity.User) profileView {
	return profileView{UID: u.UID, Email: u.Email, Name: u.Name, Role: string(u.Role)}
}

type profileForm struct {
	Name string `json:"name"`
}

// GetProfile GET /profile
func GetProfile(c *fiber.Ctx) error {
	u, err := currentSession(c).Backend.Profile().GetProfile(c.UserContext())
	if err != nil {
		return backendError(c, err, "No se pudo cargar el perfil.")
	}
	return c.JSON(newProfileView(u))
}

// UpdateProfile PUT /profile : solo el nombre es editable.
func UpdateProfile(c *fiber.Ctx) error {
	const failed = "No se pudo actualizar el perfil."
	var in profileForm
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, failed)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return badRequest(c, "El nombre no puede estar vacío.")
	}
	u, err := currentSession(c).Backend.Profile().UpdateName(c.UserContext(), name)
	if err != nil {
		return backendError(c, err, failed)
	}
	return c.JSON(fiber.Map{
		"title":   "Perfil actualizado",
		"message": "Tu nombre ha sido modificado correctamente.",
		"profile": newProfileView(u),
	})
}
