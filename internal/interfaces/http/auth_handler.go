package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/application/usecase"
)

// AuthHandler sincronización de la sesión del proveedor de identidad con el backend.
type AuthHandler struct {
	uc *usecase.UserUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *usecase.UserUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Sync POST /api/auth/sync
func (h *AuthHandler) Sync(c *fiber.Ctx) error {
	user, err := h.uc.Sync(c.UserContext(), usecase.SyncInput{
		UID:   GetUID(c),
		Email: GetEmail(c),
		Name:  GetName(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

// ProfileHandler perfil del usuario en sesión.
type ProfileHandler struct {
	uc *usecase.UserUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.UserUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Get GET /api/profile
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	user, err := h.uc.GetByUID(c.UserContext(), GetUID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

// UpdateName PUT /api/profile/name
func (h *ProfileHandler) UpdateName(c *fiber.Ctx) error {
	var in dto.UpdateNameRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	user, err := h.uc.UpdateName(c.UserContext(), GetUID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}
