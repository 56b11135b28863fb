package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/application/usecase"
)

// UserHandler administración de correos autorizados (solo ADMIN).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Invite godoc
// @Summary      Autorizar un correo (solo ADMIN)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteRequest  true  "email y rol"
// @Success      201   {object}  dto.InvitationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/invite [post]
func (h *UserHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	inv, err := h.uc.Invite(c.UserContext(), GetEmail(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// ListAuthorized GET /api/users/authorized
func (h *UserHandler) ListAuthorized(c *fiber.Ctx) error {
	list, err := h.uc.ListAuthorized(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Revoke DELETE /api/users/authorized/:email
func (h *UserHandler) Revoke(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_EMAIL", Message: "correo inválido"})
	}
	if err := h.uc.Revoke(c.UserContext(), email); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
