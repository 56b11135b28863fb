package dto

import (
	"time"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// UserResponse usuario del backend (respuesta de /auth/sync y /profile).
type UserResponse struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateNameRequest body para PUT /api/profile/name.
type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// InviteRequest body para POST /api/users/invite.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email,max=200"`
	Role  string `json:"role" validate:"required,oneof=USER ADMIN"`
}

// InvitationResponse correo autorizado.
type InvitationResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invitedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse respuesta a partir de la entidad.
func NewUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		UID:       u.UID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// ToEntity convierte la respuesta en entidad; el rol desconocido queda como RoleUnknown.
func (r *UserResponse) ToEntity() *entity.User {
	return &entity.User{
		UID:       r.UID,
		Email:     r.Email,
		Name:      r.Name,
		Role:      entity.ParseRole(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

// NewInvitationResponse respuesta a partir de la entidad.
func NewInvitationResponse(inv *entity.Invitation) InvitationResponse {
	return InvitationResponse{
		Email:     inv.Email,
		Role:      string(inv.Role),
		InvitedBy: inv.InvitedBy,
		CreatedAt: inv.CreatedAt,
	}
}

// ToEntity convierte la respuesta en entidad.
func (r InvitationResponse) ToEntity() entity.Invitation {
	return entity.Invitation{
		Email:     r.Email,
		Role:      entity.ParseRole(r.Role),
		InvitedBy: r.InvitedBy,
		CreatedAt: r.CreatedAt,
	}
}
