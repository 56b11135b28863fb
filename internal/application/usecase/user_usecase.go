package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/repository"
)

// SyncInput identidad verificada del bearer token.
type SyncInput struct {
	UID   string
	Email string
	Name  string
}

// UserUseCase aplica reglas de negocio para usuarios e invitaciones.
type UserUseCase struct {
	users          repository.UserRepository
	invitations    repository.InvitationRepository
	bootstrapAdmin string
}

// NewUserUseCase construye el caso de uso. bootstrapAdmin es un correo que siempre entra como ADMIN
// (vacío = ninguno); sirve para el primer acceso antes de que existan invitaciones.
func NewUserUseCase(users repository.UserRepository, invitations repository.InvitationRepository, bootstrapAdmin string) *UserUseCase {
	return &UserUseCase{
		users:          users,
		invitations:    invitations,
		bootstrapAdmin: normalizeEmail(bootstrapAdmin),
	}
}

// Sync registra o refresca al usuario del token. Sin invitación para su correo -> ErrAccessDenied.
// El rol sale siempre de la invitación; el nombre guardado por el usuario se conserva.
func (uc *UserUseCase) Sync(ctx context.Context, in SyncInput) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if in.UID == "" || email == "" {
		return nil, domain.ErrUnauthorized
	}

	role, err := uc.roleFor(ctx, email)
	if err != nil {
		return nil, err
	}

	existing, err := uc.users.GetByUID(ctx, in.UID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if existing != nil && existing.Name != "" {
		name = existing.Name
	}
	if name == "" {
		name = defaultName(email)
	}

	u := &entity.User{UID: in.UID, Email: email, Name: name, Role: role}
	if err := uc.users.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(u), nil
}

// GetByUID usuario sincronizado; ErrNotFound si nunca pasó por Sync.
func (uc *UserUseCase) GetByUID(ctx context.Context, uid string) (*dto.UserResponse, error) {
	u, err := uc.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewUserResponse(u), nil
}

// Authorize resuelve el usuario y su rol vigente en cada request. El rol sale de la
// invitación actual, no del último Sync: revocar corta el acceso y re-invitar cambia el rol.
// Sin Sync previo -> ErrNotFound; sin invitación -> ErrAccessDenied.
func (uc *UserUseCase) Authorize(ctx context.Context, uid string) (*dto.UserResponse, error) {
	u, err := uc.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	role, err := uc.roleFor(ctx, normalizeEmail(u.Email))
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		u.Role = role
		if err := uc.users.Upsert(ctx, u); err != nil {
			return nil, err
		}
	}
	return dto.NewUserResponse(u), nil
}

// UpdateName cambia el nombre del usuario y devuelve el perfil actualizado.
func (uc *UserUseCase) UpdateName(ctx context.Context, uid string, in dto.UpdateNameRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.users.UpdateName(ctx, uid, name); err != nil {
		return nil, err
	}
	return uc.GetByUID(ctx, uid)
}

// Invite autoriza un correo con un rol. Invitar de nuevo reemplaza el rol.
func (uc *UserUseCase) Invite(ctx context.Context, invitedBy string, in dto.InviteRequest) (*dto.InvitationResponse, error) {
	role := entity.ParseRole(in.Role)
	email := normalizeEmail(in.Email)
	if !role.Valid() || email == "" {
		return nil, domain.ErrInvalidInput
	}
	inv := &entity.Invitation{Email: email, Role: role, InvitedBy: invitedBy}
	if err := uc.invitations.Save(ctx, inv); err != nil {
		return nil, err
	}
	out := dto.NewInvitationResponse(inv)
	return &out, nil
}

// ListAuthorized correos autorizados.
func (uc *UserUseCase) ListAuthorized(ctx context.Context) ([]dto.InvitationResponse, error) {
	list, err := uc.invitations.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvitationResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.NewInvitationResponse(inv))
	}
	return out, nil
}

// Revoke quita la autorización. Authorize la rechaza desde el siguiente request.
func (uc *UserUseCase) Revoke(ctx context.Context, email string) error {
	return uc.invitations.Delete(ctx, normalizeEmail(email))
}

func (uc *UserUseCase) roleFor(ctx context.Context, email string) (entity.Role, error) {
	if uc.bootstrapAdmin != "" && email == uc.bootstrapAdmin {
		return entity.RoleAdmin, nil
	}
	inv, err := uc.invitations.GetByEmail(ctx, email)
	if err != nil {
		return entity.RoleUnknown, err
	}
	if inv == nil || !inv.Role.Valid() {
		return entity.RoleUnknown, domain.ErrAccessDenied
	}
	return inv.Role, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// defaultName parte local del correo ("ana.lopez@x.com" -> "ana.lopez").
func defaultName(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
