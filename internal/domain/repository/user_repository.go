package repository

import (
	"context"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	// Upsert crea o actualiza por UID (email y rol se refrescan en cada sync).
	Upsert(ctx context.Context, u *entity.User) error
	GetByUID(ctx context.Context, uid string) (*entity.User, error)
	UpdateName(ctx context.Context, uid, name string) error
}

// InvitationRepository correos autorizados para entrar al sistema.
type InvitationRepository interface {
	// Save crea o reemplaza la invitación del correo.
	Save(ctx context.Context, inv *entity.Invitation) error
	GetByEmail(ctx context.Context, email string) (*entity.Invitation, error)
	List(ctx context.Context) ([]*entity.Invitation, error)
	// Delete devuelve domain.ErrNotFound si el correo no estaba autorizado.
	Delete(ctx context.Context, email string) error
}
