package ports

import (
	"context"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// UserSyncer intercambia la sesión del proveedor por el usuario del backend (POST /auth/sync).
// Un 403 del backend se reporta como domain.ErrAccessDenied.
type UserSyncer interface {
	Sync(ctx context.Context) (*entity.User, error)
}

// ProfileService perfil del usuario en sesión.
type ProfileService interface {
	GetProfile(ctx context.Context) (*entity.User, error)
	UpdateName(ctx context.Context, name string) (*entity.User, error)
}

// ClientService colección de clientes del backend.
type ClientService interface {
	List(ctx context.Context) ([]entity.Client, error)
	Create(ctx context.Context, c *entity.Client) (*entity.Client, error)
	Update(ctx context.Context, id int64, c *entity.Client) (*entity.Client, error)
	Delete(ctx context.Context, id int64) error
}

// QuotationPage página del listado de cotizaciones.
type QuotationPage struct {
	Items      []entity.Quotation
	Page       int
	TotalPages int
	Total      int64
}

// QuotationService colección de cotizaciones del backend.
type QuotationService interface {
	List(ctx context.Context, page, limit int, search string) (*QuotationPage, error)
	Get(ctx context.Context, id int64) (*entity.Quotation, error)
	Create(ctx context.Context, q *entity.Quotation) (*entity.Quotation, error)
	Update(ctx context.Context, id int64, q *entity.Quotation) (*entity.Quotation, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*entity.QuotationStats, error)
}

// UserAdminService administración de correos autorizados (solo ADMIN).
type UserAdminService interface {
	Invite(ctx context.Context, email string, role entity.Role) (*entity.Invitation, error)
	ListAuthorized(ctx context.Context) ([]entity.Invitation, error)
	Revoke(ctx context.Context, email string) error
}

// Backend agrupa los servicios de recursos de una sesión.
type Backend interface {
	UserSyncer
	Profile() ProfileService
	Clients() ClientService
	Quotations() QuotationService
	Users() UserAdminService
}

// BackendFactory crea el cliente del backend atado a la fuente de tokens de una sesión.
type BackendFactory interface {
	For(tokens TokenSource) Backend
}
