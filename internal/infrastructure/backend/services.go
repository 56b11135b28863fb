package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
)

var (
	_ ports.Backend          = (*sessionBackend)(nil)
	_ ports.ProfileService   = profileService{}
	_ ports.ClientService    = clientService{}
	_ ports.QuotationService = quotationService{}
	_ ports.UserAdminService = userAdminService{}
)

// sessionBackend servicios atados a la fuente de tokens de una sesión.
type sessionBackend struct {
	c      *Client
	tokens ports.TokenSource
}

func (b *sessionBackend) do(ctx context.Context, method, path string, in, out interface{}) error {
	return b.c.do(ctx, b.tokens, method, path, in, out)
}

// Sync POST /auth/sync. Un 403 significa que el correo no tiene invitación.
func (b *sessionBackend) Sync(ctx context.Context) (*entity.User, error) {
	var res dto.UserResponse
	if err := b.do(ctx, "POST", "/auth/sync", nil, &res); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, fmt.Errorf("%w: %v", domain.ErrAccessDenied, err)
		}
		return nil, err
	}
	return res.ToEntity(), nil
}

func (b *sessionBackend) Profile() ports.ProfileService      { return profileService{b} }
func (b *sessionBackend) Clients() ports.ClientService       { return clientService{b} }
func (b *sessionBackend) Quotations() ports.QuotationService { return quotationService{b} }
func (b *sessionBackend) Users() ports.UserAdminService      { return userAdminService{b} }

// ── Perfil ────────────────────────────────────────────────────────────────────

type profileService struct{ b *sessionBackend }

func (s profileService) GetProfile(ctx context.Context) (*entity.User, error) {
	var res dto.UserResponse
	if err := s.b.do(ctx, "GET", "/profile", nil, &res); err != nil {
		return nil, err
	}
	return res.ToEntity(), nil
}

func (s profileService) UpdateName(ctx context.Context, name string) (*entity.User, error) {
	var res dto.UserResponse
	if err := s.b.do(ctx, "PUT", "/profile/name", dto.UpdateNameRequest{Name: name}, &res); err != nil {
		return nil, err
	}
	return res.ToEntity(), nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

type clientService struct{ b *sessionBackend }

func (s clientService) List(ctx context.Context) ([]entity.Client, error) {
	var res []dto.ClientResponse
	if err := s.b.do(ctx, "GET", "/clients", nil, &res); err != nil {
		return nil, err
	}
	out := make([]entity.Client, 0, len(res))
	for i := range res {
		out = append(out, *res[i].ToEntity())
	}
	return out, nil
}

func (s clientService) Create(ctx context.Context, c *entity.Client) (*entity.Client, error) {
	var res dto.ClientResponse
	if err := s.b.do(ctx, "POST", "/clients", dto.NewClientRequest(c), &res); err != nil {
		return nil, err
	}
	return res.ToEntity(), nil
}

func (s clientService) Update(ctx context.Context, id int64, c *entity.Client) (*entity.Client, error) {
	var res dto.ClientResponse
	if err := s.b.do(ctx, "PUT", "/clients/"+strconv.FormatInt(id, 10), dto.NewClientRequest(c), &res); err != nil {
		return nil, err
	}
	return res.ToEntity(), nil
}

func (s clientService) Delete(ctx context.Context, id int64) error {
	return s.b.do(ctx, "DELETE", "/clients/"+strconv.FormatInt(id, 10), nil, nil)
}

// ── Cotizaciones ──────────────────────────────────────────────────────────────

type quotationService struct{ b *sessionBackend }

func (s quotationService) List(ctx context.Context, page, limit int, search string) (*ports.QuotationPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if search != "" {
		q.Set("search", search)
	}
	var res dto.QuotationListResponse
	if err := s.b.do(ctx, "GET", "/quotations?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	out := &ports.QuotationPage{Page: res.Page, TotalPages: res.TotalPages, Total: res.Total}
	if out.Page == 0 {
		out.Page = page
	}
	out.Items = make([]entity.Quotation, 0, len(res.Data))
	for i := range res.Data {
		out.Items = append(out.Items, *res.Data[i].ToEntity())
	}
	return out, nil
}

func (s quotationService) Get(ctx context.Context, id int64) (*entity.Quotation, error) {
	var res dto.QuotationResponse
	if err := s.b.do(ctx, "GET", "/quotations/"+strconv.FormatInt(id, 10), nil, &res); err != nil {
		return nil, err
	}
	return res.ToEntity(), nil
}

func (s quotationService) Create(ctx context.Context, q *entity.Quotation) (*entity.Quotation, error) {
	var res dto.QuotationResponse
	if err := s.b.do(ctx, "POST", "/quotations", dto.NewQuotationRequest(q), &res); err != nil {
		return nil, err
	}
	return res.ToEntity(), nil
}

func (s quotationService) Update(ctx context.Context, id int64, q *entity.Quotation) (*entity.Quotation, error) {
	var res dto.QuotationResponse
	if err := s.b.do(ctx, "PUT", "/quotations/"+strconv.FormatInt(id, 10), dto.NewQuotationRequest(q), &res); err != nil {
		return nil, err
	}
	return res.ToEntity(), nil
}

func (s quotationService) Delete(ctx context.Context, id int64) error {
	return s.b.do(ctx, "DELETE", "/quotations/"+strconv.FormatInt(id, 10), nil, nil)
}

func (s quotationService) Stats(ctx context.Context) (*entity.QuotationStats, error) {
	var res dto.StatsResponse
	if err := s.b.do(ctx, "GET", "/quotations/stats", nil, &res); err != nil {
		return nil, err
	}
	return &entity.QuotationStats{TotalAmount: res.TotalAmount, TotalCount: res.TotalCount}, nil
}

// ── Usuarios (ADMIN) ──────────────────────────────────────────────────────────

type userAdminService struct{ b *sessionBackend }

func (s userAdminService) Invite(ctx context.Context, email string, role entity.Role) (*entity.Invitation, error) {
	var res dto.InvitationResponse
	if err := s.b.do(ctx, "POST", "/users/invite", dto.InviteRequest{Email: email, Role: string(role)}, &res); err != nil {
		return nil, err
	}
	inv := res.ToEntity()
	return &inv, nil
}

func (s userAdminService) ListAuthorized(ctx context.Context) ([]entity.Invitation, error) {
	var res []dto.InvitationResponse
	if err := s.b.do(ctx, "GET", "/users/authorized", nil, &res); err != nil {
		return nil, err
	}
	out := make([]entity.Invitation, 0, len(res))
	for _, r := range res {
		out = append(out, r.ToEntity())
	}
	return out, nil
}

func (s userAdminService) Revoke(ctx context.Context, email string) error {
	return s.b.do(ctx, "DELETE", "/users/authorized/"+url.PathEscape(email), nil, nil)
}
