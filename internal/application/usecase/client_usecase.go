package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/repository"
)

// ClientUseCase CRUD de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso con el puerto de persistencia.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// List todos los clientes.
func (uc *ClientUseCase) List(ctx context.Context) ([]dto.ClientResponse, error) {
	clients, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *dto.NewClientResponse(c))
	}
	return out, nil
}

// GetByID obtiene un cliente; ErrNotFound si no existe.
func (uc *ClientUseCase) GetByID(ctx context.Context, id int64) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewClientResponse(c), nil
}

// Create registra un cliente. NIT duplicado -> ErrDuplicate.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c := normalizeClient(in).ToEntity()
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewClientResponse(c), nil
}

// Update reemplaza los datos del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id int64, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c := normalizeClient(in).ToEntity()
	c.ID = id
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewClientResponse(c), nil
}

// Delete elimina el cliente; ErrConflict si tiene cotizaciones.
func (uc *ClientUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func normalizeClient(in dto.ClientRequest) dto.ClientRequest {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.ToUpper(strings.TrimSpace(in.TaxID))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactName = strings.TrimSpace(in.ContactName)
	return in
}
