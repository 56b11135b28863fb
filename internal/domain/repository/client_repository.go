package repository

import (
	"context"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	// Delete devuelve domain.ErrConflict si el cliente tiene cotizaciones.
	Delete(ctx context.Context, id int64) error
}
