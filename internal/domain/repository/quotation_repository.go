package repository

import (
	"context"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// QuotationFilter búsqueda paginada de cotizaciones.
// Search compara contra nombre/NIT del cliente (ILIKE) o contra el id/correlativo.
type QuotationFilter struct {
	Search string
	Limit  int
	Offset int
}

// QuotationRepository define el puerto de persistencia para Quotation.
// Create/Update escriben cabecera y líneas; usar dentro de una transacción.
type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation) error
	GetByID(ctx context.Context, id int64) (*entity.Quotation, error)
	List(ctx context.Context, f QuotationFilter) ([]*entity.Quotation, int64, error)
	// Update reemplaza la cabecera y todas las líneas.
	Update(ctx context.Context, q *entity.Quotation) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*entity.QuotationStats, error)
}
