package quotation

import (
	"context"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// PDFGenerator genera el documento imprimible de una cotización (implementado en infrastructure/pdf).
type PDFGenerator interface {
	Generate(ctx context.Context, q *entity.Quotation) ([]byte, error)
}
