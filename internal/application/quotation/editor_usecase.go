package quotation

import (
	"context"
	"fmt"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/pricing"
)

// EditorUseCase alta y edición de cotizaciones desde el formulario.
type EditorUseCase struct {
	quotations ports.QuotationService
}

// NewEditorUseCase construye el caso de uso sobre el servicio de la sesión.
func NewEditorUseCase(quotations ports.QuotationService) *EditorUseCase {
	return &EditorUseCase{quotations: quotations}
}

// Load trae una cotización existente para editarla.
func (uc *EditorUseCase) Load(ctx context.Context, id int64) (*Draft, error) {
	q, err := uc.quotations.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("editor: cargar cotización %d: %w", id, err)
	}
	return DraftFrom(q), nil
}

// Preview recalcula líneas y totales de una lista editada sin guardar nada.
func Preview(items []entity.LineItem) ([]entity.LineItem, pricing.Totals) {
	s := pricing.NewSheet(items...)
	return s.Items(), s.Totals()
}

// Submit valida y guarda: crea si el borrador es nuevo, reemplaza completa si no.
// Un error de validación retorna antes de cualquier llamada de red.
func (uc *EditorUseCase) Submit(ctx context.Context, d *Draft) (*entity.Quotation, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	q := d.Quotation()
	if d.ID == 0 {
		saved, err := uc.quotations.Create(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("editor: crear: %w", err)
		}
		return saved, nil
	}
	saved, err := uc.quotations.Update(ctx, d.ID, q)
	if err != nil {
		return nil, fmt.Errorf("editor: actualizar %d: %w", d.ID, err)
	}
	return saved, nil
}
