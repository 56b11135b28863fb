package quotation

import (
	"context"
	"fmt"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/pkg/format"
)

// DocumentUseCase genera el PDF de una cotización guardada.
type DocumentUseCase struct {
	quotations ports.QuotationService
	generator  PDFGenerator
}

// NewDocumentUseCase construye el caso de uso inyectando sus dependencias.
func NewDocumentUseCase(quotations ports.QuotationService, generator PDFGenerator) *DocumentUseCase {
	return &DocumentUseCase{quotations: quotations, generator: generator}
}

// Download carga la cotización desnormalizada y genera el documento.
//
// Retorna:
//   - (pdfBytes, "cotizacion_CO00007.pdf", nil) si todo sale bien.
//   - domain.ErrNotFound si la cotización no existe.
func (uc *DocumentUseCase) Download(ctx context.Context, id int64) (pdfBytes []byte, filename string, err error) {
	q, err := uc.quotations.Get(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cotización: %w", err)
	}
	if q == nil {
		return nil, "", domain.ErrNotFound
	}

	pdfBytes, err = uc.generator.Generate(ctx, q)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, "cotizacion_" + format.QuotationCode(q.ID) + ".pdf", nil
}
