package quotation

import (
	"fmt"

	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/pricing"
)

// Draft estado del formulario de cotización. ID == 0 es una cotización nueva.
type Draft struct {
	ID       int64
	ClientID int64
	Client   *entity.Client
	Sheet    *pricing.Sheet
	Terms    entity.Terms
}

// NewDraft formulario vacío con los términos por defecto y una fila en blanco.
func NewDraft(preparer string) *Draft {
	return &Draft{Sheet: pricing.NewSheet(), Terms: entity.DefaultTerms(preparer)}
}

// DraftFrom carga una cotización guardada en el formulario; las líneas se recalculan.
func DraftFrom(q *entity.Quotation) *Draft {
	d := &Draft{
		ID:       q.ID,
		ClientID: q.ClientID,
		Client:   q.Client,
		Sheet:    pricing.NewSheet(q.Items...),
		Terms:    q.Terms,
	}
	if d.ClientID == 0 && q.Client != nil {
		d.ClientID = q.Client.ID
	}
	return d
}

// SelectClient fija el cliente de la cotización.
func (d *Draft) SelectClient(c *entity.Client) {
	d.Client = c
	d.ClientID = 0
	if c != nil {
		d.ClientID = c.ID
	}
}

// Validate revisa el formulario antes de enviarlo; ningún error aquí llega al backend.
func (d *Draft) Validate() error {
	if d.ClientID <= 0 {
		return domain.ErrClientRequired
	}
	if d.Sheet == nil || d.Sheet.Totals().Total.IsZero() {
		return domain.ErrEmptyQuotation
	}
	if err := pricing.ValidateAll(d.Sheet.Items()); err != nil {
		return fmt.Errorf("cotización: %w", err)
	}
	return nil
}

// Quotation arma la cotización a enviar con la foto de los totales.
func (d *Draft) Quotation() *entity.Quotation {
	t := d.Sheet.Totals()
	return &entity.Quotation{
		ID:       d.ID,
		ClientID: d.ClientID,
		Client:   d.Client,
		Items:    d.Sheet.Items(),
		Subtotal: t.Subtotal,
		Tax:      t.Tax,
		Total:    t.Total,
		Terms:    d.Terms,
	}
}
