package web

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador/internal/application/quotation"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/pricing"
	"github.com/jhoicas/cotizador/pkg/logger"
)

const pageSize = 10

const (
	msgLoadFailed   = "No se pudo cargar la cotización"
	msgSaveFailed   = "No se pudo guardar"
	msgInvalidItems = "Revisa las filas: cantidad y precio no pueden ser negativos y el descuento va de 0 a 100"
)

type itemForm struct {
	Quantity        int             `json:"quantity"`
	Description     string          `json:"description"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

type quotationForm struct {
	ClientID      int64      `json:"clientId"`
	Items         []itemForm `json:"items"`
	Warranty      string     `json:"warranty"`
	DeliveryTime  string     `json:"deliveryTime"`
	PaymentMethod string     `json:"paymentMethod"`
	ElaboratedBy  string     `json:"elaboratedBy"`
	Observations  string     `json:"observations"`
}

func (f quotationForm) lineItems() []entity.LineItem {
	out := make([]entity.LineItem, 0, len(f.Items))
	for _, it := range f.Items {
		out = append(out, entity.LineItem{
			Quantity:        it.Quantity,
			Description:     it.Description,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
		})
	}
	return out
}

// draft arma el borrador del editor; los totales de línea se recalculan siempre.
func (f quotationForm) draft(id int64) *quotation.Draft {
	return &quotation.Draft{
		ID:       id,
		ClientID: f.ClientID,
		Sheet:    pricing.NewSheet(f.lineItems()...),
		Terms: entity.Terms{
			Warranty:      f.Warranty,
			DeliveryTime:  f.DeliveryTime,
			PaymentMethod: f.PaymentMethod,
			ElaboratedBy:  f.ElaboratedBy,
			Observations:  f.Observations,
		},
	}
}

type listView struct {
	Items      []summaryView `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	HasMore    bool          `json:"hasMore"`
}

type previewView struct {
	Items  []itemView `json:"items"`
	Totals totalsView `json:"totals"`
}

type savedView struct {
	alertView
	Quotation quotationView `json:"quotation"`
}

// QuotationHandler listado, editor, detalle y PDF de cotizaciones.
type QuotationHandler struct {
	pdf quotation.PDFGenerator
	log *logger.Logger
}

// NewQuotationHandler construye el handler con el generador de PDF.
func NewQuotationHandler(pdf quotation.PDFGenerator, log *logger.Logger) *QuotationHandler {
	return &QuotationHandler{pdf: pdf, log: log.Named("web_quotations")}
}

// List GET /quotations?page=1&search=
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	res, err := currentSession(c).Backend.Quotations().List(c.UserContext(), page, pageSize, c.Query("search"))
	if err != nil {
		return backendError(c, err, "No se pudieron cargar las cotizaciones")
	}
	v := listView{
		Items:      make([]summaryView, 0, len(res.Items)),
		Page:       res.Page,
		TotalPages: res.TotalPages,
		HasMore:    res.Page < res.TotalPages,
	}
	for i := range res.Items {
		v.Items = append(v.Items, newSummaryView(&res.Items[i]))
	}
	return c.JSON(v)
}

// New GET /quotations/new : formulario vacío con términos por defecto.
func (h *QuotationHandler) New(c *fiber.Ctx) error {
	preparer := ""
	if u := currentSession(c).Model.Snapshot().User; u != nil {
		preparer = u.Name
	}
	return c.JSON(newQuotationView(quotation.NewDraft(preparer).Quotation()))
}

// Edit GET /quotations/edit/:id
func (h *QuotationHandler) Edit(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, msgLoadFailed)
	}
	s := currentSession(c)
	d, err := quotation.NewEditorUseCase(s.Backend.Quotations()).Load(c.UserContext(), id)
	if err != nil {
		return backendError(c, err, msgLoadFailed)
	}
	return c.JSON(newQuotationView(d.Quotation()))
}

// Preview POST /quotations/preview : recalcula líneas y totales sin guardar.
func (h *QuotationHandler) Preview(c *fiber.Ctx) error {
	var in quotationForm
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Datos inválidos")
	}
	items, totals := quotation.Preview(in.lineItems())
	return c.JSON(previewView{
		Items:  newItemViews(items),
		Totals: newTotalsView(totals.Subtotal, totals.Tax, totals.Total),
	})
}

// Create POST /quotations
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	return h.submit(c, 0)
}

// Update PUT /quotations/:id
func (h *QuotationHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, msgSaveFailed)
	}
	return h.submit(c, id)
}

// submit una operación a la vez por sesión; la validación local corre antes de llamar al backend.
func (h *QuotationHandler) submit(c *fiber.Ctx, id int64) error {
	var in quotationForm
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, msgSaveFailed)
	}
	s := currentSession(c)
	if err := s.Model.BeginAction(); err != nil {
		return c.Status(fiber.StatusConflict).JSON(alertView{Title: "Error", Message: "Ya hay una operación en curso"})
	}
	defer s.Model.EndAction()

	saved, err := quotation.NewEditorUseCase(s.Backend.Quotations()).Submit(c.UserContext(), in.draft(id))
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrClientRequired):
		return badRequest(c, "Debes seleccionar un cliente")
	case errors.Is(err, domain.ErrEmptyQuotation):
		return badRequest(c, "La cotización no puede estar vacía")
	case errors.Is(err, domain.ErrInvalidInput):
		h.log.Debug().Err(err).Int64("id", id).Msg("cotización inválida")
		return badRequest(c, msgInvalidItems)
	default:
		h.log.Error().Err(err).Int64("id", id).Msg("guardar cotización")
		return backendError(c, err, msgSaveFailed)
	}

	if id == 0 {
		return c.Status(fiber.StatusCreated).JSON(savedView{
			alertView: alertView{Title: "¡Creado!", Message: "Cotización guardada exitosamente"},
			Quotation: newQuotationView(saved),
		})
	}
	return c.JSON(savedView{
		alertView: alertView{Title: "¡Actualizado!", Message: "La cotización ha sido modificada"},
		Quotation: newQuotationView(saved),
	})
}

// Get GET /quotations/:id
func (h *QuotationHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, msgLoadFailed)
	}
	q, err := currentSession(c).Backend.Quotations().Get(c.UserContext(), id)
	if err != nil {
		return backendError(c, err, msgLoadFailed)
	}
	return c.JSON(newQuotationView(q))
}

// PDF GET /quotations/:id/pdf
func (h *QuotationHandler) PDF(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, msgLoadFailed)
	}
	uc := quotation.NewDocumentUseCase(currentSession(c).Backend.Quotations(), h.pdf)
	data, filename, err := uc.Download(c.UserContext(), id)
	if err != nil {
		h.log.Error().Err(err).Int64("id", id).Msg("generar PDF")
		return backendError(c, err, "No se pudo generar el PDF")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(data)
}

// Delete DELETE /quotations/:id
func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	const failed = "No se pudo eliminar la cotización."
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, failed)
	}
	if err := currentSession(c).Backend.Quotations().Delete(c.UserContext(), id); err != nil {
		return backendError(c, err, failed)
	}
	return c.JSON(alertView{Title: "¡Eliminado!", Message: "La cotización ha sido borrada."})
}
