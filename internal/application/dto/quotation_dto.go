package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// QuotationItemDTO línea de cotización en el contrato REST.
// Total es el total de la línea (derivado) tal como lo calculó el editor.
type QuotationItemDTO struct {
	Quantity        int             `json:"quantity" validate:"min=0"`
	Description     string          `json:"description" validate:"max=1000"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Total           decimal.Decimal `json:"total"`
}

// QuotationRequest body para POST /api/quotations y PUT /api/quotations/:id.
type QuotationRequest struct {
	ClientID      int64              `json:"clientId" validate:"required,gt=0"`
	Items         []QuotationItemDTO `json:"items" validate:"required,min=1,dive"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Warranty      string             `json:"warranty" validate:"max=1000"`
	DeliveryTime  string             `json:"deliveryTime" validate:"max=300"`
	PaymentMethod string             `json:"paymentMethod" validate:"max=300"`
	ElaboratedBy  string             `json:"elaboratedBy" validate:"max=200"`
	Observations  string             `json:"observations" validate:"max=4000"`
}

// QuotationResponse cotización desnormalizada (cliente + líneas).
type QuotationResponse struct {
	ID            int64              `json:"id"`
	ClientID      int64              `json:"clientId"`
	Client        *ClientResponse    `json:"client,omitempty"`
	Items         []QuotationItemDTO `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Warranty      string             `json:"warranty"`
	DeliveryTime  string             `json:"deliveryTime"`
	PaymentMethod string             `json:"paymentMethod"`
	ElaboratedBy  string             `json:"elaboratedBy"`
	Observations  string             `json:"observations"`
	CreatedBy     string             `json:"createdBy,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// QuotationListResponse página de GET /api/quotations.
type QuotationListResponse struct {
	Data       []QuotationResponse `json:"data"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Total      int64               `json:"total"`
}

// StatsResponse GET /api/quotations/stats.
type StatsResponse struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalCount  int64           `json:"totalCount"`
}

// NewQuotationRequest body a partir de la entidad.
func NewQuotationRequest(q *entity.Quotation) QuotationRequest {
	return QuotationRequest{
		ClientID:      q.ClientID,
		Items:         itemsToDTO(q.Items),
		Subtotal:      q.Subtotal,
		Tax:           q.Tax,
		Total:         q.Total,
		Warranty:      q.Terms.Warranty,
		DeliveryTime:  q.Terms.DeliveryTime,
		PaymentMethod: q.Terms.PaymentMethod,
		ElaboratedBy:  q.Terms.ElaboratedBy,
		Observations:  q.Terms.Observations,
	}
}

// ToEntity convierte el body en entidad (sin ID ni fechas).
func (r QuotationRequest) ToEntity() *entity.Quotation {
	return &entity.Quotation{
		ClientID: r.ClientID,
		Items:    itemsFromDTO(r.Items),
		Subtotal: r.Subtotal,
		Tax:      r.Tax,
		Total:    r.Total,
		Terms: entity.Terms{
			Warranty:      r.Warranty,
			DeliveryTime:  r.DeliveryTime,
			PaymentMethod: r.PaymentMethod,
			ElaboratedBy:  r.ElaboratedBy,
			Observations:  r.Observations,
		},
	}
}

// NewQuotationResponse respuesta a partir de la entidad.
func NewQuotationResponse(q *entity.Quotation) *QuotationResponse {
	return &QuotationResponse{
		ID:            q.ID,
		ClientID:      q.ClientID,
		Client:        NewClientResponse(q.Client),
		Items:         itemsToDTO(q.Items),
		Subtotal:      q.Subtotal,
		Tax:           q.Tax,
		Total:         q.Total,
		Warranty:      q.Terms.Warranty,
		DeliveryTime:  q.Terms.DeliveryTime,
		PaymentMethod: q.Terms.PaymentMethod,
		ElaboratedBy:  q.Terms.ElaboratedBy,
		Observations:  q.Terms.Observations,
		CreatedBy:     q.CreatedBy,
		CreatedAt:     q.CreatedAt,
	}
}

// ToEntity convierte la respuesta en entidad.
func (r *QuotationResponse) ToEntity() *entity.Quotation {
	q := &entity.Quotation{
		ID:       r.ID,
		ClientID: r.ClientID,
		Client:   r.Client.ToEntity(),
		Items:    itemsFromDTO(r.Items),
		Subtotal: r.Subtotal,
		Tax:      r.Tax,
		Total:    r.Total,
		Terms: entity.Terms{
			Warranty:      r.Warranty,
			DeliveryTime:  r.DeliveryTime,
			PaymentMethod: r.PaymentMethod,
			ElaboratedBy:  r.ElaboratedBy,
			Observations:  r.Observations,
		},
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
	if q.ClientID == 0 && q.Client != nil {
		q.ClientID = q.Client.ID
	}
	return q
}

func itemsToDTO(items []entity.LineItem) []QuotationItemDTO {
	out := make([]QuotationItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, QuotationItemDTO{
			Quantity:        it.Quantity,
			Description:     it.Description,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           it.LineTotal,
		})
	}
	return out
}

func itemsFromDTO(items []QuotationItemDTO) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.LineItem{
			Quantity:        it.Quantity,
			Description:     it.Description,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			LineTotal:       it.Total,
		})
	}
	return out
}
