package web

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador/internal/application/session"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/pkg/format"
)

// Vistas JSON de la aplicación web. Los montos salen ya formateados.

type statusView struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var loadingView = statusView{Status: "loading", Message: "Cargando..."}

// alertView aviso de la interfaz (título + texto).
type alertView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type errorView struct {
	Error string `json:"error"`
}

type userView struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type sessionView struct {
	State  string     `json:"state"`
	User   *userView  `json:"user,omitempty"`
	Notice *alertView `json:"notice,omitempty"`
}

type clientView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TaxID       string `json:"taxId"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ContactName string `json:"contactName"`
}

type itemView struct {
	Quantity        int             `json:"quantity"`
	Description     string          `json:"description"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Total           decimal.Decimal `json:"total"`
	TotalText       string          `json:"totalText"`
}

type totalsView struct {
	Subtotal     string `json:"subtotal"`
	Tax          string `json:"tax"`
	Total        string `json:"total"`
	SubtotalText string `json:"subtotalText"`
	TaxText      string `json:"taxText"`
	TotalText    string `json:"totalText"`
}

type termsView struct {
	Warranty      string `json:"warranty"`
	DeliveryTime  string `json:"deliveryTime"`
	PaymentMethod string `json:"paymentMethod"`
	ElaboratedBy  string `json:"elaboratedBy"`
	Observations  string `json:"observations"`
}

// summaryView fila del listado de cotizaciones.
type summaryView struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Client    string `json:"client"`
	Date      string `json:"date"`
	Total     string `json:"total"`
	TotalText string `json:"totalText"`
}

type quotationView struct {
	ID     int64       `json:"id,omitempty"`
	Code   string      `json:"code,omitempty"`
	Date   string      `json:"date,omitempty"`
	Client *clientView `json:"client,omitempty"`
	Items  []itemView  `json:"items"`
	Totals totalsView  `json:"totals"`
	Terms  termsView   `json:"terms"`
}

type invitationView struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	InvitedBy string `json:"invitedBy,omitempty"`
	Date      string `json:"date"`
}

func newSessionView(snap session.Snapshot, notice *session.Notice) sessionView {
	v := sessionView{State: snap.State.String()}
	if snap.User != nil {
		v.User = newUserView(snap.User)
	}
	if notice != nil {
		v.Notice = &alertView{Title: notice.Title, Message: notice.Message}
	}
	return v
}

func newUserView(u *entity.SessionUser) *userView {
	return &userView{UID: u.UID, Email: u.Email, Name: u.Name, Role: string(u.Role)}
}

func newClientView(c *entity.Client) *clientView {
	if c == nil {
		return nil
	}
	return &clientView{
		ID:          c.ID,
		Name:        c.Name,
		TaxID:       c.TaxID,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		ContactName: c.ContactName,
	}
}

func newItemViews(items []entity.LineItem) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{
			Quantity:        it.Quantity,
			Description:     it.Description,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           it.LineTotal,
			TotalText:       format.Money(it.LineTotal),
		})
	}
	return out
}

func newTotalsView(subtotal, tax, total decimal.Decimal) totalsView {
	return totalsView{
		Subtotal:     format.Fixed(subtotal),
		Tax:          format.Fixed(tax),
		Total:        format.Fixed(total),
		SubtotalText: format.Currency(subtotal),
		TaxText:      format.Currency(tax),
		TotalText:    format.Currency(total),
	}
}

func newSummaryView(q *entity.Quotation) summaryView {
	client := ""
	if q.Client != nil {
		client = q.Client.Name
	}
	return summaryView{
		ID:        q.ID,
		Code:      format.QuotationCode(q.ID),
		Client:    format.NonEmpty(client, "Cliente eliminado"),
		Date:      format.Date(q.CreatedAt),
		Total:     format.Fixed(q.Total),
		TotalText: format.Currency(q.Total),
	}
}

func newQuotationView(q *entity.Quotation) quotationView {
	v := quotationView{
		ID:     q.ID,
		Client: newClientView(q.Client),
		Items:  newItemViews(q.Items),
		Totals: newTotalsView(q.Subtotal, q.Tax, q.Total),
		Terms: termsView{
			Warranty:      q.Terms.Warranty,
			DeliveryTime:  q.Terms.DeliveryTime,
			PaymentMethod: q.Terms.PaymentMethod,
			ElaboratedBy:  q.Terms.ElaboratedBy,
			Observations:  q.Terms.Observations,
		},
	}
	if q.ID != 0 {
		v.Code = format.QuotationCode(q.ID)
		v.Date = format.Date(q.CreatedAt)
	}
	return v
}

func newInvitationView(inv entity.Invitation) invitationView {
	return invitationView{
		Email:     inv.Email,
		Role:      string(inv.Role),
		InvitedBy: inv.InvitedBy,
		Date:      format.Date(inv.CreatedAt),
	}
}
