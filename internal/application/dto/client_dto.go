package dto

import (
	"time"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// ClientRequest body para POST /api/clients y PUT /api/clients/:id.
type ClientRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	TaxID       string `json:"taxId" validate:"required,max=30"`
	Email       string `json:"email" validate:"omitempty,email,max=200"`
	Phone       string `json:"phone" validate:"omitempty,max=40"`
	Address     string `json:"address" validate:"omitempty,max=300"`
	ContactName string `json:"contactName" validate:"omitempty,max=200"`
}

// ClientResponse cliente en respuestas (también embebido en la cotización).
type ClientResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"taxId"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	ContactName string    `json:"contactName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToEntity convierte el body en entidad (sin ID).
func (r ClientRequest) ToEntity() *entity.Client {
	return &entity.Client{
		Name:        r.Name,
		TaxID:       r.TaxID,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		ContactName: r.ContactName,
	}
}

// NewClientRequest body a partir de la entidad.
func NewClientRequest(c *entity.Client) ClientRequest {
	return ClientRequest{
		Name:        c.Name,
		TaxID:       c.TaxID,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		ContactName: c.ContactName,
	}
}

// NewClientResponse respuesta a partir de la entidad.
func NewClientResponse(c *entity.Client) *ClientResponse {
	if c == nil {
		return nil
	}
	return &ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		TaxID:       c.TaxID,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		ContactName: c.ContactName,
		CreatedAt:   c.CreatedAt,
	}
}

// ToEntity convierte la respuesta en entidad.
func (r *ClientResponse) ToEntity() *entity.Client {
	if r == nil {
		return nil
	}
	return &entity.Client{
		ID:          r.ID,
		Name:        r.Name,
		TaxID:       r.TaxID,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		ContactName: r.ContactName,
		CreatedAt:   r.CreatedAt,
	}
}
