package entity

import "time"

// Client representa un cliente al que se le emiten cotizaciones.
// Un cliente con cotizaciones asociadas no puede eliminarse (lo impide el backend).
type Client struct {
	ID          int64
	Name        string
	TaxID       string // NIT
	Email       string
	Phone       string
	Address     string
	ContactName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
