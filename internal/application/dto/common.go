package dto

// PageRequest paginación para listados (GET /quotations?page=&limit=&search=).
type PageRequest struct {
	Page   int    `query:"page" validate:"min=0"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
	Search string `query:"search" validate:"max=100"`
}

// DefaultPage aplica valores por defecto si Page/Limit son cero.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
}

// Offset desplazamiento SQL para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages calcula el número de páginas para total registros (mínimo 1).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
