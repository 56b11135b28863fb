package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
)

type clientForm struct {
	Name        string `json:"name"`
	TaxID       string `json:"taxId"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ContactName string `json:"contactName"`
}

func (f clientForm) entity() *entity.Client {
	return &entity.Client{
		Name:        strings.TrimSpace(f.Name),
		TaxID:       strings.TrimSpace(f.TaxID),
		Email:       strings.TrimSpace(f.Email),
		Phone:       strings.TrimSpace(f.Phone),
		Address:     strings.TrimSpace(f.Address),
		ContactName: strings.TrimSpace(f.ContactName),
	}
}

type clientSavedView struct {
	alertView
	Client *clientView `json:"client"`
}

// ListClients GET /clients
func ListClients(c *fiber.Ctx) error {
	clients, err := currentSession(c).Backend.Clients().List(c.UserContext())
	if err != nil {
		return backendError(c, err, "No se pudieron cargar los clientes")
	}
	return c.JSON(clientViews(clients))
}

// SearchClients GET /clients/search?q= filtra por nombre (sin distinguir mayúsculas) o NIT.
// Una consulta vacía no devuelve resultados.
func SearchClients(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.JSON([]clientView{})
	}
	clients, err := currentSession(c).Backend.Clients().List(c.UserContext())
	if err != nil {
		return backendError(c, err, "No se pudieron cargar los clientes")
	}
	return c.JSON(clientViews(FilterClients(clients, q)))
}

// FilterClients coincidencia parcial por nombre (case-insensitive) o por NIT.
func FilterClients(clients []entity.Client, query string) []entity.Client {
	lq := strings.ToLower(query)
	out := make([]entity.Client, 0, len(clients))
	for _, cl := range clients {
		if strings.Contains(strings.ToLower(cl.Name), lq) || strings.Contains(cl.TaxID, query) {
			out = append(out, cl)
		}
	}
	return out
}

// CreateClient POST /clients
func CreateClient(c *fiber.Ctx) error {
	var in clientForm
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "No se pudo guardar el cliente.")
	}
	saved, err := currentSession(c).Backend.Clients().Create(c.UserContext(), in.entity())
	if err != nil {
		return backendError(c, err, "No se pudo guardar el cliente.")
	}
	return c.Status(fiber.StatusCreated).JSON(clientSavedView{
		alertView: alertView{Title: "¡Creado!", Message: "El cliente ha sido registrado."},
		Client:    newClientView(saved),
	})
}

// UpdateClient PUT /clients/:id
func UpdateClient(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "No se pudo guardar el cliente.")
	}
	var in clientForm
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "No se pudo guardar el cliente.")
	}
	saved, err := currentSession(c).Backend.Clients().Update(c.UserContext(), id, in.entity())
	if err != nil {
		return backendError(c, err, "No se pudo guardar el cliente.")
	}
	return c.JSON(clientSavedView{
		alertView: alertView{Title: "¡Actualizado!", Message: "El cliente ha sido modificado."},
		Client:    newClientView(saved),
	})
}

// DeleteClient DELETE /clients/:id
func DeleteClient(c *fiber.Ctx) error {
	const failed = "No se pudo borrar (tal vez tiene cotizaciones asociadas)."
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, failed)
	}
	if err := currentSession(c).Backend.Clients().Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(alertView{Title: "Error", Message: failed})
		}
		return backendError(c, err, failed)
	}
	return c.JSON(alertView{Title: "¡Borrado!", Message: "El cliente ha sido eliminado."})
}

func clientViews(clients []entity.Client) []clientView {
	out := make([]clientView, 0, len(clients))
	for i := range clients {
		out = append(out, *newClientView(&clients[i]))
	}
	return out
}
