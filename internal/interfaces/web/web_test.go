package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/application/session"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/infrastructure/identity/local"
	"github.com/jhoicas/cotizador/internal/infrastructure/sessionstore"
	"github.com/jhoicas/cotizador/internal/interfaces/web"
	"github.com/jhoicas/cotizador/pkg/jwt"
	"github.com/jhoicas/cotizador/pkg/logger"
)

const (
	testSecret = "secreto-de-prueba"
	testIssuer = "cotizador-test"
)

// ── Backend en memoria ───────────────────────────────────

type memBackend struct {
	mu      sync.Mutex
	roles   map[string]entity.Role // correo -> rol; sin entrada = sin invitación
	names   map[string]string
	clients map[int64]entity.Client
	quotes  map[int64]entity.Quotation
	nextID  int64
}

func newMemBackend() *memBackend {
	return &memBackend{
		roles:   map[string]entity.Role{},
		names:   map[string]string{},
		clients: map[int64]entity.Client{1: {ID: 1, Name: "Acme SAS", TaxID: "900123"}},
		quotes:  map[int64]entity.Quotation{},
		nextID:  1,
	}
}

func (b *memBackend) For(tokens ports.TokenSource) ports.Backend {
	return &memSession{b: b, tokens: tokens}
}

type memSession struct {
	b      *memBackend
	tokens ports.TokenSource
}

// caller resuelve el correo del token igual que lo haría la API.
func (s *memSession) caller(ctx context.Context) (*jwt.IdentityClaims, error) {
	tok, err := s.tokens.IDToken(ctx)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	claims, err := jwt.ParseIdentity(testSecret, testIssuer, tok)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (s *memSession) Sync(ctx context.Context) (*entity.User, error) {
	claims, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	role, ok := s.b.roles[claims.Email]
	if !ok {
		return nil, domain.ErrAccessDenied
	}
	return &entity.User{UID: claims.UID(), Email: claims.Email, Name: s.b.names[claims.Email], Role: role}, nil
}

func (s *memSession) Profile() ports.ProfileService      { return memProfile{s} }
func (s *memSession) Clients() ports.ClientService       { return memClients{s.b} }
func (s *memSession) Quotations() ports.QuotationService { return memQuotes{b: s.b, s: s} }
func (s *memSession) Users() ports.UserAdminService      { return memUsers{s.b} }

type memProfile struct{ s *memSession }

func (p memProfile) GetProfile(ctx context.Context) (*entity.User, error) {
	return p.s.Sync(ctx)
}

func (p memProfile) UpdateName(ctx context.Context, name string) (*entity.User, error) {
	claims, err := p.s.caller(ctx)
	if err != nil {
		return nil, err
	}
	p.s.b.mu.Lock()
	p.s.b.names[claims.Email] = name
	p.s.b.mu.Unlock()
	return p.s.Sync(ctx)
}

type memClients struct{ b *memBackend }

func (m memClients) List(context.Context) ([]entity.Client, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	out := make([]entity.Client, 0, len(m.b.clients))
	for _, c := range m.b.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memClients) Create(_ context.Context, c *entity.Client) (*entity.Client, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	m.b.nextID++
	c.ID = m.b.nextID
	m.b.clients[c.ID] = *c
	return c, nil
}

func (m memClients) Update(_ context.Context, id int64, c *entity.Client) (*entity.Client, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	if _, ok := m.b.clients[id]; !ok {
		return nil, domain.ErrNotFound
	}
	c.ID = id
	m.b.clients[id] = *c
	return c, nil
}

func (m memClients) Delete(_ context.Context, id int64) error {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	for _, q := range m.b.quotes {
		if q.ClientID == id {
			return domain.ErrConflict
		}
	}
	if _, ok := m.b.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.b.clients, id)
	return nil
}

// memQuotes Stats revisa la invitación vigente en cada llamada, igual que LoadUser en la API.
type memQuotes struct {
	b *memBackend
	s *memSession
}

func (m memQuotes) List(_ context.Context, page, limit int, _ string) (*ports.QuotationPage, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	items := make([]entity.Quotation, 0, len(m.b.quotes))
	for _, q := range m.b.quotes {
		items = append(items, q)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	total := len(items)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return &ports.QuotationPage{Items: items[start:end], Page: page, TotalPages: pages, Total: int64(total)}, nil
}

func (m memQuotes) Get(_ context.Context, id int64) (*entity.Quotation, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	q, ok := m.b.quotes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &q, nil
}

func (m memQuotes) Create(_ context.Context, q *entity.Quotation) (*entity.Quotation, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	c, ok := m.b.clients[q.ClientID]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	m.b.nextID++
	q.ID = m.b.nextID
	q.Client = &c
	q.CreatedAt = time.Now()
	m.b.quotes[q.ID] = *q
	return q, nil
}

func (m memQuotes) Update(_ context.Context, id int64, q *entity.Quotation) (*entity.Quotation, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	if _, ok := m.b.quotes[id]; !ok {
		return nil, domain.ErrNotFound
	}
	q.ID = id
	m.b.quotes[id] = *q
	return q, nil
}

func (m memQuotes) Delete(_ context.Context, id int64) error {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	if _, ok := m.b.quotes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.b.quotes, id)
	return nil
}

func (m memQuotes) Stats(ctx context.Context) (*entity.QuotationStats, error) {
	if _, err := m.s.Sync(ctx); err != nil {
		return nil, err
	}
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	st := &entity.QuotationStats{TotalAmount: decimal.Zero}
	for _, q := range m.b.quotes {
		st.TotalCount++
		st.TotalAmount = st.TotalAmount.Add(q.Total)
	}
	return st, nil
}

type memUsers struct{ b *memBackend }

func (m memUsers) Invite(_ context.Context, email string, role entity.Role) (*entity.Invitation, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	m.b.roles[email] = role
	return &entity.Invitation{Email: email, Role: role, CreatedAt: time.Now()}, nil
}

func (m memUsers) ListAuthorized(context.Context) ([]entity.Invitation, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	out := make([]entity.Invitation, 0, len(m.b.roles))
	for email, role := range m.b.roles {
		out = append(out, entity.Invitation{Email: email, Role: role})
	}
	return out, nil
}

func (m memUsers) Revoke(_ context.Context, email string) error {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	if _, ok := m.b.roles[email]; !ok {
		return domain.ErrNotFound
	}
	delete(m.b.roles, email)
	return nil
}

type fakePDF struct{}

func (fakePDF) Generate(_ context.Context, q *entity.Quotation) ([]byte, error) {
	return []byte("%PDF-1.4 prueba"), nil
}

// ── Aplicación de prueba ─────────────────────────────────

type browser struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func newTestApp(t *testing.T, backend *memBackend) *fiber.App {
	t.Helper()
	dir := local.NewDirectory()
	idps := local.NewFactory(dir, testSecret, testIssuer, time.Hour)
	mgr := session.NewManager(idps, backend, sessionstore.NewMemoryStore(time.Hour), logger.Nop(), 0)

	app := fiber.New()
	web.Router(app, web.RouterDeps{
		Sessions: mgr,
		Cookie:   web.SessionConfig{Secret: testSecret, TTL: time.Hour},
		PDF:      fakePDF{},
		Log:      logger.Nop(),
	})
	return app
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app}
}

// do envía la request con la cookie de sesión y guarda la que devuelva el servidor.
func (b *browser) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	b.t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		if c.Name == web.CookieName {
			b.cookie = c
		}
	}
	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") && len(raw) > 0 && raw[0] == '{' {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

// signIn inicia sesión con Google (el id_token del proveedor local es el correo).
func (b *browser) signIn(email string) (*http.Response, map[string]interface{}) {
	return b.do(http.MethodPost, "/auth/google", map[string]string{"idToken": email})
}

func validQuotation(clientID int64) map[string]interface{} {
	return map[string]interface{}{
		"clientId": clientID,
		"items": []map[string]interface{}{
			{"quantity": 2, "description": "Cámara IP", "unitPrice": "100", "discountPercent": "10"},
		},
		"warranty": "12 meses",
	}
}

// ── Tests ────────────────────────────────────────────────

func TestWeb_SinSesionRedirigeALogin(t *testing.T) {
	b := newBrowser(t, newTestApp(t, newMemBackend()))

	resp, _ := b.do(http.MethodGet, "/", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	require.NotNil(t, b.cookie, "la primera visita emite la cookie de sesión")
	assert.True(t, b.cookie.HttpOnly)

	resp, body := b.do(http.MethodGet, "/login", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", body["state"])
}

func TestWeb_LoginInvitadoYDashboard(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	b := newBrowser(t, newTestApp(t, backend))

	resp, body := b.signIn("ana@acme.co")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "authenticated", body["state"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "USER", user["role"])

	resp, body = b.do(http.MethodGet, "/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["totalCount"])

	resp, _ = b.do(http.MethodGet, "/login", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestWeb_LoginSinInvitacionMuestraAccesoDenegado(t *testing.T) {
	b := newBrowser(t, newTestApp(t, newMemBackend()))

	resp, body := b.signIn("intruso@otro.co")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "anonymous", body["state"])
	notice := body["notice"].(map[string]interface{})
	assert.Equal(t, session.NoticeAccessDenied.Title, notice["title"])

	// el aviso se muestra una sola vez y la sesión quedó cerrada
	resp, body = b.do(http.MethodGet, "/login", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, body["notice"])
	resp, _ = b.do(http.MethodGet, "/", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestWeb_LoginConContrasenaErronea(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	b := newBrowser(t, newTestApp(t, backend))

	resp, _ := b.do(http.MethodPost, "/auth/signup", map[string]string{
		"name": "Ana", "email": "ana@acme.co", "password": "secreto123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = b.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp, body := b.do(http.MethodPost, "/auth/login", map[string]string{"email": "ana@acme.co", "password": "otra-cosa"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Correo o contraseña incorrectos.", body["error"])

	resp, _ = b.do(http.MethodPost, "/auth/signup", map[string]string{
		"name": "Ana", "email": "ana@acme.co", "password": "secreto123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestWeb_RecuperarContrasenaSinCorreo(t *testing.T) {
	b := newBrowser(t, newTestApp(t, newMemBackend()))

	resp, body := b.do(http.MethodPost, "/auth/reset", map[string]string{"email": " "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Por favor, ingresa tu correo electrónico primero.", body["error"])

	resp, body = b.do(http.MethodPost, "/auth/reset", map[string]string{"email": "ana@acme.co"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Correo enviado", body["title"])
}

func TestWeb_AdminSoloParaAdministradores(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	backend.roles["jefe@acme.co"] = entity.RoleAdmin
	app := newTestApp(t, backend)

	user := newBrowser(t, app)
	user.signIn("ana@acme.co")
	resp, _ := user.do(http.MethodGet, "/admin/users", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/403", resp.Header.Get("Location"))

	admin := newBrowser(t, app)
	admin.signIn("jefe@acme.co")
	resp, body := admin.do(http.MethodPost, "/admin/users", map[string]string{"email": "Nuevo@Acme.co"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Se ha autorizado a nuevo@acme.co con éxito.", body["message"])
	assert.Equal(t, entity.RoleUser, backend.roles["nuevo@acme.co"])

	resp, _ = admin.do(http.MethodPost, "/admin/users", map[string]string{"email": "x@acme.co", "role": "ROOT"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = admin.do(http.MethodDelete, "/admin/users/nuevo@acme.co", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acceso revocado correctamente", body["message"])
	_, ok := backend.roles["nuevo@acme.co"]
	assert.False(t, ok)
}

func TestWeb_CotizacionValidacionLocal(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	b := newBrowser(t, newTestApp(t, backend))
	b.signIn("ana@acme.co")

	resp, body := b.do(http.MethodPost, "/quotations", validQuotation(0))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Debes seleccionar un cliente", body["message"])

	empty := validQuotation(1)
	empty["items"] = []map[string]interface{}{{"quantity": 0, "description": "", "unitPrice": "0", "discountPercent": "0"}}
	resp, body = b.do(http.MethodPost, "/quotations", empty)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "La cotización no puede estar vacía", body["message"])
	assert.Empty(t, backend.quotes)
}

func TestWeb_CotizacionFilaInvalidaMensajeParaUsuario(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	b := newBrowser(t, newTestApp(t, backend))
	b.signIn("ana@acme.co")

	bad := validQuotation(1)
	bad["items"] = []map[string]interface{}{{"quantity": 2, "description": "Cámara IP", "unitPrice": "100", "discountPercent": "150"}}
	resp, body := b.do(http.MethodPost, "/quotations", bad)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	msg, _ := body["message"].(string)
	assert.True(t, strings.HasPrefix(msg, "Revisa las filas"), msg)
	assert.NotContains(t, msg, "cotización:")
	assert.NotContains(t, msg, "entrada inválida")
	assert.Empty(t, backend.quotes)
}

func TestWeb_CotizacionCrearEditarYDescargar(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	b := newBrowser(t, newTestApp(t, backend))
	b.signIn("ana@acme.co")

	resp, body := b.do(http.MethodGet, "/quotations/new", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	terms := body["terms"].(map[string]interface{})
	assert.Equal(t, entity.DefaultDeliveryTime, terms["deliveryTime"])
	assert.Len(t, body["items"], 1)

	resp, body = b.do(http.MethodPost, "/quotations", validQuotation(1))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "¡Creado!", body["title"])
	saved := body["quotation"].(map[string]interface{})
	id := int64(saved["id"].(float64))
	require.Contains(t, backend.quotes, id)
	assert.Equal(t, "180.00", backend.quotes[id].Subtotal.StringFixed(2))

	path := "/quotations/" + strconv.FormatInt(id, 10)
	resp, body = b.do(http.MethodGet, "/quotations/edit/"+strconv.FormatInt(id, 10), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)

	edited := validQuotation(1)
	edited["items"] = []map[string]interface{}{
		{"quantity": 2, "description": "Cámara IP", "unitPrice": "100", "discountPercent": "0"},
	}
	resp, body = b.do(http.MethodPut, path, edited)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "¡Actualizado!", body["title"])
	assert.Equal(t, "200.00", backend.quotes[id].Subtotal.StringFixed(2))

	resp, _ = b.do(http.MethodGet, path+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	resp, body = b.do(http.MethodGet, "/quotations?page=1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 1)
	assert.Equal(t, false, body["hasMore"])

	// con cotizaciones asociadas el cliente no se puede borrar
	resp, body = b.do(http.MethodDelete, "/clients/1", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "No se pudo borrar (tal vez tiene cotizaciones asociadas).", body["message"])

	resp, body = b.do(http.MethodDelete, path, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "¡Eliminado!", body["title"])

	resp, _ = b.do(http.MethodGet, path, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWeb_PreviewRecalculaTotales(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	b := newBrowser(t, newTestApp(t, backend))
	b.signIn("ana@acme.co")

	resp, body := b.do(http.MethodPost, "/quotations/preview", validQuotation(1))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	totals := body["totals"].(map[string]interface{})
	assert.Equal(t, "180.00", totals["subtotal"])
	assert.Equal(t, "201.60", totals["total"])
}

func TestWeb_PerfilActualizaNombre(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	b := newBrowser(t, newTestApp(t, backend))
	b.signIn("ana@acme.co")

	resp, _ := b.do(http.MethodPut, "/profile", map[string]string{"name": "  "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := b.do(http.MethodPut, "/profile", map[string]string{"name": "Ana María"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Perfil actualizado", body["title"])
	assert.Equal(t, "Ana María", backend.names["ana@acme.co"])
}

func TestFilterClients(t *testing.T) {
	clients := []entity.Client{
		{ID: 1, Name: "Acme SAS", TaxID: "900123"},
		{ID: 2, Name: "Beta Ltda", TaxID: "800555"},
	}
	assert.Len(t, web.FilterClients(clients, "acme"), 1)
	assert.Len(t, web.FilterClients(clients, "555"), 1)
	assert.Empty(t, web.FilterClients(clients, "zeta"))
}

func TestWeb_InvitacionRevocadaCierraSesionAbierta(t *testing.T) {
	backend := newMemBackend()
	backend.roles["ana@acme.co"] = entity.RoleUser
	b := newBrowser(t, newTestApp(t, backend))

	resp, _ := b.signIn("ana@acme.co")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = b.do(http.MethodGet, "/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	backend.mu.Lock()
	delete(backend.roles, "ana@acme.co")
	backend.mu.Unlock()

	resp, _ = b.do(http.MethodGet, "/", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, body := b.do(http.MethodGet, "/login", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", body["state"])
	notice, ok := body["notice"].(map[string]interface{})
	require.True(t, ok, "el login muestra el aviso de acceso denegado")
	assert.Equal(t, session.NoticeAccessDenied.Title, notice["title"])

	resp, _ = b.do(http.MethodGet, "/", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode, "la sesión quedó cerrada")
}
