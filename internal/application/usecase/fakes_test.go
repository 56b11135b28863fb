package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memClients struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.Client
	// inUse ids con cotizaciones asociadas.
	inUse map[int64]bool
}

func newMemClients() *memClients {
	return &memClients{rows: map[int64]entity.Client{}, inUse: map[int64]bool{}}
}

func (m *memClients) Create(_ context.Context, c *entity.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	m.rows[c.ID] = *c
	return nil
}

func (m *memClients) GetByID(_ context.Context, id int64) (*entity.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memClients) List(_ context.Context) ([]*entity.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Client, 0, len(m.rows))
	for _, c := range m.rows {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memClients) Update(_ context.Context, c *entity.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[c.ID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memClients) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inUse[id] {
		return domain.ErrConflict
	}
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memQuotes struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]entity.Quotation
	clients *memClients
}

func newMemQuotes(clients *memClients) *memQuotes {
	return &memQuotes{rows: map[int64]entity.Quotation{}, clients: clients}
}

func (m *memQuotes) Create(_ context.Context, q *entity.Quotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	q.ID = m.nextID
	q.CreatedAt = time.Now()
	m.rows[q.ID] = *q
	m.clients.inUse[q.ClientID] = true
	return nil
}

func (m *memQuotes) GetByID(ctx context.Context, id int64) (*entity.Quotation, error) {
	m.mu.Lock()
	q, ok := m.rows[id]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	q.Client, _ = m.clients.GetByID(ctx, q.ClientID)
	return &q, nil
}

func (m *memQuotes) List(ctx context.Context, f repository.QuotationFilter) ([]*entity.Quotation, int64, error) {
	m.mu.Lock()
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var matched []*entity.Quotation
	for _, id := range ids {
		q, _ := m.GetByID(ctx, id)
		if f.Search != "" && !strings.Contains(strings.ToLower(q.Client.Name), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, q)
	}
	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (m *memQuotes) Update(_ context.Context, q *entity.Quotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	q.CreatedBy, q.CreatedAt = old.CreatedBy, old.CreatedAt
	m.rows[q.ID] = *q
	return nil
}

func (m *memQuotes) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memQuotes) Stats(_ context.Context) (*entity.QuotationStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &entity.QuotationStats{}
	for _, q := range m.rows {
		s.TotalAmount = s.TotalAmount.Add(q.Total)
		s.TotalCount++
	}
	return s, nil
}

// memTx ejecuta fn sin transacción real; runs cuenta las invocaciones.
type memTx struct {
	quotes  *memQuotes
	clients *memClients
	runs    int
}

func (t *memTx) Run(_ context.Context, fn func(repository.QuotationRepository, repository.ClientRepository) error) error {
	t.runs++
	return fn(t.quotes, t.clients)
}

type memUsers struct {
	rows map[string]entity.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]entity.User{}} }

func (m *memUsers) Upsert(_ context.Context, u *entity.User) error {
	if old, ok := m.rows[u.UID]; ok {
		u.CreatedAt = old.CreatedAt
	} else {
		u.CreatedAt = time.Now()
	}
	m.rows[u.UID] = *u
	return nil
}

func (m *memUsers) GetByUID(_ context.Context, uid string) (*entity.User, error) {
	u, ok := m.rows[uid]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) UpdateName(_ context.Context, uid, name string) error {
	u, ok := m.rows[uid]
	if !ok {
		return domain.ErrNotFound
	}
	u.Name = name
	m.rows[uid] = u
	return nil
}

type memInvitations struct {
	rows map[string]entity.Invitation
}

func newMemInvitations() *memInvitations {
	return &memInvitations{rows: map[string]entity.Invitation{}}
}

func (m *memInvitations) Save(_ context.Context, inv *entity.Invitation) error {
	inv.CreatedAt = time.Now()
	m.rows[inv.Email] = *inv
	return nil
}

func (m *memInvitations) GetByEmail(_ context.Context, email string) (*entity.Invitation, error) {
	inv, ok := m.rows[email]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (m *memInvitations) List(_ context.Context) ([]*entity.Invitation, error) {
	out := make([]*entity.Invitation, 0, len(m.rows))
	for _, inv := range m.rows {
		inv := inv
		out = append(out, &inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memInvitations) Delete(_ context.Context, email string) error {
	if _, ok := m.rows[email]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, email)
	return nil
}
