package session

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/pkg/logger"
)

// Session una sesión de navegador: su modelo y el cliente del backend atado a su token.
type Session struct {
	ID      string
	Model   *Model
	Backend ports.Backend

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager mantiene un Model por id de sesión de navegador.
//
// La credencial exportable del proveedor se guarda en el CredentialStore al quedar
// Authenticated y se borra al quedar Anonymous; así un refresh o un reinicio del proceso
// restaura la sesión pasando por Loading sin mostrar el login.
type Manager struct {
	idps     ports.IdentityProviderFactory
	backends ports.BackendFactory
	store    ports.CredentialStore
	log      *logger.Logger
	idle     time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	// OnCountChange opcional; recibe el número de sesiones en memoria (métricas).
	OnCountChange func(n int)
}

// NewManager crea el manager. idle <= 0 deshabilita el barrido.
func NewManager(idps ports.IdentityProviderFactory, backends ports.BackendFactory, store ports.CredentialStore, log *logger.Logger, idle time.Duration) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		idps:     idps,
		backends: backends,
		store:    store,
		log:      log.Named("session_manager"),
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get devuelve la sesión id, creándola si no está en memoria.
// Si hay credencial guardada, el modelo arranca en segundo plano y la primera
// lectura lo ve en Loading. Sin credencial arranca de inmediato (queda Anonymous).
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		s.touch(m.now())
		return s
	}
	m.mu.Unlock()

	stored, err := m.store.Load(ctx, id)
	if err != nil {
		m.log.Warn().Err(err).Str("session", id).Msg("no se pudo leer la credencial guardada")
		stored = nil
	}

	idp := m.idps.New(ctx, stored)
	model := NewModel(idp, nil, m.log)
	backend := m.backends.For(model)
	model.syncer = backend
	s := &Session{ID: id, Model: model, Backend: backend, lastSeen: m.now()}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		// otra request la creó mientras leíamos el store
		m.mu.Unlock()
		existing.touch(m.now())
		return existing
	}
	m.sessions[id] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.countChanged(n)

	model.Subscribe(m.persist(id, idp))
	if stored != nil {
		go model.Start(context.WithoutCancel(ctx))
	} else {
		model.Start(ctx)
	}
	return s
}

func (m *Manager) persist(id string, idp ports.IdentityProvider) Listener {
	return func(snap Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		switch snap.State {
		case Authenticated:
			cred := idp.Export()
			if cred == nil {
				return
			}
			if err := m.store.Save(ctx, id, cred); err != nil {
				m.log.Error().Err(err).Str("session", id).Msg("no se pudo guardar la credencial")
			}
		case Anonymous:
			if err := m.store.Delete(ctx, id); err != nil {
				m.log.Error().Err(err).Str("session", id).Msg("no se pudo borrar la credencial")
			}
		}
	}
}

// Drop libera la sesión de memoria (la credencial guardada no se toca).
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	if ok {
		s.Model.Close()
		m.countChanged(n)
	}
}

// Len número de sesiones en memoria.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep libera las sesiones sin uso por más de idle. Devuelve cuántas liberó.
func (m *Manager) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range stale {
		s.Model.Close()
	}
	if len(stale) > 0 {
		m.countChanged(n)
		m.log.Debug().Int("released", len(stale)).Msg("sesiones inactivas liberadas")
	}
	return len(stale)
}

// Run barre sesiones inactivas periódicamente hasta que ctx termine.
func (m *Manager) Run(ctx context.Context) {
	if m.idle <= 0 {
		return
	}
	t := time.NewTicker(m.idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

func (m *Manager) countChanged(n int) {
	if m.OnCountChange != nil {
		m.OnCountChange(n)
	}
}
