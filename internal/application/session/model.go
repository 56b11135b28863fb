package session

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/pkg/logger"
)

var errEmptySync = errors.New("session: sync sin usuario")

// Listener recibe cada snapshot nuevo del modelo.
type Listener func(Snapshot)

// Model estado de autenticación de una sesión.
//
// El único escritor del estado es el callback suscrito a OnAuthStateChanged;
// las operaciones (SignIn, Logout...) solo delegan en el proveedor de identidad.
type Model struct {
	idp    ports.IdentityProvider
	syncer ports.UserSyncer
	log    *logger.Logger

	mu          sync.Mutex
	snap        Snapshot
	gen         uint64
	notice      *Notice
	busy        bool
	listeners   map[int]Listener
	nextID      int
	unsubscribe func()
}

// NewModel crea un modelo en estado Uninitialized.
func NewModel(idp ports.IdentityProvider, syncer ports.UserSyncer, log *logger.Logger) *Model {
	if log == nil {
		log = logger.Nop()
	}
	return &Model{
		idp:       idp,
		syncer:    syncer,
		log:       log.Named("session"),
		listeners: make(map[int]Listener),
	}
}

// Start pasa a Loading y se suscribe al proveedor. El proveedor emite el estado actual
// de inmediato, así que al retornar el modelo ya procesó ese primer evento.
// Llamadas posteriores no hacen nada.
func (m *Model) Start(ctx context.Context) {
	m.mu.Lock()
	if m.snap.State != Uninitialized {
		m.mu.Unlock()
		return
	}
	m.snap = Snapshot{State: Loading}
	m.mu.Unlock()
	m.notify()

	unsub := m.idp.OnAuthStateChanged(m.onAuthState)

	m.mu.Lock()
	m.unsubscribe = unsub
	m.mu.Unlock()
}

// Close cancela la suscripción al proveedor.
func (m *Model) Close() {
	m.mu.Lock()
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (m *Model) onAuthState(ctx context.Context, id *ports.Identity) {
	if id == nil {
		m.mu.Lock()
		m.gen++
		m.snap = Snapshot{State: Anonymous}
		m.mu.Unlock()
		m.notify()
		return
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.snap = Snapshot{State: Loading}
	m.mu.Unlock()
	m.notify()

	u, err := m.syncer.Sync(ctx)
	if err == nil && u == nil {
		err = errEmptySync
	}

	m.mu.Lock()
	if gen != m.gen {
		// un evento más reciente ya decidió el estado
		m.mu.Unlock()
		return
	}
	if err != nil {
		m.gen++
		m.snap = Snapshot{State: Anonymous}
		if errors.Is(err, domain.ErrAccessDenied) {
			n := NoticeAccessDenied
			m.notice = &n
		}
		m.mu.Unlock()
		m.notify()

		if errors.Is(err, domain.ErrAccessDenied) {
			m.log.Warn().Str("email", id.Email).Msg("correo sin invitación, cerrando sesión")
		} else {
			m.log.Error().Err(err).Str("uid", id.UID).Msg("sincronización con el backend falló")
		}
		if err := m.idp.SignOut(ctx); err != nil {
			m.log.Error().Err(err).Msg("no se pudo cerrar la sesión del proveedor")
		}
		return
	}

	name := id.DisplayName
	if name == "" {
		name = u.Name
	}
	m.snap = Snapshot{State: Authenticated, User: &entity.SessionUser{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Name:        name,
		Role:        u.Role,
	}}
	m.mu.Unlock()
	m.notify()
}

// DenyAccess cierra una sesión ya autenticada cuando el backend rechaza el correo
// (invitación revocada). Deja el aviso de acceso denegado; Anonymous llega por la suscripción.
func (m *Model) DenyAccess(ctx context.Context) {
	m.mu.Lock()
	n := NoticeAccessDenied
	m.notice = &n
	email := ""
	if m.snap.User != nil {
		email = m.snap.User.Email
	}
	m.mu.Unlock()

	m.log.Warn().Str("email", email).Msg("invitación revocada, cerrando sesión")
	if err := m.idp.SignOut(ctx); err != nil {
		m.log.Error().Err(err).Msg("no se pudo cerrar la sesión del proveedor")
	}
}

// Snapshot devuelve el estado actual.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySnapshot(m.snap)
}

// Subscribe registra fn para cada cambio de estado. Devuelve la función para darse de baja.
func (m *Model) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Model) notify() {
	m.mu.Lock()
	snap := copySnapshot(m.snap)
	fns := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// TakeNotice devuelve el aviso pendiente (una sola vez).
func (m *Model) TakeNotice() *Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.notice
	m.notice = nil
	return n
}

// BeginAction marca una acción de usuario en curso. Una segunda acción se rechaza, no se encola.
func (m *Model) BeginAction() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return domain.ErrActionInProgress
	}
	m.busy = true
	return nil
}

// EndAction libera la marca de BeginAction.
func (m *Model) EndAction() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

// IDToken token vigente del proveedor; el cliente del backend lo pide en cada request.
func (m *Model) IDToken(ctx context.Context) (string, error) {
	return m.idp.IDToken(ctx)
}

// SignUp crea la cuenta en el proveedor. El alta inicia sesión y dispara la sincronización.
func (m *Model) SignUp(ctx context.Context, email, password, displayName string) error {
	return m.idp.CreateAccount(ctx, email, password, displayName)
}

// SignIn con correo y contraseña.
func (m *Model) SignIn(ctx context.Context, email, password string) error {
	return m.idp.SignIn(ctx, email, password)
}

// SignInWithProvider con la credencial de un proveedor social.
func (m *Model) SignInWithProvider(ctx context.Context, cred ports.ProviderCredential) error {
	return m.idp.SignInWithProvider(ctx, cred)
}

// RequestPasswordReset envía el correo de recuperación.
func (m *Model) RequestPasswordReset(ctx context.Context, email string) error {
	return m.idp.SendPasswordReset(ctx, email)
}

// Logout cierra la sesión del proveedor; la transición a Anonymous llega por la suscripción.
func (m *Model) Logout(ctx context.Context) error {
	return m.idp.SignOut(ctx)
}

func copySnapshot(s Snapshot) Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
