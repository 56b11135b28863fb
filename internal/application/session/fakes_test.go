package session

import (
	"context"
	"sync"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// fakeIDP emite los cambios de estado de forma síncrona, igual que los proveedores reales.
type fakeIDP struct {
	mu        sync.Mutex
	current   *ports.Identity
	listeners map[int]ports.AuthStateListener
	next      int
	signOuts  int
	signInErr error
	stored    *ports.StoredCredential
}

func newFakeIDP(stored *ports.StoredCredential) *fakeIDP {
	f := &fakeIDP{listeners: map[int]ports.AuthStateListener{}, stored: stored}
	if stored != nil {
		f.current = &ports.Identity{UID: stored.UID, Email: stored.Email, DisplayName: stored.DisplayName}
	}
	return f
}

func (f *fakeIDP) emit(ctx context.Context) {
	f.mu.Lock()
	id := f.current
	fns := make([]ports.AuthStateListener, 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(ctx, id)
	}
}

func (f *fakeIDP) CreateAccount(ctx context.Context, email, _ string, displayName string) error {
	f.mu.Lock()
	f.current = &ports.Identity{UID: "uid-" + email, Email: email, DisplayName: displayName}
	f.mu.Unlock()
	f.emit(ctx)
	return nil
}

func (f *fakeIDP) SignIn(ctx context.Context, email, _ string) error {
	if f.signInErr != nil {
		return f.signInErr
	}
	f.mu.Lock()
	f.current = &ports.Identity{UID: "uid-" + email, Email: email}
	f.mu.Unlock()
	f.emit(ctx)
	return nil
}

func (f *fakeIDP) SignInWithProvider(ctx context.Context, cred ports.ProviderCredential) error {
	return f.SignIn(ctx, cred.IDToken+"@google.com", "")
}

func (f *fakeIDP) SendPasswordReset(context.Context, string) error { return nil }

func (f *fakeIDP) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.current = nil
	f.signOuts++
	f.mu.Unlock()
	f.emit(ctx)
	return nil
}

func (f *fakeIDP) OnAuthStateChanged(fn ports.AuthStateListener) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.listeners[id] = fn
	cur := f.current
	f.mu.Unlock()
	fn(context.Background(), cur)
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *fakeIDP) IDToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return "", ports.ErrNotSignedIn
	}
	return "token-" + f.current.UID, nil
}

func (f *fakeIDP) Export() *ports.StoredCredential {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil
	}
	return &ports.StoredCredential{UID: f.current.UID, Email: f.current.Email, DisplayName: f.current.DisplayName, RefreshToken: "refresh"}
}

func (f *fakeIDP) signedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current != nil
}

func (f *fakeIDP) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

type syncFunc func(ctx context.Context) (*entity.User, error)

func (s syncFunc) Sync(ctx context.Context) (*entity.User, error) { return s(ctx) }

func syncAs(role entity.Role, name string) syncFunc {
	return func(context.Context) (*entity.User, error) {
		return &entity.User{UID: "uid", Name: name, Role: role}, nil
	}
}

func syncErr(err error) syncFunc {
	return func(context.Context) (*entity.User, error) { return nil, err }
}

// fakeBackend solo implementa Sync; el resto de servicios no se usa aquí.
type fakeBackend struct {
	ports.Backend
	sync syncFunc
}

func (b fakeBackend) Sync(ctx context.Context) (*entity.User, error) { return b.sync(ctx) }

type fakeBackends struct {
	sync   syncFunc
	tokens []ports.TokenSource
}

func (f *fakeBackends) For(tokens ports.TokenSource) ports.Backend {
	f.tokens = append(f.tokens, tokens)
	return fakeBackend{sync: f.sync}
}

type fakeFactory struct {
	mu      sync.Mutex
	created []*fakeIDP
}

func (f *fakeFactory) New(_ context.Context, stored *ports.StoredCredential) ports.IdentityProvider {
	idp := newFakeIDP(stored)
	f.mu.Lock()
	f.created = append(f.created, idp)
	f.mu.Unlock()
	return idp
}

func (f *fakeFactory) last() *fakeIDP {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[len(f.created)-1]
}

type memStore struct {
	mu    sync.Mutex
	creds map[string]*ports.StoredCredential
}

func newMemStore() *memStore { return &memStore{creds: map[string]*ports.StoredCredential{}} }

func (s *memStore) Save(_ context.Context, id string, c *ports.StoredCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[id] = c
	return nil
}

func (s *memStore) Load(_ context.Context, id string) (*ports.StoredCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds[id], nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, id)
	return nil
}

func (s *memStore) get(id string) *ports.StoredCredential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds[id]
}
