package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/infrastructure/identity"
	"github.com/jhoicas/cotizador/pkg/jwt"
)

// Verificar en tiempo de compilación las interfaces.
var (
	_ ports.IdentityProviderFactory = (*Factory)(nil)
	_ ports.IdentityProvider        = (*Provider)(nil)
)

// Factory crea un Provider por sesión de navegador sobre un Directory compartido.
type Factory struct {
	dir    *Directory
	secret string
	issuer string
	ttl    time.Duration
}

// NewFactory construye la fábrica. ttl <= 0 usa una hora.
func NewFactory(dir *Directory, secret, issuer string, ttl time.Duration) *Factory {
	if ttl <= 0 {
		ttl = tokenTTL
	}
	return &Factory{dir: dir, secret: secret, issuer: issuer, ttl: ttl}
}

// New implementa ports.IdentityProviderFactory. Un refresh token desconocido arranca sin sesión.
func (f *Factory) New(_ context.Context, stored *ports.StoredCredential) ports.IdentityProvider {
	p := &Provider{f: f}
	if stored != nil && stored.RefreshToken != "" {
		if id := f.dir.resolveRefresh(stored.RefreshToken); id != nil {
			p.current = id
			p.refresh = stored.RefreshToken
		}
	}
	return p
}

// Provider sesión de un navegador contra el directorio local.
type Provider struct {
	f        *Factory
	notifier identity.Notifier

	mu      sync.Mutex
	current *ports.Identity
	refresh string
}

func (p *Provider) signedIn(ctx context.Context, id *ports.Identity) {
	tok := p.f.dir.issueRefresh(id.UID)
	p.mu.Lock()
	old := p.refresh
	p.current, p.refresh = id, tok
	p.mu.Unlock()
	if old != "" {
		p.f.dir.revokeRefresh(old)
	}
	p.notifier.Emit(ctx, id)
}

// CreateAccount registra la cuenta e inicia sesión con ella.
func (p *Provider) CreateAccount(ctx context.Context, email, password, displayName string) error {
	id, err := p.f.dir.Register(email, password, displayName)
	if err != nil {
		return err
	}
	p.signedIn(ctx, id)
	return nil
}

// SignIn con correo y contraseña.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	id, err := p.f.dir.Authenticate(email, password)
	if err != nil {
		return err
	}
	p.signedIn(ctx, id)
	return nil
}

// SignInWithProvider acepta la credencial social tal cual: IDToken es el correo verificado.
func (p *Provider) SignInWithProvider(ctx context.Context, cred ports.ProviderCredential) error {
	if cred.IDToken == "" {
		return ports.ErrInvalidCredential
	}
	p.signedIn(ctx, p.f.dir.Federated(cred.IDToken, ""))
	return nil
}

// SendPasswordReset registra el pedido en el directorio.
func (p *Provider) SendPasswordReset(_ context.Context, email string) error {
	p.f.dir.RequestReset(email)
	return nil
}

// SignOut cierra la sesión y notifica.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	old := p.refresh
	p.current, p.refresh = nil, ""
	p.mu.Unlock()
	if old != "" {
		p.f.dir.revokeRefresh(old)
	}
	p.notifier.Emit(ctx, nil)
	return nil
}

// OnAuthStateChanged implementa ports.IdentityProvider.
func (p *Provider) OnAuthStateChanged(fn ports.AuthStateListener) func() {
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()
	return p.notifier.Subscribe(fn, cur)
}

// IDToken emite un token HS256 nuevo para el usuario actual.
func (p *Provider) IDToken(_ context.Context) (string, error) {
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()
	if cur == nil {
		return "", ports.ErrNotSignedIn
	}
	tok, err := jwt.GenerateIdentity(p.f.secret, p.f.issuer, cur.UID, cur.Email, cur.DisplayName, p.f.ttl)
	if err != nil {
		return "", fmt.Errorf("local: emitir token: %w", err)
	}
	return tok, nil
}

// Export credencial persistible de la sesión actual.
func (p *Provider) Export() *ports.StoredCredential {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	return &ports.StoredCredential{
		UID:          p.current.UID,
		Email:        p.current.Email,
		DisplayName:  p.current.DisplayName,
		RefreshToken: p.refresh,
	}
}
