package firebase

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/infrastructure/identity"
	"github.com/jhoicas/cotizador/pkg/jwt"
	"github.com/jhoicas/cotizador/pkg/logger"
)

// Verificar en tiempo de compilación las interfaces.
var (
	_ ports.IdentityProviderFactory = (*Factory)(nil)
	_ ports.IdentityProvider        = (*Provider)(nil)
)

// refreshMargin un token con menos vida que esto se renueva antes de usarse.
const refreshMargin = 5 * time.Minute

// Factory crea un Provider por sesión de navegador.
type Factory struct {
	rest *restClient
	log  *logger.Logger
	now  func() time.Time
}

// NewFactory construye la fábrica. hc nil usa un cliente con timeout de 15 s.
func NewFactory(cfg Config, hc *http.Client, log *logger.Logger) *Factory {
	if log == nil {
		log = logger.Nop()
	}
	return &Factory{rest: newRESTClient(cfg, hc), log: log.Named("firebase"), now: time.Now}
}

// New implementa ports.IdentityProviderFactory. Con credencial guardada la sesión arranca
// iniciada; el ID token se obtiene con el refresh token en el primer IDToken.
func (f *Factory) New(_ context.Context, stored *ports.StoredCredential) ports.IdentityProvider {
	p := &Provider{f: f}
	if stored != nil && stored.RefreshToken != "" {
		p.user = &ports.Identity{UID: stored.UID, Email: stored.Email, DisplayName: stored.DisplayName}
		p.refreshToken = stored.RefreshToken
	}
	return p
}

// Provider sesión de Firebase de un navegador.
type Provider struct {
	f        *Factory
	notifier identity.Notifier
	group    singleflight.Group

	mu           sync.Mutex
	user         *ports.Identity
	idToken      string
	refreshToken string
	expires      time.Time
}

func (p *Provider) setSession(ctx context.Context, res *authResponse) {
	p.mu.Lock()
	p.user = &ports.Identity{UID: res.LocalID, Email: res.Email, DisplayName: res.DisplayName}
	p.idToken = res.IDToken
	p.refreshToken = res.RefreshToken
	p.expires = p.expiry(res.IDToken)
	id := *p.user
	p.mu.Unlock()
	p.notifier.Emit(ctx, &id)
}

func (p *Provider) clear() {
	p.mu.Lock()
	p.user, p.idToken, p.refreshToken, p.expires = nil, "", "", time.Time{}
	p.mu.Unlock()
}

// expiry lee exp del token sin verificar la firma; sin exp se asume vencido.
func (p *Provider) expiry(idToken string) time.Time {
	exp, err := jwt.ExpiresAt(idToken)
	if err != nil {
		return time.Time{}
	}
	return exp
}

// CreateAccount alta con correo y contraseña; displayName se guarda con accounts:update.
func (p *Provider) CreateAccount(ctx context.Context, email, password, displayName string) error {
	res, err := p.f.rest.signUp(ctx, email, password)
	if err != nil {
		return err
	}
	if displayName != "" {
		upd, err := p.f.rest.updateDisplayName(ctx, res.IDToken, displayName)
		if err != nil {
			p.f.log.Warn().Err(err).Msg("no se pudo guardar el nombre del usuario")
		} else {
			res.DisplayName = displayName
			if upd.IDToken != "" {
				res.IDToken, res.RefreshToken = upd.IDToken, upd.RefreshToken
			}
		}
	}
	p.setSession(ctx, res)
	return nil
}

// SignIn con correo y contraseña.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	res, err := p.f.rest.signInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	p.setSession(ctx, res)
	return nil
}

// SignInWithProvider con el id_token de Google obtenido por el navegador.
func (p *Provider) SignInWithProvider(ctx context.Context, cred ports.ProviderCredential) error {
	if cred.ProviderID == "" {
		cred.ProviderID = "google.com"
	}
	res, err := p.f.rest.signInWithIdp(ctx, cred)
	if err != nil {
		return err
	}
	p.setSession(ctx, res)
	return nil
}

// SendPasswordReset envía el correo de recuperación.
func (p *Provider) SendPasswordReset(ctx context.Context, email string) error {
	return p.f.rest.sendPasswordReset(ctx, email)
}

// SignOut olvida los tokens locales y notifica. Firebase no requiere llamada remota.
func (p *Provider) SignOut(ctx context.Context) error {
	p.clear()
	p.notifier.Emit(ctx, nil)
	return nil
}

// OnAuthStateChanged implementa ports.IdentityProvider.
func (p *Provider) OnAuthStateChanged(fn ports.AuthStateListener) func() {
	p.mu.Lock()
	var cur *ports.Identity
	if p.user != nil {
		u := *p.user
		cur = &u
	}
	p.mu.Unlock()
	return p.notifier.Subscribe(fn, cur)
}

// IDToken devuelve el token en caché mientras le queden más de 5 minutos; si no, lo renueva.
// Renovaciones concurrentes se colapsan en una sola llamada.
func (p *Provider) IDToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	tok, exp, rt := p.idToken, p.expires, p.refreshToken
	p.mu.Unlock()
	if rt == "" {
		return "", ports.ErrNotSignedIn
	}
	if tok != "" && p.f.now().Add(refreshMargin).Before(exp) {
		return tok, nil
	}

	v, err, _ := p.group.Do("refresh", func() (interface{}, error) {
		res, err := p.f.rest.refresh(ctx, rt)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		if p.refreshToken == rt { // la sesión no cambió mientras renovábamos
			p.idToken = res.IDToken
			if res.RefreshToken != "" {
				p.refreshToken = res.RefreshToken
			}
			p.expires = p.expiry(res.IDToken)
		}
		p.mu.Unlock()
		return res.IDToken, nil
	})
	if err != nil {
		if isSessionGone(err) {
			p.f.log.Info().Err(err).Msg("refresh token inválido, cerrando sesión")
			_ = p.SignOut(ctx)
			return "", err
		}
		return "", fmt.Errorf("firebase: renovar token: %w", err)
	}
	return v.(string), nil
}

// Export credencial persistible (el refresh token) de la sesión actual.
func (p *Provider) Export() *ports.StoredCredential {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil || p.refreshToken == "" {
		return nil
	}
	return &ports.StoredCredential{
		UID:          p.user.UID,
		Email:        p.user.Email,
		DisplayName:  p.user.DisplayName,
		RefreshToken: p.refreshToken,
	}
}
