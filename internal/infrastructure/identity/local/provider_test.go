package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/pkg/jwt"
)

const (
	testSecret = "local-secret"
	testIssuer = "cotizador-local"
)

func newTestFactory() (*Factory, *Directory) {
	dir := NewDirectory()
	dir.hashCost = bcrypt.MinCost
	return NewFactory(dir, testSecret, testIssuer, time.Hour), dir
}

func recorder(p ports.IdentityProvider) *[]*ports.Identity {
	var events []*ports.Identity
	p.OnAuthStateChanged(func(_ context.Context, id *ports.Identity) { events = append(events, id) })
	return &events
}

func TestProvider_CreateAccountYSignIn(t *testing.T) {
	f, _ := newTestFactory()
	ctx := context.Background()
	p := f.New(ctx, nil)
	events := recorder(p)

	require.NoError(t, p.CreateAccount(ctx, "Ana@Example.com", "secreto", "Ana"))
	require.Len(t, *events, 2)
	assert.Nil(t, (*events)[0])
	assert.Equal(t, "ana@example.com", (*events)[1].Email)
	assert.Equal(t, "Ana", (*events)[1].DisplayName)

	tok, err := p.IDToken(ctx)
	require.NoError(t, err)
	claims, err := jwt.ParseIdentity(testSecret, testIssuer, tok)
	require.NoError(t, err)
	assert.Equal(t, (*events)[1].UID, claims.UID())
	assert.Equal(t, "ana@example.com", claims.Email)

	require.NoError(t, p.SignOut(ctx))
	assert.Nil(t, (*events)[2])
	_, err = p.IDToken(ctx)
	assert.ErrorIs(t, err, ports.ErrNotSignedIn)

	other := f.New(ctx, nil)
	require.NoError(t, other.SignIn(ctx, "ana@example.com", "secreto"))
	assert.NotNil(t, other.Export())
}

func TestProvider_ErroresClasificados(t *testing.T) {
	f, _ := newTestFactory()
	ctx := context.Background()
	p := f.New(ctx, nil)

	assert.ErrorIs(t, p.CreateAccount(ctx, "a@b.com", "123", ""), ports.ErrWeakPassword)
	require.NoError(t, p.CreateAccount(ctx, "a@b.com", "123456", ""))
	assert.ErrorIs(t, f.New(ctx, nil).CreateAccount(ctx, "A@B.com", "123456", ""), ports.ErrEmailAlreadyInUse)
	assert.ErrorIs(t, f.New(ctx, nil).SignIn(ctx, "a@b.com", "mala"), ports.ErrInvalidCredential)
	assert.ErrorIs(t, f.New(ctx, nil).SignIn(ctx, "nadie@b.com", "123456"), ports.ErrInvalidCredential)
}

func TestProvider_RestauraDesdeCredencial(t *testing.T) {
	f, _ := newTestFactory()
	ctx := context.Background()
	p := f.New(ctx, nil)
	require.NoError(t, p.CreateAccount(ctx, "ana@example.com", "secreto", ""))
	cred := p.Export()
	require.NotNil(t, cred)

	restored := f.New(ctx, cred)
	events := recorder(restored)
	require.Len(t, *events, 1)
	require.NotNil(t, (*events)[0], "emite la sesión restaurada al suscribirse")
	assert.Equal(t, "ana@example.com", (*events)[0].Email)

	// tras cerrar sesión el refresh token deja de servir
	require.NoError(t, restored.SignOut(ctx))
	again := f.New(ctx, cred)
	assert.Nil(t, again.Export())
}

func TestProvider_SocialYRecuperacion(t *testing.T) {
	f, dir := newTestFactory()
	ctx := context.Background()
	p := f.New(ctx, nil)

	assert.ErrorIs(t, p.SignInWithProvider(ctx, ports.ProviderCredential{ProviderID: "google.com"}), ports.ErrInvalidCredential)
	require.NoError(t, p.SignInWithProvider(ctx, ports.ProviderCredential{ProviderID: "google.com", IDToken: "luis@example.com"}))
	assert.Equal(t, "luis@example.com", p.Export().Email)

	// cuenta social no tiene contraseña
	assert.ErrorIs(t, f.New(ctx, nil).SignIn(ctx, "luis@example.com", ""), ports.ErrInvalidCredential)

	require.NoError(t, p.SendPasswordReset(ctx, "Ana@Example.com"))
	assert.Equal(t, []string{"ana@example.com"}, dir.Resets())
}
