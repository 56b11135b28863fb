package ports

import (
	"context"
	"errors"
)

// Errores del proveedor de identidad clasificados por tipo.
// Los adaptadores (Firebase, local) traducen sus códigos a estos valores.
var (
	ErrInvalidCredential = errors.New("identity: credenciales inválidas")
	ErrEmailAlreadyInUse = errors.New("identity: correo ya registrado")
	ErrWeakPassword      = errors.New("identity: contraseña débil")
	ErrNotSignedIn       = errors.New("identity: no hay sesión activa")
)

// Identity datos del usuario según el proveedor de identidad (sin rol).
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// ProviderCredential credencial de un proveedor social (ej. id_token de Google).
type ProviderCredential struct {
	ProviderID  string // "google.com"
	IDToken     string
	AccessToken string
}

// StoredCredential lo mínimo que se persiste para restaurar la sesión tras un refresh.
type StoredCredential struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	RefreshToken string `json:"refresh_token"`
}

// AuthStateListener recibe cada cambio de estado del proveedor.
// id == nil significa sesión cerrada.
type AuthStateListener func(ctx context.Context, id *Identity)

// IdentityProvider puerto de salida hacia el proveedor de identidad (una instancia por sesión de navegador).
//
// Ninguna operación cambia el estado de la aplicación directamente: los cambios llegan
// a través de OnAuthStateChanged.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password, displayName string) error
	SignIn(ctx context.Context, email, password string) error
	SignInWithProvider(ctx context.Context, cred ProviderCredential) error
	SendPasswordReset(ctx context.Context, email string) error
	SignOut(ctx context.Context) error

	// OnAuthStateChanged registra fn y la invoca de inmediato con el estado actual.
	OnAuthStateChanged(fn AuthStateListener) (unsubscribe func())

	// IDToken devuelve un token vigente del usuario actual (renovándolo si hace falta).
	IDToken(ctx context.Context) (string, error)

	// Export devuelve la credencial persistible, o nil si no hay sesión.
	Export() *StoredCredential
}

// IdentityProviderFactory crea un proveedor por sesión; stored != nil restaura una sesión previa.
type IdentityProviderFactory interface {
	New(ctx context.Context, stored *StoredCredential) IdentityProvider
}

// TokenSource fuente de bearer tokens para las llamadas al backend.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// CredentialStore persistencia de credenciales por id de sesión de navegador.
type CredentialStore interface {
	Save(ctx context.Context, sessionID string, cred *StoredCredential) error
	Load(ctx context.Context, sessionID string) (*StoredCredential, error)
	Delete(ctx context.Context, sessionID string) error
}
