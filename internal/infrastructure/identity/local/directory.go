// Package local implementa un proveedor de identidad en proceso para desarrollo y tests.
// Las contraseñas se guardan con bcrypt y los ID tokens son HS256 firmados con pkg/jwt;
// la API los verifica con el mismo secreto cuando AUTH_PROVIDER=local.
package local

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cotizador/internal/application/ports"
)

// MinPasswordLength igual que Firebase: menos de 6 caracteres es WEAK_PASSWORD.
const MinPasswordLength = 6

type account struct {
	uid          string
	email        string
	displayName  string
	passwordHash []byte // vacío = solo proveedor social
}

// Directory cuentas compartidas por todas las sesiones del proceso.
type Directory struct {
	mu       sync.Mutex
	byEmail  map[string]*account
	refresh  map[string]string // refresh token -> uid
	byUID    map[string]*account
	resets   []string
	hashCost int
}

// NewDirectory crea un directorio vacío.
func NewDirectory() *Directory {
	return &Directory{
		byEmail:  make(map[string]*account),
		refresh:  make(map[string]string),
		byUID:    make(map[string]*account),
		hashCost: bcrypt.DefaultCost,
	}
}

// Register crea una cuenta con contraseña.
func (d *Directory) Register(email, password, displayName string) (*ports.Identity, error) {
	if len(password) < MinPasswordLength {
		return nil, ports.ErrWeakPassword
	}
	email = normalize(email)

	d.mu.Lock()
	_, exists := d.byEmail[email]
	d.mu.Unlock()
	if exists {
		return nil, ports.ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.hashCost)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[email]; exists {
		return nil, ports.ErrEmailAlreadyInUse
	}
	a := &account{uid: uuid.New().String(), email: email, displayName: displayName, passwordHash: hash}
	d.byEmail[email] = a
	d.byUID[a.uid] = a
	return a.identity(), nil
}

// Authenticate verifica correo y contraseña.
func (d *Directory) Authenticate(email, password string) (*ports.Identity, error) {
	d.mu.Lock()
	a, ok := d.byEmail[normalize(email)]
	d.mu.Unlock()
	if !ok || len(a.passwordHash) == 0 {
		return nil, ports.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return nil, ports.ErrInvalidCredential
	}
	return a.identity(), nil
}

// Federated devuelve (o crea) la cuenta asociada a un correo verificado por un proveedor social.
func (d *Directory) Federated(email, displayName string) *ports.Identity {
	email = normalize(email)
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.byEmail[email]
	if !ok {
		a = &account{uid: uuid.New().String(), email: email, displayName: displayName}
		d.byEmail[email] = a
		d.byUID[a.uid] = a
	}
	return a.identity()
}

// RequestReset registra el pedido de recuperación. No revela si el correo existe.
func (d *Directory) RequestReset(email string) {
	d.mu.Lock()
	d.resets = append(d.resets, normalize(email))
	d.mu.Unlock()
}

// Resets correos para los que se pidió recuperación (tests).
func (d *Directory) Resets() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.resets...)
}

func (d *Directory) issueRefresh(uid string) string {
	tok := uuid.New().String()
	d.mu.Lock()
	d.refresh[tok] = uid
	d.mu.Unlock()
	return tok
}

func (d *Directory) revokeRefresh(tok string) {
	d.mu.Lock()
	delete(d.refresh, tok)
	d.mu.Unlock()
}

func (d *Directory) resolveRefresh(tok string) *ports.Identity {
	d.mu.Lock()
	defer d.mu.Unlock()
	uid, ok := d.refresh[tok]
	if !ok {
		return nil
	}
	a, ok := d.byUID[uid]
	if !ok {
		return nil
	}
	return a.identity()
}

func (a *account) identity() *ports.Identity {
	return &ports.Identity{UID: a.uid, Email: a.email, DisplayName: a.displayName}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// tokenTTL vida por defecto de los ID tokens locales.
const tokenTTL = time.Hour
