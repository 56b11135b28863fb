package entity

import (
	"strings"
	"time"
)

// Role rol de aplicación. Solo el backend lo asigna; nunca se toma del proveedor de identidad.
type Role string

// Roles válidos.
const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleUnknown Role = ""
)

// ParseRole normaliza un rol recibido por la red. Cualquier valor desconocido es RoleUnknown.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	default:
		return RoleUnknown
	}
}

// IsAdmin falla cerrado: solo RoleAdmin es administrador.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUser, RoleUnknown:
		return false
	default:
		return false
	}
}

// Valid indica si el rol es uno de los asignables.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// SessionUser usuario de la sesión: datos del proveedor de identidad + rol del backend.
// Solo existe después de una sincronización exitosa con /auth/sync.
type SessionUser struct {
	UID         string
	Email       string
	DisplayName string
	Name        string
	Role        Role
}

// User registro de usuario en el backend.
type User struct {
	UID       string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Invitation correo autorizado para entrar al sistema con un rol.
type Invitation struct {
	Email     string
	Role      Role
	InvitedBy string
	CreatedAt time.Time
}
