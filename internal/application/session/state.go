package session

import "github.com/jhoicas/cotizador/internal/domain/entity"

// State estado de autenticación de una sesión de navegador.
type State int

const (
	Uninitialized State = iota
	Loading
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot vista inmutable del modelo. User solo es distinto de nil en Authenticated.
type Snapshot struct {
	State State
	User  *entity.SessionUser
}

// Role rol del usuario en sesión; RoleUnknown si no hay usuario.
func (s Snapshot) Role() entity.Role {
	if s.State != Authenticated || s.User == nil {
		return entity.RoleUnknown
	}
	return s.User.Role
}

// Notice aviso bloqueante para el usuario.
type Notice struct {
	Title   string
	Message string
}

// NoticeAccessDenied se muestra cuando el correo no tiene invitación.
var NoticeAccessDenied = Notice{
	Title:   "Acceso Denegado",
	Message: "Tu correo no está autorizado para entrar al sistema. Contacta al Administrador.",
}
