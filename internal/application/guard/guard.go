// Package guard decide si una ruta puede mostrarse para un estado de sesión.
// Las decisiones son puras: el mismo snapshot siempre produce la misma decisión.
package guard

import "github.com/jhoicas/cotizador/internal/application/session"

// Rutas de redirección.
const (
	LoginPath     = "/login"
	ForbiddenPath = "/403"
)

// Outcome resultado de una verificación.
type Outcome int

const (
	// Wait la sesión todavía se está resolviendo: mostrar indicador neutral.
	Wait Outcome = iota
	Allow
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "wait"
	}
}

// Decision resultado de la guarda. Location solo aplica a Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Authenticated exige una sesión sincronizada con el backend.
func Authenticated(s session.Snapshot) Decision {
	switch s.State {
	case session.Authenticated:
		if s.User == nil {
			return Decision{Outcome: Redirect, Location: LoginPath}
		}
		return Decision{Outcome: Allow}
	case session.Anonymous:
		return Decision{Outcome: Redirect, Location: LoginPath}
	default:
		return Decision{Outcome: Wait}
	}
}

// Admin exige Authenticated y rol ADMIN; cualquier otro rol va a /403.
func Admin(s session.Snapshot) Decision {
	d := Authenticated(s)
	if d.Outcome != Allow {
		return d
	}
	if !s.Role().IsAdmin() {
		return Decision{Outcome: Redirect, Location: ForbiddenPath}
	}
	return d
}
