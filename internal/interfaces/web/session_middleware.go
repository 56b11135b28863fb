package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/cotizador/internal/application/session"
	"github.com/jhoicas/cotizador/pkg/jwt"
)

// CookieName cookie de sesión del navegador (JWT HS256 con el id de sesión como subject).
const CookieName = "cotizador_session"

const localSession = "web_session"

// SessionConfig firma y vida de la cookie.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware resuelve la sesión del navegador. Sin cookie válida crea una sesión nueva
// (queda Anonymous) y emite la cookie; la cookie se renueva en cada request.
func SessionMiddleware(cfg SessionConfig, mgr *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid, err := jwt.ParseSession(cfg.Secret, c.Cookies(CookieName))
		if err != nil || sid == "" {
			sid = uuid.NewString()
		}
		tok, err := jwt.GenerateSession(cfg.Secret, sid, cfg.TTL)
		if err != nil {
			return err
		}
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    tok,
			Path:     "/",
			Expires:  time.Now().Add(cfg.TTL),
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(localSession, mgr.Get(c.UserContext(), sid))
		return c.Next()
	}
}

// currentSession sesión resuelta por SessionMiddleware.
func currentSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(localSession).(*session.Session)
	return s
}
