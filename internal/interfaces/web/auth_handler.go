package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/application/guard"
	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/application/session"
	"github.com/jhoicas/cotizador/pkg/logger"
)

// Mensajes del formulario de acceso.
const (
	msgInvalidCredential = "Correo o contraseña incorrectos."
	msgEmailInUse        = "Este correo ya está registrado."
	msgWeakPassword      = "La contraseña debe tener al menos 6 caracteres."
	msgGeneric           = "Ocurrió un error. Intenta de nuevo."
	msgResetFailed       = "No se pudo enviar el correo de recuperación."
	msgEmailRequired     = "Por favor, ingresa tu correo electrónico primero."
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleRequest struct {
	IDToken     string `json:"idToken"`
	AccessToken string `json:"accessToken"`
}

type resetRequest struct {
	Email string `json:"email"`
}

// AuthHandler login, registro, Google, recuperación de contraseña y logout.
type AuthHandler struct {
	log *logger.Logger
}

// NewAuthHandler construye el handler.
func NewAuthHandler(log *logger.Logger) *AuthHandler {
	return &AuthHandler{log: log.Named("web_auth")}
}

// LoginPage GET /login. Con sesión activa redirige al inicio; mientras carga responde 202.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	s := currentSession(c)
	snap := s.Model.Snapshot()
	switch snap.State {
	case session.Authenticated:
		return c.Redirect("/", fiber.StatusSeeOther)
	case session.Anonymous:
		return c.JSON(newSessionView(snap, s.Model.TakeNotice()))
	default:
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusAccepted).JSON(loadingView)
	}
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorView{Error: msgGeneric})
	}
	s := currentSession(c)
	if err := s.Model.SignIn(c.UserContext(), strings.TrimSpace(in.Email), in.Password); err != nil {
		return h.identityError(c, err)
	}
	return h.afterSignIn(c, s)
}

// Signup POST /auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in signupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorView{Error: msgGeneric})
	}
	s := currentSession(c)
	err := s.Model.SignUp(c.UserContext(), strings.TrimSpace(in.Email), in.Password, strings.TrimSpace(in.Name))
	if err != nil {
		return h.identityError(c, err)
	}
	return h.afterSignIn(c, s)
}

// Google POST /auth/google con el id_token obtenido por el navegador.
func (h *AuthHandler) Google(c *fiber.Ctx) error {
	var in googleRequest
	if err := c.BodyParser(&in); err != nil || (in.IDToken == "" && in.AccessToken == "") {
		return c.Status(fiber.StatusBadRequest).JSON(errorView{Error: msgGeneric})
	}
	s := currentSession(c)
	err := s.Model.SignInWithProvider(c.UserContext(), ports.ProviderCredential{
		ProviderID:  "google.com",
		IDToken:     in.IDToken,
		AccessToken: in.AccessToken,
	})
	if err != nil {
		return h.identityError(c, err)
	}
	return h.afterSignIn(c, s)
}

// PasswordReset POST /auth/reset
func (h *AuthHandler) PasswordReset(c *fiber.Ctx) error {
	var in resetRequest
	_ = c.BodyParser(&in)
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorView{Error: msgEmailRequired})
	}
	if err := currentSession(c).Model.RequestPasswordReset(c.UserContext(), email); err != nil {
		h.log.Warn().Err(err).Msg("recuperación de contraseña")
		return c.Status(fiber.StatusBadRequest).JSON(errorView{Error: msgResetFailed})
	}
	return c.JSON(alertView{
		Title:   "Correo enviado",
		Message: "Se ha enviado un enlace de recuperación a " + email,
	})
}

// Logout POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := currentSession(c).Model.Logout(c.UserContext()); err != nil {
		h.log.Warn().Err(err).Msg("logout")
	}
	return c.Redirect(guard.LoginPath, fiber.StatusSeeOther)
}

// Forbidden GET /403
func (h *AuthHandler) Forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(alertView{
		Title: "Acceso Restringido",
		Message: "Lo sentimos, no tienes los permisos necesarios para ver esta sección. " +
			"Si crees que esto es un error, contacta al administrador del sistema.",
	})
}

// afterSignIn la sincronización corre en el callback del proveedor; al volver la sesión ya está
// Authenticated, o Anonymous con el aviso de acceso denegado, o todavía Loading.
func (h *AuthHandler) afterSignIn(c *fiber.Ctx, s *session.Session) error {
	snap := s.Model.Snapshot()
	switch snap.State {
	case session.Authenticated:
		return c.JSON(newSessionView(snap, nil))
	case session.Anonymous:
		notice := s.Model.TakeNotice()
		if notice == nil {
			return c.Status(fiber.StatusBadGateway).JSON(errorView{Error: msgGeneric})
		}
		return c.Status(fiber.StatusForbidden).JSON(newSessionView(snap, notice))
	default:
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusAccepted).JSON(newSessionView(snap, nil))
	}
}

func (h *AuthHandler) identityError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ports.ErrInvalidCredential):
		return c.Status(fiber.StatusUnauthorized).JSON(errorView{Error: msgInvalidCredential})
	case errors.Is(err, ports.ErrEmailAlreadyInUse):
		return c.Status(fiber.StatusConflict).JSON(errorView{Error: msgEmailInUse})
	case errors.Is(err, ports.ErrWeakPassword):
		return c.Status(fiber.StatusBadRequest).JSON(errorView{Error: msgWeakPassword})
	default:
		h.log.Error().Err(err).Msg("proveedor de identidad")
		return c.Status(fiber.StatusBadGateway).JSON(errorView{Error: msgGeneric})
	}
}
