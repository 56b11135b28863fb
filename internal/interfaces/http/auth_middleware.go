package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/application/usecase"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/pkg/jwt"
)

// Locals keys para la identidad verificada y el rol del backend.
const (
	LocalUID   = "uid"
	LocalEmail = "email"
	LocalName  = "name"
	LocalRole  = "role"
)

// AuthMiddleware valida el Bearer Token del proveedor de identidad y deja uid/email/name en c.Locals.
func AuthMiddleware(verifier jwt.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := verifier.Verify(c.UserContext(), tokenString)
		if err != nil || claims.UID() == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUID, claims.UID())
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalName, claims.Name)
		return c.Next()
	}
}

// LoadUser carga el rol vigente del usuario sincronizado. Un token válido sin /auth/sync previo
// es 403 NOT_SYNCED; un correo revocado es 403 ACCESS_DENIED.
func LoadUser(users *usecase.UserUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := users.Authorize(c.UserContext(), GetUID(c))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NOT_SYNCED", Message: "usuario no sincronizado"})
			}
			return writeError(c, err)
		}
		c.Locals(LocalRole, entity.ParseRole(u.Role))
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Va después de LoadUser.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == entity.RoleUnknown {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el usuario no tiene rol asignado"})
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes"})
	}
}

// GetUID devuelve el UID del contexto (después de AuthMiddleware).
func GetUID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUID).(string)
	return s
}

// GetEmail correo del token.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetName nombre del token (puede venir vacío).
func GetName(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalName).(string)
	return s
}

// GetRole rol cargado por LoadUser; RoleUnknown si no pasó por él.
func GetRole(c *fiber.Ctx) entity.Role {
	r, _ := c.Locals(LocalRole).(entity.Role)
	return r
}
