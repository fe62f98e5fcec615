package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visitas-api/internal/application/dto"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/pkg/jwt"
)

// LocalSession key de la sesión en c.Locals.
const LocalSession = "session"

// AuthMiddleware valida el Bearer Token JWT y deja la sesión en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
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
		session, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSession, session)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado para el rol " + role})
	}
}

// GetSession devuelve la sesión del contexto (nil si no pasó por AuthMiddleware).
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}

// GetRole devuelve el rol de la sesión.
func GetRole(c *fiber.Ctx) string {
	if s := GetSession(c); s != nil {
		return s.Role
	}
	return ""
}

// GetIdentifier devuelve el identificador de la sesión.
func GetIdentifier(c *fiber.Ctx) string {
	if s := GetSession(c); s != nil {
		return s.Identifier
	}
	return ""
}
