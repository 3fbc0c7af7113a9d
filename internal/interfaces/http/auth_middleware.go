package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liquidacion-api/internal/application/dto"
	"github.com/jhoicas/liquidacion-api/pkg/jwt"
)

// Locals keys para la identidad de la sesión en Fiber.
const (
	LocalSessionID = "session_id"
	LocalUserName  = "user_name"
)

// AuthMiddleware valida el Bearer Token JWT y guarda el sujeto como id de sesión.
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
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSessionID, claims.Subject)
		c.Locals(LocalUserName, claims.Name)
		return c.Next()
	}
}

// GetSessionID devuelve el id de sesión (después del middleware de auth).
func GetSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSessionID).(string)
	return s
}

// GetUserName devuelve el nombre visible del usuario, si el token lo trae.
func GetUserName(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserName).(string)
	return s
}
