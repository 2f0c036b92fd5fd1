package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/pkg/jwt"
	"github.com/jhoicas/ahorro-api/pkg/logger"
)

// Locals keys para los claims del token de acceso en Fiber.
const (
	LocalUserID   = "user_id"
	LocalEmail    = "email"
	LocalRole     = "role"
	LocalDeviceID = "device_id"
)

// accessParser valida tokens de acceso; lo implementa *jwt.Manager.
type accessParser interface {
	ParseAccess(token string) (*jwt.AccessClaims, error)
}

// deviceChecker gate de dispositivo verificado; lo implementa *device.UseCase.
type deviceChecker interface {
	EnsureVerified(ctx context.Context, userID, deviceID string) error
}

// AuthMiddleware valida el Bearer Token de acceso y carga sus claims en c.Locals.
// Un refresh token no sirve aquí: se firma con otro secreto y tiene otro typ.
func AuthMiddleware(tokens accessParser) fiber.Handler {
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
		claims, err := tokens.ParseAccess(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "token expirado"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalDeviceID, claims.DeviceID)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "el rol del usuario no tiene acceso a este recurso",
		})
	}
}

// RequireVerifiedDevice exige que el dispositivo del token siga verificado en cada petición.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 Forbidden  → dispositivo revocado, ajeno o inexistente.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireVerifiedDevice(checker deviceChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := checker.EnsureVerified(c.Context(), GetUserID(c), GetDeviceID(c)); err != nil {
			return respondError(c, log, err)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string { return localString(c, LocalEmail) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetDeviceID devuelve el dispositivo al que está ligado el token.
func GetDeviceID(c *fiber.Ctx) string { return localString(c, LocalDeviceID) }

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
