package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/finbudd/cfa-tracker-api/internal/backend"
	"github.com/finbudd/cfa-tracker-api/internal/utils"
)

// Role values derived from the token's profile metadata.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// JWTProtected validates the auth provider's HS256 bearer tokens. The subject
// (the provider's user id), the role derived from the is_admin metadata flag
// and the raw token are bound to the request for downstream handlers and
// backend calls.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		subject := extractSubject(claims)
		if subject == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token subject")
		}

		c.Locals("user_id", subject)
		c.Locals("user_role", extractRole(claims))
		c.Locals("access_token", tokenString)
		c.SetUserContext(backend.ContextWithToken(c.UserContext(), tokenString))

		return c.Next()
	}
}

func extractSubject(claims jwt.MapClaims) string {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if subject, ok := value.(string); ok && strings.TrimSpace(subject) != "" {
				return strings.TrimSpace(subject)
			}
		}
	}
	return ""
}

func extractRole(claims jwt.MapClaims) string {
	metadata, ok := claims["user_metadata"].(map[string]interface{})
	if !ok {
		return RoleStudent
	}
	if isAdmin, ok := metadata["is_admin"].(bool); ok && isAdmin {
		return RoleAdmin
	}
	return RoleStudent
}
