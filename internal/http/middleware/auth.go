package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ActorLocalKey is the key under which the authenticated actor identity is
// stored in Fiber's context locals.
const ActorLocalKey = "actor"

// BearerAuth verifies the Authorization bearer token and stores the actor
// identity (the token's sub claim) in context locals.
//
// Tokens are issued by an external collaborator; this middleware only checks
// the HS256 signature and expiry against the shared secret. Rejected requests
// get 401 through the global error handler.
func BearerAuth(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		raw := extractBearer(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return fiber.ErrUnauthorized
		}

		var claims jwt.RegisteredClaims
		tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tkn.Valid || claims.Subject == "" {
			return fiber.ErrUnauthorized
		}

		c.Locals(ActorLocalKey, claims.Subject)
		return c.Next()
	}
}

func extractBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
