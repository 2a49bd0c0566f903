package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/simorq_frontdesk/pkg/reqctx"
)

// TokenRequired accepts "Authorization: Token <t>" (the upstream scheme) or
// "Bearer <t>" and stores the session in the request context. The token is
// not verified here; the upstream rejects bad ones on first use.
func TokenRequired() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := parseAuthorization(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		c.SetContext(reqctx.WithSession(c.Context(), reqctx.NewSession(token)))
		return c.Next()
	}
}

func parseAuthorization(h string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
