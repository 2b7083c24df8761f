package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tourmarket/tourmarket/internal/permission"
)

// Locals keys set by RequireBearer.
const (
	LocalUserID = "user_id"
	LocalToken  = "token"
)

const bearerPrefix = "Bearer "

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPrefix):])
}

// RequireBearer creates Fiber middleware that requires a live bearer token.
// The token owner is stored in the LocalUserID local.
func RequireBearer(issuer *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value := BearerToken(c)
		if value == "" {
			return ErrInvalidToken
		}

		token, err := issuer.Validate(c.UserContext(), value)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
			return err
		}

		c.Locals(LocalUserID, token.UserID)
		c.Locals(LocalToken, token)

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that authorizes the user of
// the LocalUserID local for perm in domain. It must run after RequireBearer.
func RequirePermission(gate *Gate, domain string, perm permission.Perm) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(LocalUserID).(string)
		if userID == "" {
			return ErrInvalidToken
		}

		if err := gate.Authorize(c.UserContext(), userID, domain, perm); err != nil {
			return err
		}

		return c.Next()
	}
}
