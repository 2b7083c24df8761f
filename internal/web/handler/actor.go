package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/permission"
)

// ActingUser returns the bearer user and checks that it is the user named
// by the param path parameter.
func ActingUser(c *fiber.Ctx, param string) (string, error) {
	userID, _ := c.Locals(auth.LocalUserID).(string)
	if userID == "" {
		return "", auth.ErrInvalidToken
	}

	if c.Params(param) != userID {
		return "", auth.ErrPermissionDenied
	}

	return userID, nil
}

// MethodPermission maps the HTTP method of c to the permission it needs.
func MethodPermission(c *fiber.Ctx) permission.Perm {
	switch c.Method() {
	case fiber.MethodPost:
		return permission.Write
	case fiber.MethodPut, fiber.MethodPatch:
		return permission.Update
	case fiber.MethodDelete:
		return permission.Delete
	default:
		return permission.Read
	}
}

// RequireMethodPermission authorizes the bearer user in domain for the
// permission matching the request method.
func RequireMethodPermission(gate *auth.Gate, domain string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(auth.LocalUserID).(string)
		if userID == "" {
			return auth.ErrInvalidToken
		}

		if err := gate.Authorize(c.UserContext(), userID, domain, MethodPermission(c)); err != nil {
			return err
		}

		return c.Next()
	}
}
