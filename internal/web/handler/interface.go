package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/config"
)

// Deps are the services shared by all handlers.
type Deps struct {
	Cfg       *config.Config
	Store     *auth.PermissionStore
	Gate      *auth.Gate
	Accounts  *auth.AccountService
	Passwords *auth.PasswordAuthenticator
	OTP       *auth.OTPAuthenticator
	Tokens    *auth.TokenIssuer
}

// Valid reports whether every dependency is set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.Store != nil && d.Gate != nil && d.Accounts != nil &&
		d.Passwords != nil && d.OTP != nil && d.Tokens != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}
