// Package login provides the password and one-time code login routes and
// bearer token introspection.
package login

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/web/handler"
)

const (
	// Path is the password login route.
	Path = handler.APIPath + "/login"
	// OTPPath requests a login code.
	OTPPath = Path + "/otp"
	// OTPVerifyPath exchanges a login code for a token.
	OTPVerifyPath = OTPPath + "/verify"
	// TokenPath introspects the bearer token.
	TokenPath = handler.APIPath + "/token"
)

// PasswordRequest is the body of a password login.
type PasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OTPRequest is the body of a login code request.
type OTPRequest struct {
	PhoneNo     string `json:"phone_no" validate:"required,numeric,max=15"`
	CountryCode string `json:"country_code" validate:"omitempty,startswith=+,max=10"`
}

// OTPVerifyRequest is the body of a login code verification.
type OTPVerifyRequest struct {
	OTPRequest
	OTPInput string `json:"otp_input" validate:"required,len=6,numeric"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

// Service handles login routes.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	router.Post(Path, s.Password)
	router.Post(OTPPath, s.RequestOTP)
	router.Post(OTPVerifyPath, s.VerifyOTP)
	router.Get(TokenPath, auth.RequireBearer(deps.Tokens), s.Token)

	return nil
}

// Password logs in with email and password.
func (s *Service) Password(c *fiber.Ctx) error {
	req := new(PasswordRequest)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	user, err := s.deps.Passwords.Authenticate(c.UserContext(), auth.Selector{Email: req.Email}, req.Password)
	if err != nil {
		return err
	}

	return s.issue(c, user)
}

// RequestOTP sends a login code to the phone of the user.
func (s *Service) RequestOTP(c *fiber.Ctx) error {
	req := new(OTPRequest)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	user, err := s.deps.OTP.Challenge(c.UserContext(), req.selector())
	if err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Msg("login code sent")

	return handler.OK(c, fiber.StatusOK, "OTP sent successfully.", nil)
}

// VerifyOTP logs in with a login code.
func (s *Service) VerifyOTP(c *fiber.Ctx) error {
	req := new(OTPVerifyRequest)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	user, err := s.deps.OTP.Authenticate(c.UserContext(), req.selector(), req.OTPInput)
	if err != nil {
		return err
	}

	return s.issue(c, user)
}

// Token returns the bearer token row of the request.
func (s *Service) Token(c *fiber.Ctx) error {
	token, ok := c.Locals(auth.LocalToken).(*models.OAuthAccessToken)
	if !ok {
		return auth.ErrInvalidToken
	}

	return handler.OK(c, fiber.StatusOK, "Token is valid.", fiber.Map{
		"user_id":    token.UserID,
		"token_type": token.TokenType,
		"expires_at": token.ExpiresAt,
		"expires_in": int64(time.Until(token.ExpiresAt).Seconds()),
	})
}

func (s *Service) issue(c *fiber.Ctx, user *models.User) error {
	token, err := s.deps.Tokens.Issue(c.UserContext(), user)
	if err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Msg("user logged in")

	return handler.OK(c, fiber.StatusOK, "Login successfully.", TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   int64(time.Until(token.ExpiresAt).Seconds()),
		ExpiresAt:   token.ExpiresAt,
		User:        user,
	})
}

func (r *OTPRequest) selector() auth.Selector {
	return auth.Selector{CountryCode: r.CountryCode, PhoneNo: r.PhoneNo}
}
