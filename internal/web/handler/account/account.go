// Package account provides registration, provisioning and removal of users.
package account

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/web/handler"
)

const (
	// RegisterPath is the self-registration route.
	RegisterPath = handler.APIPath + "/register"
	// UsersPath is the base path of user management.
	UsersPath = handler.APIPath + "/users"

	dateLayout = "2006-01-02"
)

// Request is the body of registration and provisioning.
type Request struct {
	Role        string `json:"role" validate:"required"`
	FirstName   string `json:"first_name" validate:"required,max=50"`
	MiddleName  string `json:"middle_name" validate:"max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email,max=50"`
	Password    string `json:"password" validate:"required,min=8"`
	Gender      string `json:"gender" validate:"max=10"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PhoneNo     string `json:"phone_no" validate:"required,numeric,max=15"`
	CountryCode string `json:"country_code" validate:"omitempty,startswith=+,max=10"`
	ProfileURL  string `json:"profile_url" validate:"omitempty,url,max=255"`
}

func (r *Request) account() (auth.Account, error) {
	acc := auth.Account{
		Role:        r.Role,
		FirstName:   r.FirstName,
		MiddleName:  r.MiddleName,
		LastName:    r.LastName,
		Email:       r.Email,
		Password:    r.Password,
		Gender:      r.Gender,
		PhoneNo:     r.PhoneNo,
		CountryCode: r.CountryCode,
		ProfileURL:  r.ProfileURL,
	}

	if r.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, r.DateOfBirth)
		if err != nil {
			return acc, apperror.Wrap(apperror.KindValidation, err, "Invalid date of birth.")
		}

		acc.DateOfBirth = &dob
	}

	return acc, nil
}

// Service handles account routes.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	bearer := auth.RequireBearer(deps.Tokens)

	router.Post(RegisterPath, s.Register)
	router.Post(UsersPath+"/:creator_id", bearer, s.Provision)
	router.Delete(UsersPath+"/:user_id", bearer, s.Delete)

	return nil
}

// Register creates an account with a self-service role.
func (s *Service) Register(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	acc, err := req.account()
	if err != nil {
		return err
	}

	user, err := s.deps.Accounts.Register(c.UserContext(), acc)
	if err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Str("role", user.Role.Name).Msg("user registered")

	return handler.OK(c, fiber.StatusCreated, "User registered successfully.", user)
}

// Provision creates an account on behalf of the creator in the path.
func (s *Service) Provision(c *fiber.Ctx) error {
	creatorID, err := handler.ActingUser(c, "creator_id")
	if err != nil {
		return err
	}

	req := new(Request)
	if err = handler.Bind(c, req); err != nil {
		return err
	}

	acc, err := req.account()
	if err != nil {
		return err
	}

	user, err := s.deps.Accounts.Provision(c.UserContext(), creatorID, acc)
	if err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Str("created_by", creatorID).Str("role", user.Role.Name).
		Msg("user provisioned")

	return handler.OK(c, fiber.StatusCreated, "User created successfully.", user)
}

// Delete removes the user in the path. Users may delete themselves and
// the accounts they provisioned.
func (s *Service) Delete(c *fiber.Ctx) error {
	actorID, _ := c.Locals(auth.LocalUserID).(string)
	targetID := c.Params("user_id")

	if actorID != targetID {
		target, err := s.deps.Accounts.GetUser(c.UserContext(), targetID)
		if err != nil {
			return err
		}

		if target.CreatedByID == nil || *target.CreatedByID != actorID {
			return auth.ErrPermissionDenied
		}
	}

	if err := s.deps.Accounts.Delete(c.UserContext(), targetID); err != nil {
		return err
	}

	log.Info().Str("user_id", targetID).Str("deleted_by", actorID).Msg("user deleted")

	return handler.OK(c, fiber.StatusOK, "User deleted successfully.", nil)
}
