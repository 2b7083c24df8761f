// Package authorize exposes the authorization gate over HTTP.
package authorize

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/permission"
	"github.com/tourmarket/tourmarket/internal/web/handler"
)

// Path is the authorization check route.
const Path = handler.APIPath + "/authorize"

// Request asks whether a user may perform an operation.
type Request struct {
	UserID     string `json:"user_id" validate:"required"`
	Domain     string `json:"domain" validate:"required"`
	Permission string `json:"permission" validate:"required,oneof=read write update delete"`
}

// Service handles the authorize route.
type Service struct {
	handler.Service
	gate *auth.Gate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.gate = deps.Gate

	router.Post(Path, auth.RequireBearer(deps.Tokens), s.Post)

	return nil
}

// Post answers with the decision in the response envelope. A grant is 200
// and a denial is 403, both carrying the decision as data. Unknown users
// and internal faults go to the error handler.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	perm, _ := permission.Parse(req.Permission)

	decision := s.gate.Check(c.UserContext(), req.UserID, req.Domain, perm)

	switch decision.Kind {
	case "", apperror.KindPermissionDenied:
		return c.Status(decision.StatusCode).JSON(handler.Response{
			Success: decision.Allowed,
			Message: decisionMessage(decision),
			Error:   decision.Kind,
			Data:    decision,
		})
	default:
		return apperror.New(decision.Kind, "%s", decision.Reason)
	}
}

func decisionMessage(d auth.Decision) string {
	if d.Allowed {
		return "Permission granted"
	}

	return d.Reason
}
