// Package userpermission provides CRUD routes for per-user grants.
package userpermission

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/web/handler"
)

// Path is the base path of grant management.
const Path = handler.APIPath + "/user-permission"

// GrantRequest is the body of a grant.
type GrantRequest struct {
	UserID      string   `json:"user_id" validate:"required"`
	Permissions []string `json:"permission" validate:"required,min=1"`
}

// UpdateRequest is the body of a partial update.
type UpdateRequest struct {
	Permissions []string `json:"permission" validate:"omitempty,min=1"`
	IsActive    *bool    `json:"is_active"`
}

// Service handles grant routes.
type Service struct {
	handler.Service
	store *auth.PermissionStore
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.store = deps.Store

	group := router.Group(Path+"/:granted_by",
		auth.RequireBearer(deps.Tokens),
		grantor,
		handler.RequireMethodPermission(deps.Gate, auth.DomainUserPermission),
	)

	group.Get(handler.RootPath, s.List)
	group.Post(handler.RootPath, s.Grant)
	group.Get("/:user_id", s.Get)
	group.Put("/:user_id", s.Update)
	group.Delete("/:user_id", s.Revoke)

	return nil
}

func grantor(c *fiber.Ctx) error {
	if _, err := handler.ActingUser(c, "granted_by"); err != nil {
		return err
	}

	return c.Next()
}

// List returns the grants issued by the acting user.
func (s *Service) List(c *fiber.Ctx) error {
	rows, err := s.store.ListUserPermissionsGrantedBy(c.UserContext(), c.Params("granted_by"))
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return auth.ErrUserPermissionNotFound
	}

	return handler.OK(c, fiber.StatusOK, "User permissions fetched successfully.", rows)
}

// Grant gives a user an active grant.
func (s *Service) Grant(c *fiber.Ctx) error {
	req := new(GrantRequest)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	row, err := s.store.GrantUserPermission(c.UserContext(), c.Params("granted_by"), req.UserID, req.Permissions)
	if err != nil {
		return err
	}

	return handler.OK(c, fiber.StatusCreated, "User permission created successfully.", row)
}

// Get returns the grant of a user issued by the acting user.
func (s *Service) Get(c *fiber.Ctx) error {
	row, err := s.owned(c)
	if err != nil {
		return err
	}

	return handler.OK(c, fiber.StatusOK, "User permission fetched successfully.", row)
}

// Update changes the permission set or the active flag of a grant.
func (s *Service) Update(c *fiber.Ctx) error {
	if _, err := s.owned(c); err != nil {
		return err
	}

	req := new(UpdateRequest)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	row, err := s.store.UpdateUserPermission(c.UserContext(), c.Params("granted_by"), c.Params("user_id"),
		auth.UserPermissionUpdate{Permissions: req.Permissions, IsActive: req.IsActive})
	if err != nil {
		return err
	}

	return handler.OK(c, fiber.StatusOK, "User permission updated successfully.", row)
}

// Revoke deletes a grant.
func (s *Service) Revoke(c *fiber.Ctx) error {
	if _, err := s.owned(c); err != nil {
		return err
	}

	if err := s.store.RevokeUserPermission(c.UserContext(), c.Params("user_id")); err != nil {
		return err
	}

	return handler.OK(c, fiber.StatusOK, "User permission deleted successfully.", nil)
}

// owned loads the grant of the path user and checks it was issued by the
// acting user.
func (s *Service) owned(c *fiber.Ctx) (*models.UserPermission, error) {
	row, err := s.store.UserPermission(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return nil, err
	}

	if row.GrantedByID != c.Params("granted_by") {
		return nil, auth.ErrPermissionDenied
	}

	return row, nil
}
