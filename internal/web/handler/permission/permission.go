// Package permission provides CRUD routes for role permission rows.
package permission

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/web/handler"
)

// Path is the base path of role permission management.
const Path = handler.APIPath + "/permission"

// CreateRequest is the body of a create.
type CreateRequest struct {
	RoleID      string   `json:"role_id" validate:"required"`
	Permissions []string `json:"permission" validate:"required,min=1"`
}

// UpdateRequest is the body of a partial update.
type UpdateRequest struct {
	RoleID      *string  `json:"role_id" validate:"omitempty,min=1"`
	Permissions []string `json:"permission" validate:"omitempty,min=1"`
}

// Service handles role permission routes.
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

	group := router.Group(Path+"/:user_id",
		auth.RequireBearer(deps.Tokens),
		actingUser,
		handler.RequireMethodPermission(deps.Gate, auth.DomainPermission),
	)

	group.Get(handler.RootPath, s.List)
	group.Post(handler.RootPath, s.Create)
	group.Get("/:permission_id", s.Get)
	group.Put("/:permission_id", s.Update)
	group.Delete("/:permission_id", s.Delete)

	return nil
}

func actingUser(c *fiber.Ctx) error {
	if _, err := handler.ActingUser(c, "user_id"); err != nil {
		return err
	}

	return c.Next()
}

// List returns the rows created by the acting user.
func (s *Service) List(c *fiber.Ctx) error {
	rows, err := s.store.ListPermissionsCreatedBy(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return auth.ErrPermissionNotFound
	}

	return handler.OK(c, fiber.StatusOK, "Permissions fetched successfully.", rows)
}

// Create adds the permission row of a role.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(CreateRequest)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	row, err := s.store.CreatePermission(c.UserContext(), c.Params("user_id"), req.RoleID, req.Permissions)
	if err != nil {
		return err
	}

	return handler.OK(c, fiber.StatusCreated, "Permission created successfully.", row)
}

// Get returns one row.
func (s *Service) Get(c *fiber.Ctx) error {
	row, err := s.store.GetPermission(c.UserContext(), c.Params("permission_id"))
	if err != nil {
		return err
	}

	return handler.OK(c, fiber.StatusOK, "Permission fetched successfully.", row)
}

// Update changes the role or the permission set of a row.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(UpdateRequest)
	if err := handler.Bind(c, req); err != nil {
		return err
	}

	row, err := s.store.UpdatePermission(c.UserContext(), c.Params("user_id"), c.Params("permission_id"),
		auth.PermissionUpdate{RoleID: req.RoleID, Permissions: req.Permissions})
	if err != nil {
		return err
	}

	return handler.OK(c, fiber.StatusOK, "Permission updated successfully.", row)
}

// Delete removes a row.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.store.DeletePermission(c.UserContext(), c.Params("permission_id")); err != nil {
		return err
	}

	return handler.OK(c, fiber.StatusOK, "Permission deleted successfully.", nil)
}
