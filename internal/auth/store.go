package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/controller/record"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/permission"
)

const (
	whereID     = "id = ?"
	whereUserID = "user_id = ?"
	whereRoleID = "role_id = ?"
)

// PermissionStore reads and writes role permissions and user grants.
type PermissionStore struct {
	db *gorm.DB
}

// NewPermissionStore creates a PermissionStore.
func NewPermissionStore(db *gorm.DB) *PermissionStore {
	return &PermissionStore{db: db}
}

// PermissionString returns the stored permission string of a role.
// A role without a row yields ErrNoPermissionRow.
func (s *PermissionStore) PermissionString(ctx context.Context, roleID string) (string, error) {
	var row models.Permission

	err := s.db.WithContext(ctx).Where(whereRoleID, roleID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoPermissionRow
	}

	if err != nil {
		return "", fmt.Errorf("failed to load role permission: %w", err)
	}

	return row.Value, nil
}

// RolePermissions returns the parsed permission set of a role.
func (s *PermissionStore) RolePermissions(ctx context.Context, roleID string) (permission.Set, error) {
	value, err := s.PermissionString(ctx, roleID)
	if err != nil {
		return 0, err
	}

	set, err := permission.ParseString(value)
	if err != nil {
		return 0, fmt.Errorf("stored permission of role %s is corrupt: %w", roleID, err)
	}

	return set, nil
}

// SetPermissions replaces the permission set of a role. Invalid entries
// fail the whole call and nothing is written. The row is created or
// updated with a single upsert.
func (s *PermissionStore) SetPermissions(ctx context.Context, roleID, actorID string, entries []string) (permission.Set, error) {
	set, err := permission.ParseList(entries)
	if err != nil {
		return 0, err
	}

	if err = s.roleExists(ctx, roleID); err != nil {
		return 0, err
	}

	row := models.Permission{
		RoleID:      roleID,
		Value:       set.String(),
		CreatorID:   optional(actorID),
		UpdatedByID: optional(actorID),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permission", "updated_by_id", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return 0, apperror.Internal(err, "failed to store role permission")
	}

	return set, nil
}

// CreatePermission creates the permission row of a role.
func (s *PermissionStore) CreatePermission(ctx context.Context, actorID, roleID string, entries []string) (*models.Permission, error) {
	set, err := permission.ParseList(entries)
	if err != nil {
		return nil, err
	}

	if err = s.roleExists(ctx, roleID); err != nil {
		return nil, err
	}

	row := &models.Permission{
		RoleID:    roleID,
		Value:     set.String(),
		CreatorID: optional(actorID),
	}

	if err = s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPermissionExists
		}

		return nil, apperror.Internal(err, "failed to create permission")
	}

	return row, nil
}

// GetPermission returns a permission row by id.
func (s *PermissionStore) GetPermission(ctx context.Context, id string) (*models.Permission, error) {
	var row models.Permission

	err := s.db.WithContext(ctx).Where(whereID, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPermissionNotFound
	}

	if err != nil {
		return nil, apperror.Internal(err, "failed to load permission")
	}

	return &row, nil
}

// ListPermissionsCreatedBy returns the permission rows created by a user.
func (s *PermissionStore) ListPermissionsCreatedBy(ctx context.Context, userID string) ([]models.Permission, error) {
	var rows []models.Permission

	if err := s.db.WithContext(ctx).Where("created_by_id = ?", userID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list permissions")
	}

	return rows, nil
}

// PermissionUpdate is a partial update of a permission row.
// Nil fields are left unchanged.
type PermissionUpdate struct {
	RoleID      *string
	Permissions []string
}

// UpdatePermission applies a partial update to a permission row.
// A change of the set alone goes through SetPermissions on the row's role.
func (s *PermissionStore) UpdatePermission(ctx context.Context, actorID, id string, upd PermissionUpdate) (*models.Permission, error) {
	if upd.RoleID == nil && upd.Permissions != nil {
		row, err := s.GetPermission(ctx, id)
		if err != nil {
			return nil, err
		}

		if _, err = s.SetPermissions(ctx, row.RoleID, actorID, upd.Permissions); err != nil {
			return nil, err
		}

		return s.GetPermission(ctx, id)
	}

	changes := map[string]any{}

	if upd.Permissions != nil {
		set, err := permission.ParseList(upd.Permissions)
		if err != nil {
			return nil, err
		}

		changes["permission"] = set.String()
	}

	if upd.RoleID != nil {
		if err := s.roleExists(ctx, *upd.RoleID); err != nil {
			return nil, err
		}

		changes["role_id"] = *upd.RoleID
	}

	if len(changes) > 0 && actorID != "" {
		changes["updated_by_id"] = actorID
	}

	err := record.Update(s.db.WithContext(ctx), &models.Permission{}, id, changes, "permission", "role_id", "updated_by_id")
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, ErrPermissionNotFound
		}

		if apperror.KindOf(err) == apperror.KindConflict {
			return nil, ErrPermissionExists
		}

		return nil, err
	}

	return s.GetPermission(ctx, id)
}

// DeletePermission removes a permission row.
func (s *PermissionStore) DeletePermission(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where(whereID, id).Delete(&models.Permission{})
	if result.Error != nil {
		return apperror.Internal(result.Error, "failed to delete permission")
	}

	if result.RowsAffected == 0 {
		return ErrPermissionNotFound
	}

	return nil
}

// UserPermission returns the grant of a user.
func (s *PermissionStore) UserPermission(ctx context.Context, userID string) (*models.UserPermission, error) {
	var row models.UserPermission

	err := s.db.WithContext(ctx).Where(whereUserID, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserPermissionNotFound
	}

	if err != nil {
		return nil, apperror.Internal(err, "failed to load user permission")
	}

	return &row, nil
}

// UserGrant returns the active grant set of a user, empty if there is none.
func (s *PermissionStore) UserGrant(ctx context.Context, userID string) (permission.Set, error) {
	var row models.UserPermission

	err := s.db.WithContext(ctx).Where(whereUserID+" AND is_active = ?", userID, true).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to load user grant: %w", err)
	}

	set, err := row.Set()
	if err != nil {
		return 0, fmt.Errorf("stored grant of user %s is corrupt: %w", userID, err)
	}

	return set, nil
}

// ListUserPermissionsGrantedBy returns the grants issued by a user.
func (s *PermissionStore) ListUserPermissionsGrantedBy(ctx context.Context, grantorID string) ([]models.UserPermission, error) {
	var rows []models.UserPermission

	if err := s.db.WithContext(ctx).Where("granted_by_id = ?", grantorID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list user permissions")
	}

	return rows, nil
}

// GrantUserPermission gives userID an active grant issued by grantorID.
// Users can not grant themselves and hold at most one grant.
func (s *PermissionStore) GrantUserPermission(ctx context.Context, grantorID, userID string, entries []string) (*models.UserPermission, error) {
	if grantorID == userID {
		return nil, ErrInvalidOperation
	}

	set, err := permission.ParseList(entries)
	if err != nil {
		return nil, err
	}

	if err = s.userExists(ctx, userID); err != nil {
		return nil, err
	}

	row := &models.UserPermission{
		UserID:      userID,
		GrantedByID: grantorID,
		Value:       set.String(),
		IsActive:    true,
	}

	if err = s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserPermissionExists
		}

		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrUserNotFound
		}

		return nil, apperror.Internal(err, "failed to create user permission")
	}

	return row, nil
}

// UserPermissionUpdate is a partial update of a grant.
type UserPermissionUpdate struct {
	Permissions []string
	IsActive    *bool
}

// UpdateUserPermission applies a partial update to the grant of userID.
func (s *PermissionStore) UpdateUserPermission(ctx context.Context, grantorID, userID string, upd UserPermissionUpdate) (*models.UserPermission, error) {
	if grantorID == userID {
		return nil, ErrInvalidOperation
	}

	row, err := s.UserPermission(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}

	if upd.Permissions != nil {
		set, parseErr := permission.ParseList(upd.Permissions)
		if parseErr != nil {
			return nil, parseErr
		}

		changes["permission"] = set.String()
	}

	if upd.IsActive != nil {
		changes["is_active"] = *upd.IsActive
	}

	if err = record.Update(s.db.WithContext(ctx), &models.UserPermission{}, row.ID, changes, "permission", "is_active"); err != nil {
		return nil, err
	}

	return s.UserPermission(ctx, userID)
}

// RevokeUserPermission deletes the grant of userID.
func (s *PermissionStore) RevokeUserPermission(ctx context.Context, userID string) error {
	result := s.db.WithContext(ctx).Where(whereUserID, userID).Delete(&models.UserPermission{})
	if result.Error != nil {
		return apperror.Internal(result.Error, "failed to delete user permission")
	}

	if result.RowsAffected == 0 {
		return ErrUserPermissionNotFound
	}

	return nil
}

func (s *PermissionStore) roleExists(ctx context.Context, roleID string) error {
	var count int64

	if err := s.db.WithContext(ctx).Model(&models.Role{}).Where(whereID, roleID).Count(&count).Error; err != nil {
		return apperror.Internal(err, "failed to load role")
	}

	if count == 0 {
		return ErrRoleNotFound
	}

	return nil
}

func (s *PermissionStore) userExists(ctx context.Context, userID string) error {
	var count int64

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where(whereID, userID).Count(&count).Error; err != nil {
		return apperror.Internal(err, "failed to load user")
	}

	if count == 0 {
		return ErrUserNotFound
	}

	return nil
}

// optional returns nil for an empty id.
func optional(id string) *string {
	if id == "" {
		return nil
	}

	return &id
}
