package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names seeded at installation time.
const (
	RoleUser            = "user"
	RoleDriver          = "driver"
	RoleTravelAdmin     = "travel_admin"
	RolePackageAdmin    = "package_admin"
	RoleTravelSubAdmin  = "travel_sub_admin"
	RolePackageSubAdmin = "package_sub_admin"
)

// Role represents a role in the role-based access control (RBAC) system.
// Every user references exactly one role. Roles are created by the seeder
// and are not changed through the API.
type Role struct {
	// ID is the unique identifier (UUID) of the role.
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`
	// Name is the unique name of the role (e.g., "travel_admin").
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"type:text" json:"description"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns a UUID primary key.
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
