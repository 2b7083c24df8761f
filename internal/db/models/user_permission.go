package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/permission"
)

// UserPermission is a per-user grant on top of the role permissions.
// A user has at most one grant row.
type UserPermission struct {
	// ID is the unique identifier (UUID) of the grant.
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`
	// UserID is the user receiving the grant.
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	// User is the associated user. Deleting the user removes the grant (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// GrantedByID is the user who issued the grant.
	GrantedByID string `gorm:"type:varchar(36);not null;index" json:"granted_by"`
	// GrantedBy is the associated grantor. Deleting the grantor removes the grant (CASCADE).
	GrantedBy User `gorm:"foreignKey:GrantedByID;constraint:OnDelete:CASCADE" json:"-"`
	// Value is the normalized comma-joined permission set.
	Value string `gorm:"column:permission;size:100;not null" json:"permission"`
	// IsActive disables the grant without deleting it.
	IsActive bool `gorm:"not null" json:"is_active"`
	// CreatedAt is the timestamp when the grant was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the grant was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the UserPermission model.
func (UserPermission) TableName() string {
	return "user_permissions"
}

// BeforeCreate assigns a UUID primary key.
func (p *UserPermission) BeforeCreate(_ *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// BeforeSave rejects values outside the vocabulary and stores the normalized form.
func (p *UserPermission) BeforeSave(_ *gorm.DB) error {
	set, err := permission.ParseString(p.Value)
	if err != nil {
		return err
	}

	p.Value = set.String()

	return nil
}

// Set returns the parsed permission set.
func (p *UserPermission) Set() (permission.Set, error) {
	return permission.ParseString(p.Value)
}
