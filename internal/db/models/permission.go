package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/permission"
)

// Permission holds the permission set granted to a role.
// There is at most one row per role. The set is stored as a comma-joined
// string of the vocabulary read, write, update and delete.
type Permission struct {
	// ID is the unique identifier (UUID) of the permission row.
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`
	// RoleID is the role owning this permission set.
	RoleID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"role_id"`
	// Role is the associated role. Deleting a role removes its permissions (CASCADE).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
	// Value is the normalized comma-joined permission set, e.g. "read,write".
	Value string `gorm:"column:permission;size:100;not null" json:"permission"`
	// CreatorID is the user who created the row (column created_by_id).
	// User carries its own CreatedByID, so the field is named apart from it
	// to keep the association a belongs-to on this table.
	CreatorID *string `gorm:"column:created_by_id;type:varchar(36);index" json:"created_by"`
	// Creator is the associated creator. Deleting the creator keeps the row (SET NULL).
	Creator *User `gorm:"foreignKey:CreatorID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	// UpdatedByID is the user who last changed the row.
	UpdatedByID *string `gorm:"type:varchar(36)" json:"updated_by"`
	// UpdatedBy is the associated last editor.
	UpdatedBy *User `gorm:"foreignKey:UpdatedByID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	// CreatedAt is the timestamp when the row was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the row was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permission"
}

// BeforeCreate assigns a UUID primary key.
func (p *Permission) BeforeCreate(_ *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// BeforeSave rejects values outside the vocabulary and stores the normalized form.
func (p *Permission) BeforeSave(_ *gorm.DB) error {
	set, err := permission.ParseString(p.Value)
	if err != nil {
		return err
	}

	p.Value = set.String()

	return nil
}

// Set returns the parsed permission set.
func (p *Permission) Set() (permission.Set, error) {
	return permission.ParseString(p.Value)
}
