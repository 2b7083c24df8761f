package models

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/auth/password"
)

// DefaultCountryCode is applied when a user is registered without one.
const DefaultCountryCode = "+1"

// User represents an account of the marketplace.
// Users authenticate with email and password or with a one-time code sent
// to their phone number, and are assigned exactly one role.
type User struct {
	// ID is the unique identifier (UUID) of the user.
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`
	// RoleID is the ID of the role assigned to this user.
	RoleID string `gorm:"type:varchar(36);not null;index" json:"role_id"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"role"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:50" json:"first_name"`
	// MiddleName is the user's middle name.
	MiddleName string `gorm:"size:50" json:"middle_name"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:50" json:"last_name"`
	// CreatedByID is the user who provisioned this account, if any.
	CreatedByID *string `gorm:"type:varchar(36);index" json:"created_by,omitempty"`
	// CreatedBy is the associated creator. Deleting the creator keeps the account (SET NULL).
	CreatedBy *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	// Email is the unique login email address.
	Email string `gorm:"unique;size:50;not null" json:"email"`
	// Password is the password hash. Plain values are hashed on save.
	Password string `gorm:"size:255;not null" json:"-"`
	// Gender is free text, e.g. "female".
	Gender string `gorm:"size:10" json:"gender"`
	// DateOfBirth is optional.
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	// PhoneNo is the unique phone number without country code.
	PhoneNo string `gorm:"unique;size:15;not null" json:"phone_no"`
	// CountryCode is the dialing prefix, e.g. "+91".
	CountryCode string `gorm:"size:10;not null;default:'+1'" json:"country_code"`
	// ProfileURL points to the profile picture.
	ProfileURL string `gorm:"size:255" json:"profile_url"`
	// IsActive indicates whether the account can log in.
	IsActive bool `gorm:"not null" json:"is_active"`
	// IsDeleted marks an account removed by its owner.
	IsDeleted bool `gorm:"not null" json:"is_deleted"`
	// DeletedAt is set together with IsDeleted.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	// LastLogin is updated on every successful authentication.
	LastLogin *time.Time `json:"last_login,omitempty"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key and the default country code.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)

	if u.CountryCode == "" {
		u.CountryCode = DefaultCountryCode
	}

	return nil
}

// BeforeSave hashes a plain password. Already hashed values are kept as-is,
// so saving a user twice never double hashes.
func (u *User) BeforeSave(_ *gorm.DB) error {
	hashed, err := password.Ensure(u.Password)
	if err != nil {
		return err
	}

	u.Password = hashed

	return nil
}

// VerifyPassword verifies a plaintext password against the stored hash.
// It uses constant-time comparison. Returns true if the password matches.
func (u *User) VerifyPassword(plain string) bool {
	match, err := password.Verify(plain, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}

// CanLogin reports whether the account is active and not deleted.
func (u *User) CanLogin() bool {
	return u.IsActive && !u.IsDeleted
}

// Phone returns the full phone number including the country code.
func (u *User) Phone() string {
	return u.CountryCode + u.PhoneNo
}
