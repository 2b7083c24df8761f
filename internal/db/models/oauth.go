package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/auth/password"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "Bearer"

// OAuthApplication is a registered client application.
// Access tokens are scoped to a user and an application.
type OAuthApplication struct {
	// ID is the unique identifier for the application.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is a human-readable name.
	Name string `gorm:"size:255;not null" json:"name"`
	// ClientID is the public identifier of the application.
	ClientID string `gorm:"unique;size:100;not null" json:"client_id"`
	// ClientSecret is the hashed client secret.
	ClientSecret string `gorm:"size:255;not null" json:"-"`
	// RedirectURI is the registered callback of the application.
	RedirectURI string `gorm:"size:255" json:"redirect_uri"`
	// ClientType is "confidential" or "public".
	ClientType string `gorm:"size:32;not null;default:'confidential'" json:"client_type"`
	// GrantType is the OAuth grant type, e.g. "password".
	GrantType string `gorm:"size:32;not null;default:'password'" json:"grant_type"`
	// CreatedAt is the timestamp when the application was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the application was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the OAuthApplication model.
func (OAuthApplication) TableName() string {
	return "oauth_application"
}

// BeforeSave hashes a plain client secret.
func (a *OAuthApplication) BeforeSave(_ *gorm.DB) error {
	hashed, err := password.Ensure(a.ClientSecret)
	if err != nil {
		return err
	}

	a.ClientSecret = hashed

	return nil
}

// OAuthAccessToken is a bearer token for one (user, application) pair.
// Issuing a new token replaces the previous one in place.
type OAuthAccessToken struct {
	// ID is the unique identifier for the token row.
	ID uint `gorm:"primaryKey" json:"-"`
	// UserID is the token owner.
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_token_user_application" json:"user_id"`
	// User is the associated owner. Deleting the user revokes the token (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// ApplicationID is the application the token was issued for.
	ApplicationID uint `gorm:"not null;uniqueIndex:idx_token_user_application" json:"application_id"`
	// Application is the associated application (CASCADE).
	Application OAuthApplication `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
	// AccessToken is the opaque token value.
	AccessToken string `gorm:"unique;size:255;not null" json:"access_token"`
	// TokenType is always "Bearer".
	TokenType string `gorm:"size:50;not null" json:"token_type"`
	// Scope is a space separated scope list.
	Scope string `gorm:"size:255" json:"scope"`
	// ExpiresAt is the absolute expiry time.
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	// CreatedAt is the timestamp when the token was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the token was last rotated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the OAuthAccessToken model.
func (OAuthAccessToken) TableName() string {
	return "oauth_access_token"
}

// ValidAt reports whether the token has not expired at t.
func (t *OAuthAccessToken) ValidAt(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

// All returns every model managed by the migrations, in dependency order.
func All() []any {
	return []any{
		&Role{},
		&User{},
		&Permission{},
		&UserPermission{},
		&OAuthApplication{},
		&OAuthAccessToken{},
	}
}
