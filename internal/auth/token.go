package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/metrics"
)

const (
	// DefaultTokenTTL is the lifetime of an issued bearer token.
	DefaultTokenTTL = time.Hour

	tokenBytes = 32
)

// ErrNoApplication is returned when no OAuth application can be resolved.
var ErrNoApplication = apperror.New(apperror.KindConfiguration, "OAuth application not configured.")

// TokenIssuer issues and validates bearer tokens.
type TokenIssuer struct {
	db       *gorm.DB
	ttl      time.Duration
	clientID string
	now      func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. An empty clientID selects the only
// registered application.
func NewTokenIssuer(db *gorm.DB, ttl time.Duration, clientID string) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenIssuer{db: db, ttl: ttl, clientID: clientID, now: time.Now}
}

// Application resolves the application tokens are issued for.
func (t *TokenIssuer) Application(ctx context.Context) (*models.OAuthApplication, error) {
	if t.clientID != "" {
		var app models.OAuthApplication

		err := t.db.WithContext(ctx).Where("client_id = ?", t.clientID).First(&app).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoApplication
		}

		if err != nil {
			return nil, apperror.Internal(err, "failed to load application")
		}

		return &app, nil
	}

	var apps []models.OAuthApplication

	if err := t.db.WithContext(ctx).Limit(2).Find(&apps).Error; err != nil {
		return nil, apperror.Internal(err, "failed to load application")
	}

	if len(apps) != 1 {
		return nil, ErrNoApplication
	}

	return &apps[0], nil
}

// Issue creates the token of user, replacing any earlier one for the same
// application.
func (t *TokenIssuer) Issue(ctx context.Context, user *models.User) (*models.OAuthAccessToken, error) {
	app, err := t.Application(ctx)
	if err != nil {
		return nil, err
	}

	value, err := newToken()
	if err != nil {
		return nil, apperror.Internal(err, "failed to generate token")
	}

	row := models.OAuthAccessToken{
		UserID:        user.ID,
		ApplicationID: app.ID,
		AccessToken:   value,
		TokenType:     models.TokenTypeBearer,
		ExpiresAt:     t.now().Add(t.ttl),
	}

	err = t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "application_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "token_type", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, apperror.Internal(err, "failed to store token")
	}

	var stored models.OAuthAccessToken

	if err = t.db.WithContext(ctx).Where("access_token = ?", value).First(&stored).Error; err != nil {
		return nil, apperror.Internal(err, "failed to load token")
	}

	metrics.TokensIssued.Inc()

	return &stored, nil
}

// Validate returns the token row of value if it exists and has not expired.
func (t *TokenIssuer) Validate(ctx context.Context, value string) (*models.OAuthAccessToken, error) {
	if value == "" {
		return nil, ErrInvalidToken
	}

	var row models.OAuthAccessToken

	err := t.db.WithContext(ctx).Where("access_token = ?", value).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}

	if err != nil {
		return nil, apperror.Internal(err, "failed to load token")
	}

	if !row.ValidAt(t.now()) {
		return nil, ErrTokenExpired
	}

	return &row, nil
}

// IsValid reports whether value is a live token.
func (t *TokenIssuer) IsValid(ctx context.Context, value string) bool {
	_, err := t.Validate(ctx, value)

	return err == nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
