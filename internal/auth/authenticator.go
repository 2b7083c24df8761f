package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/metrics"
	"github.com/tourmarket/tourmarket/internal/otp"
)

const (
	methodPassword = "password"
	methodOTP      = "otp"
)

// Selector identifies the account to authenticate.
// Password logins use Email, OTP logins use CountryCode and PhoneNo.
type Selector struct {
	Email       string
	CountryCode string
	PhoneNo     string
}

// Phone returns the full phone number of the selector.
func (s Selector) Phone() string {
	cc := s.CountryCode
	if cc == "" {
		cc = models.DefaultCountryCode
	}

	return cc + s.PhoneNo
}

// Authenticator verifies a secret for the account named by a Selector.
type Authenticator interface {
	Authenticate(ctx context.Context, sel Selector, secret string) (*models.User, error)
}

// PasswordAuthenticator verifies email and password.
type PasswordAuthenticator struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPasswordAuthenticator creates a PasswordAuthenticator.
func NewPasswordAuthenticator(db *gorm.DB) *PasswordAuthenticator {
	return &PasswordAuthenticator{db: db, now: time.Now}
}

// Authenticate implements Authenticator.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, sel Selector, secret string) (*models.User, error) {
	var user models.User

	err := a.db.WithContext(ctx).Preload("Role").Where("email = ?", sel.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.Logins.WithLabelValues(methodPassword, metrics.ResultFailure).Inc()
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}

	if !user.CanLogin() {
		metrics.Logins.WithLabelValues(methodPassword, metrics.ResultFailure).Inc()
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(secret) {
		log.Warn().Str("user_id", user.ID).Msg("password mismatch")
		metrics.Logins.WithLabelValues(methodPassword, metrics.ResultFailure).Inc()

		return nil, ErrInvalidCredentials
	}

	if err = touchLastLogin(ctx, a.db, &user, a.now()); err != nil {
		return nil, err
	}

	metrics.Logins.WithLabelValues(methodPassword, metrics.ResultSuccess).Inc()

	return &user, nil
}

// OTPAuthenticator verifies one-time codes sent to the phone of a user.
type OTPAuthenticator struct {
	db      *gorm.DB
	channel *otp.Channel
	now     func() time.Time
}

// NewOTPAuthenticator creates an OTPAuthenticator.
func NewOTPAuthenticator(db *gorm.DB, channel *otp.Channel) *OTPAuthenticator {
	return &OTPAuthenticator{db: db, channel: channel, now: time.Now}
}

// OTPKey is the channel key of the login code for a phone number.
func OTPKey(phone string) string {
	return "login:" + phone
}

// Challenge sends a login code to the phone of the selected user.
func (a *OTPAuthenticator) Challenge(ctx context.Context, sel Selector) (*models.User, error) {
	user, err := a.lookup(ctx, sel)
	if err != nil {
		return nil, err
	}

	if !user.CanLogin() {
		return nil, ErrUserAccountDisabled
	}

	if _, err = a.channel.Issue(ctx, OTPKey(user.Phone()), user.Phone()); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate implements Authenticator. secret is the one-time code.
func (a *OTPAuthenticator) Authenticate(ctx context.Context, sel Selector, secret string) (*models.User, error) {
	user, err := a.lookup(ctx, sel)
	if err != nil {
		metrics.Logins.WithLabelValues(methodOTP, metrics.ResultFailure).Inc()
		return nil, err
	}

	result, err := a.channel.Verify(ctx, OTPKey(user.Phone()), secret)
	if err != nil {
		return nil, err
	}

	switch result {
	case otp.Verified:
	case otp.Invalid:
		metrics.Logins.WithLabelValues(methodOTP, metrics.ResultFailure).Inc()
		return nil, ErrInvalidOTP
	default:
		metrics.Logins.WithLabelValues(methodOTP, metrics.ResultFailure).Inc()
		return nil, ErrOTPExpired
	}

	if !user.CanLogin() {
		metrics.Logins.WithLabelValues(methodOTP, metrics.ResultFailure).Inc()
		return nil, ErrUserAccountDisabled
	}

	if err = touchLastLogin(ctx, a.db, user, a.now()); err != nil {
		return nil, err
	}

	metrics.Logins.WithLabelValues(methodOTP, metrics.ResultSuccess).Inc()

	return user, nil
}

func (a *OTPAuthenticator) lookup(ctx context.Context, sel Selector) (*models.User, error) {
	cc := sel.CountryCode
	if cc == "" {
		cc = models.DefaultCountryCode
	}

	var user models.User

	err := a.db.WithContext(ctx).Preload("Role").
		Where("country_code = ? AND phone_no = ?", cc, sel.PhoneNo).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}

	return &user, nil
}

// touchLastLogin stores the login time without running the save hooks.
func touchLastLogin(ctx context.Context, db *gorm.DB, user *models.User, now time.Time) error {
	err := db.WithContext(ctx).Model(user).UpdateColumn("last_login", now).Error
	if err != nil {
		return apperror.Internal(fmt.Errorf("user %s: %w", user.ID, err), "failed to update last login")
	}

	user.LastLogin = &now

	return nil
}
