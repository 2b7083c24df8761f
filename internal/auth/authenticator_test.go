package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/dbtest"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/otp"
)

type recordingGateway struct {
	mu   sync.Mutex
	sent []string
}

func (g *recordingGateway) Send(_ context.Context, to, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sent = append(g.sent, to)

	return nil
}

func TestPasswordAuthenticator(t *testing.T) {
	db := dbtest.New(t)
	role := seedRole(t, db, models.RoleUser, "read")
	user := seedUser(t, db, role, "user@example.com", "5550000001")
	a := NewPasswordAuthenticator(db)
	ctx := context.Background()

	got, err := a.Authenticate(ctx, Selector{Email: "user@example.com"}, "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, models.RoleUser, got.Role.Name)
	require.NotNil(t, got.LastLogin)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.NotNil(t, stored.LastLogin)
	assert.Equal(t, user.Password, stored.Password)

	_, err = a.Authenticate(ctx, Selector{Email: "user@example.com"}, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, apperror.KindAuthFailure, apperror.KindOf(err))

	_, err = a.Authenticate(ctx, Selector{Email: "nobody@example.com"}, "s3cret-pass")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPasswordAuthenticatorDisabledAccount(t *testing.T) {
	db := dbtest.New(t)
	role := seedRole(t, db, models.RoleUser, "read")
	user := seedUser(t, db, role, "user@example.com", "5550000001")
	require.NoError(t, db.Model(user).UpdateColumn("is_deleted", true).Error)

	_, err := NewPasswordAuthenticator(db).Authenticate(context.Background(), Selector{Email: user.Email}, "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserAccountDisabled)
}

func newOTPAuthenticator(t *testing.T, code string) (*OTPAuthenticator, *recordingGateway) {
	t.Helper()

	gw := &recordingGateway{}
	ch := otp.NewChannel(otp.NewMemoryStore(), gw, otp.WithGenerator(func(time.Time) (string, error) {
		return code, nil
	}))

	return NewOTPAuthenticator(dbtest.New(t), ch), gw
}

func TestOTPAuthenticatorPhoneScenario(t *testing.T) {
	a, gw := newOTPAuthenticator(t, "482913")
	ctx := context.Background()
	role := seedRole(t, a.db, models.RoleUser, "read")
	user := seedUser(t, a.db, role, "user@example.com", "5550001234")
	sel := Selector{CountryCode: "+1", PhoneNo: "5550001234"}

	_, err := a.Challenge(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"+15550001234"}, gw.sent)

	_, err = a.Authenticate(ctx, sel, "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP)
	assert.Equal(t, apperror.KindAuthFailure, apperror.KindOf(err))

	got, err := a.Authenticate(ctx, sel, "482913")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotNil(t, got.LastLogin)

	// single use
	_, err = a.Authenticate(ctx, sel, "482913")
	assert.ErrorIs(t, err, ErrOTPExpired)
	assert.Equal(t, apperror.KindExpired, apperror.KindOf(err))
}

func TestOTPAuthenticatorUnknownPhone(t *testing.T) {
	a, gw := newOTPAuthenticator(t, "482913")

	_, err := a.Challenge(context.Background(), Selector{CountryCode: "+1", PhoneNo: "5559999999"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, gw.sent)

	_, err = a.Authenticate(context.Background(), Selector{CountryCode: "+1", PhoneNo: "5559999999"}, "482913")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOTPAuthenticatorWithoutChallenge(t *testing.T) {
	a, _ := newOTPAuthenticator(t, "482913")
	role := seedRole(t, a.db, models.RoleUser, "read")
	seedUser(t, a.db, role, "user@example.com", "5550001234")

	_, err := a.Authenticate(context.Background(), Selector{PhoneNo: "5550001234"}, "482913")
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPKey(t *testing.T) {
	assert.Equal(t, "login:+915550001234", OTPKey(Selector{CountryCode: "+91", PhoneNo: "5550001234"}.Phone()))
	assert.Equal(t, "+15550001234", Selector{PhoneNo: "5550001234"}.Phone())
}
