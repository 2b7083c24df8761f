package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/dbtest"
	"github.com/tourmarket/tourmarket/internal/db/models"
)

func account(role, email, phone string) Account {
	return Account{
		Role:      role,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "s3cret-pass",
		PhoneNo:   phone,
	}
}

func TestRegister(t *testing.T) {
	db := dbtest.New(t)
	seedRole(t, db, models.RoleUser, "read")
	seedRole(t, db, models.RoleTravelSubAdmin, "read")
	svc := NewAccountService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, account(models.RoleUser, "ada@example.com", "5550000001"))
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.Equal(t, models.DefaultCountryCode, user.CountryCode)
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.True(t, user.VerifyPassword("s3cret-pass"))

	_, err = svc.Register(ctx, account(models.RoleUser, "ada@example.com", "5550000002"))
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.Register(ctx, account(models.RoleUser, "bob@example.com", "5550000001"))
	assert.ErrorIs(t, err, ErrPhoneExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = svc.Register(ctx, account(models.RoleTravelSubAdmin, "sub@example.com", "5550000003"))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Register(ctx, account(models.RoleDriver, "drv@example.com", "5550000004"))
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestProvision(t *testing.T) {
	db := dbtest.New(t)
	admin := seedRole(t, db, models.RoleTravelAdmin, "read")
	seedRole(t, db, models.RoleTravelSubAdmin, "read")
	seedRole(t, db, models.RolePackageSubAdmin, "read")
	svc := NewAccountService(db)
	ctx := context.Background()

	creator := seedUser(t, db, admin, "admin@example.com", "5550000001")

	sub, err := svc.Provision(ctx, creator.ID, account(models.RoleTravelSubAdmin, "sub@example.com", "5550000002"))
	require.NoError(t, err)
	require.NotNil(t, sub.CreatedByID)
	assert.Equal(t, creator.ID, *sub.CreatedByID)

	_, err = svc.Provision(ctx, creator.ID, account(models.RolePackageSubAdmin, "pkg@example.com", "5550000003"))
	assert.ErrorIs(t, err, ErrInvalidCreator)

	_, err = svc.Provision(ctx, sub.ID, account(models.RoleTravelSubAdmin, "sub2@example.com", "5550000004"))
	assert.ErrorIs(t, err, ErrInvalidCreator)

	_, err = svc.Provision(ctx, "missing", account(models.RoleTravelSubAdmin, "sub3@example.com", "5550000005"))
	assert.ErrorIs(t, err, ErrInvalidCreator)

	// deleting the creator keeps the provisioned account
	require.NoError(t, svc.Delete(ctx, creator.ID))

	got, err := svc.GetUser(ctx, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CreatedByID)

	assert.ErrorIs(t, svc.Delete(ctx, creator.ID), ErrUserNotFound)
}
