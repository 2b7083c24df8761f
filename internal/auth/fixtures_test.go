package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/db/models"
)

func seedRole(t *testing.T, db *gorm.DB, name, perms string) *models.Role {
	t.Helper()

	role := &models.Role{Name: name}
	require.NoError(t, db.Create(role).Error)

	if perms != "" {
		require.NoError(t, db.Create(&models.Permission{RoleID: role.ID, Value: perms}).Error)
	}

	return role
}

func seedUser(t *testing.T, db *gorm.DB, role *models.Role, email, phone string) *models.User {
	t.Helper()

	user := &models.User{
		RoleID:      role.ID,
		Email:       email,
		Password:    "s3cret-pass",
		PhoneNo:     phone,
		CountryCode: "+1",
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

func seedApplication(t *testing.T, db *gorm.DB, clientID string) *models.OAuthApplication {
	t.Helper()

	app := &models.OAuthApplication{Name: "web", ClientID: clientID, ClientSecret: "client-secret"}
	require.NoError(t, db.Create(app).Error)

	return app
}
