package daemon

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tourmarket/tourmarket/internal/auth"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/permission"
)

type seedRole struct {
	name        string
	description string
	permissions permission.Set
}

//nolint:gochecknoglobals
var defaultRoles = []seedRole{
	{models.RoleUser, "Marketplace customer", permission.MustParse("read")},
	{models.RoleDriver, "Driver of a travel agency", permission.MustParse("read")},
	{models.RoleTravelAdmin, "Owner of a travel agency", permission.MustParse("read,write,update,delete")},
	{models.RolePackageAdmin, "Owner of a package provider", permission.MustParse("read,write,update,delete")},
	{models.RoleTravelSubAdmin, "Staff of a travel agency", permission.MustParse("read,write")},
	{models.RolePackageSubAdmin, "Staff of a package provider", permission.MustParse("read,write")},
}

// Seed creates the built-in roles and their default permission rows.
// Existing roles and rows are left untouched, so seeding twice is a no-op.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range defaultRoles {
			role := models.Role{Name: r.name, Description: r.description}

			if err := tx.Where(models.Role{Name: r.name}).FirstOrCreate(&role).Error; err != nil {
				return err
			}

			row := models.Permission{RoleID: role.ID, Value: r.permissions.String()}

			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected > 0 {
				log.Info().Str("role", r.name).Str("permission", row.Value).Msg("seeded role permission")
			}
		}

		return nil
	})
}

// ResetPermissions writes the default permission set of every built-in role,
// overwriting customized rows. Roles missing from the database are skipped.
func ResetPermissions(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := auth.NewPermissionStore(tx)

		for _, r := range defaultRoles {
			var role models.Role

			err := tx.Where(models.Role{Name: r.name}).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}

			if err != nil {
				return err
			}

			set, err := store.SetPermissions(ctx, role.ID, "", r.permissions.Strings())
			if err != nil {
				return err
			}

			log.Info().Str("role", r.name).Stringer("permission", set).Msg("reset role permission")
		}

		return nil
	})
}

// Client is a registered application together with its plain secret.
// The secret is only available at creation.
type Client struct {
	Application *models.OAuthApplication
	Secret      string
}

// AddClient registers an OAuth application with a random client id and secret.
func AddClient(ctx context.Context, db *gorm.DB, name, redirectURI string) (*Client, error) {
	if name == "" {
		return nil, errors.New("client name is empty")
	}

	secret := uuid.NewString()

	app := &models.OAuthApplication{
		Name:         name,
		ClientID:     uuid.NewString(),
		ClientSecret: secret,
		RedirectURI:  redirectURI,
	}

	if err := db.WithContext(ctx).Create(app).Error; err != nil {
		return nil, err
	}

	return &Client{Application: app, Secret: secret}, nil
}

// EnsureClient registers an application named name unless one exists.
// A fresh database gets a working login without running add-client.
func EnsureClient(ctx context.Context, db *gorm.DB, name string) (*Client, error) {
	var count int64

	if err := db.WithContext(ctx).Model(&models.OAuthApplication{}).Count(&count).Error; err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, nil //nolint:nilnil
	}

	return AddClient(ctx, db, name, "")
}
