package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmarket/tourmarket/internal/config"
	"github.com/tourmarket/tourmarket/internal/db"
	"github.com/tourmarket/tourmarket/internal/db/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := config.DB{
		Engine:       config.EngineSQLite,
		Name:         filepath.Join(t.TempDir(), "tm.db"),
		Extras:       "_pragma=foreign_keys(1)",
		MaxOpenConns: 2,
	}

	gdb, err := db.Open(cfg, true)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, db.Migrate(gdb))

	for _, table := range []string{"roles", "users", "permission", "user_permissions", "oauth_application", "oauth_access_token"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}

	assert.True(t, gdb.Migrator().HasIndex(&models.OAuthAccessToken{}, "idx_token_user_application"))

	// idempotent
	require.NoError(t, db.Migrate(gdb))
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := db.Open(config.DB{Engine: "oracle"}, false)
	assert.ErrorIs(t, err, config.ErrUnknownDBEngine)
}
