package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/dbtest"
	"github.com/tourmarket/tourmarket/internal/db/models"
)

func TestUpdate(t *testing.T) {
	db := dbtest.New(t)

	role := &models.Role{Name: models.RoleDriver}
	require.NoError(t, db.Create(role).Error)

	row := &models.Permission{RoleID: role.ID, Value: "read"}
	require.NoError(t, db.Create(row).Error)

	testCases := []struct {
		name     string
		id       string
		changes  map[string]any
		wantKind apperror.Kind
	}{
		{
			name:     "nothing to update",
			id:       row.ID,
			changes:  map[string]any{},
			wantKind: apperror.KindValidation,
		},
		{
			name:     "column not allowed",
			id:       row.ID,
			changes:  map[string]any{"role_id": "x", "created_by_id": "y"},
			wantKind: apperror.KindValidation,
		},
		{
			name:     "missing row",
			id:       "00000000-0000-0000-0000-000000000000",
			changes:  map[string]any{"permission": "read,write"},
			wantKind: apperror.KindNotFound,
		},
		{
			name:    "success",
			id:      row.ID,
			changes: map[string]any{"permission": "read,write"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Update(db, &models.Permission{}, tc.id, tc.changes, "permission", "updated_by_id")
			if tc.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, apperror.KindOf(err))

				return
			}

			require.NoError(t, err)
		})
	}

	var stored models.Permission
	require.NoError(t, db.First(&stored, "id = ?", row.ID).Error)
	assert.Equal(t, "read,write", stored.Value)
}

func TestUpdateColumnErrorNamesColumns(t *testing.T) {
	err := Update(dbtest.New(t), &models.Permission{}, "id", map[string]any{"b": 1, "a": 2}, "permission")

	var colErr *ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"a", "b"}, colErr.Columns)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateNilDB(t *testing.T) {
	assert.ErrorIs(t, Update(nil, &models.Permission{}, "id", map[string]any{"permission": "read"}), ErrDBNil)
}
