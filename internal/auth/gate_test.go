package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/dbtest"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/permission"
)

func newTestGate(t *testing.T) (*Gate, *PermissionStore) {
	t.Helper()

	db := dbtest.New(t)
	store := NewPermissionStore(db)

	return NewGate(db, store, DefaultPolicy()), store
}

func TestGateAllowedIffMember(t *testing.T) {
	sets := []string{"read", "write", "update", "delete", "read,write", "read,update,delete", "read,write,update,delete"}

	for _, value := range sets {
		t.Run(value, func(t *testing.T) {
			gate, _ := newTestGate(t)
			role := seedRole(t, gate.db, models.RoleTravelAdmin, value)
			user := seedUser(t, gate.db, role, "admin@example.com", "5550000001")
			set := permission.MustParse(value)

			for _, perm := range permission.All() {
				err := gate.Authorize(context.Background(), user.ID, DomainVehicle, perm)
				if set.Has(perm) {
					assert.NoError(t, err, perm.String())
				} else {
					assert.ErrorIs(t, err, ErrPermissionDenied, perm.String())
				}
			}
		})
	}
}

func TestGateTravelSubAdminScenario(t *testing.T) {
	gate, store := newTestGate(t)
	ctx := context.Background()

	role := seedRole(t, gate.db, models.RoleTravelSubAdmin, "")
	_, err := store.SetPermissions(ctx, role.ID, "", []string{"read", "write"})
	require.NoError(t, err)

	user := seedUser(t, gate.db, role, "sub@example.com", "5550000001")

	assert.NoError(t, gate.Authorize(ctx, user.ID, DomainVehicle, permission.Read))
	assert.NoError(t, gate.Authorize(ctx, user.ID, DomainDriver, permission.Write))

	err = gate.Authorize(ctx, user.ID, DomainVehicle, permission.Delete)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, http.StatusForbidden, apperror.StatusCode(err))
}

func TestGateRoleGateBeforePermissionLookup(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	// full permissions do not help a role outside the allowed list
	role := seedRole(t, gate.db, models.RoleUser, "read,write,update,delete")
	user := seedUser(t, gate.db, role, "user@example.com", "5550000001")

	err := gate.Authorize(ctx, user.ID, DomainVehicle, permission.Read)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// domains without a role gate fall through to the permission set
	assert.NoError(t, gate.Authorize(ctx, user.ID, DomainAddress, permission.Read))
}

func TestGateMissingPermissionRowDenies(t *testing.T) {
	gate, _ := newTestGate(t)
	role := seedRole(t, gate.db, models.RoleTravelAdmin, "")
	user := seedUser(t, gate.db, role, "admin@example.com", "5550000001")

	err := gate.Authorize(context.Background(), user.ID, DomainVehicle, permission.Read)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestGateUnknownUser(t *testing.T) {
	gate, _ := newTestGate(t)

	err := gate.Authorize(context.Background(), "missing", DomainVehicle, permission.Read)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, http.StatusNotFound, apperror.StatusCode(err))
}

func TestGateDisabledAccountDenied(t *testing.T) {
	for _, column := range []string{"is_active", "is_deleted"} {
		t.Run(column, func(t *testing.T) {
			gate, _ := newTestGate(t)
			ctx := context.Background()
			role := seedRole(t, gate.db, models.RoleTravelAdmin, "read,write,update,delete")
			user := seedUser(t, gate.db, role, "admin@example.com", "5550000001")

			require.NoError(t, gate.Authorize(ctx, user.ID, DomainVehicle, permission.Read))

			require.NoError(t, gate.db.Model(user).UpdateColumn(column, column == "is_deleted").Error)

			err := gate.Authorize(ctx, user.ID, DomainVehicle, permission.Read)
			assert.ErrorIs(t, err, ErrPermissionDenied)
			assert.Equal(t, http.StatusForbidden, apperror.StatusCode(err))
		})
	}
}

func TestGateUserGrantUnion(t *testing.T) {
	gate, store := newTestGate(t)
	ctx := context.Background()

	role := seedRole(t, gate.db, models.RoleTravelAdmin, "read")
	grantor := seedUser(t, gate.db, role, "grantor@example.com", "5550000001")
	user := seedUser(t, gate.db, role, "user@example.com", "5550000002")

	require.ErrorIs(t, gate.Authorize(ctx, user.ID, DomainVehicle, permission.Delete), ErrPermissionDenied)

	_, err := store.GrantUserPermission(ctx, grantor.ID, user.ID, []string{"delete"})
	require.NoError(t, err)
	assert.NoError(t, gate.Authorize(ctx, user.ID, DomainVehicle, permission.Delete))
	assert.NoError(t, gate.Authorize(ctx, user.ID, DomainVehicle, permission.Read))

	inactive := false
	_, err = store.UpdateUserPermission(ctx, grantor.ID, user.ID, UserPermissionUpdate{IsActive: &inactive})
	require.NoError(t, err)
	assert.ErrorIs(t, gate.Authorize(ctx, user.ID, DomainVehicle, permission.Delete), ErrPermissionDenied)
}

func TestGatePolicyOverride(t *testing.T) {
	db := dbtest.New(t)
	policy := DefaultPolicy().Merge(map[string][]string{DomainVehicle: {models.RoleUser}})
	gate := NewGate(db, NewPermissionStore(db), policy)

	role := seedRole(t, db, models.RoleUser, "read")
	user := seedUser(t, db, role, "user@example.com", "5550000001")

	assert.NoError(t, gate.Authorize(context.Background(), user.ID, DomainVehicle, permission.Read))
	assert.ElementsMatch(t, []string{models.RoleTravelAdmin, models.RoleTravelSubAdmin}, DefaultPolicy()[DomainVehicle])
}

func TestGateCheckDecision(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()
	role := seedRole(t, gate.db, models.RoleTravelAdmin, "read")
	user := seedUser(t, gate.db, role, "admin@example.com", "5550000001")

	d := gate.Check(ctx, user.ID, DomainVehicle, permission.Read)
	assert.True(t, d.Allowed)
	assert.Equal(t, http.StatusOK, d.StatusCode)

	d = gate.Check(ctx, user.ID, DomainVehicle, permission.Write)
	assert.False(t, d.Allowed)
	assert.Equal(t, "Permission denied", d.Reason)
	assert.Equal(t, http.StatusForbidden, d.StatusCode)
	assert.Equal(t, apperror.KindPermissionDenied, d.Kind)

	d = gate.Check(ctx, "missing", DomainVehicle, permission.Read)
	assert.Equal(t, http.StatusNotFound, d.StatusCode)
}
