package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/models"
	"github.com/tourmarket/tourmarket/internal/metrics"
	"github.com/tourmarket/tourmarket/internal/permission"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed    bool          `json:"allowed"`
	Reason     string        `json:"reason,omitempty"`
	StatusCode int           `json:"status_code"`
	Kind       apperror.Kind `json:"kind,omitempty"`
}

// Gate authorizes operations of users.
type Gate struct {
	db     *gorm.DB
	store  *PermissionStore
	policy Policy
}

// NewGate creates a Gate. A nil policy means no domain has a role gate.
func NewGate(db *gorm.DB, store *PermissionStore, policy Policy) *Gate {
	if policy == nil {
		policy = Policy{}
	}

	return &Gate{db: db, store: store, policy: policy}
}

// Authorize returns nil if userID may perform perm in domain.
// Denials are ErrPermissionDenied, inactive or deleted accounts included.
// Unknown users or roles are
// apperror.KindNotFound and store faults are apperror.KindInternal.
func (g *Gate) Authorize(ctx context.Context, userID, domain string, perm permission.Perm) error {
	user, err := g.resolve(ctx, userID)
	if err != nil {
		g.count(domain, metrics.ResultError)
		return err
	}

	if !user.CanLogin() {
		g.deny(userID, user.Role.Name, domain, perm, "account disabled")
		return ErrPermissionDenied
	}

	if !g.policy.Allows(domain, user.Role.Name) {
		g.deny(userID, user.Role.Name, domain, perm, "role not allowed")
		return ErrPermissionDenied
	}

	roleSet, err := g.store.RolePermissions(ctx, user.RoleID)
	if errors.Is(err, ErrNoPermissionRow) {
		g.deny(userID, user.Role.Name, domain, perm, "role has no permission row")
		return ErrPermissionDenied
	}

	if err != nil {
		g.count(domain, metrics.ResultError)
		return apperror.Internal(err, "failed to load role permission")
	}

	grant, err := g.store.UserGrant(ctx, userID)
	if err != nil {
		g.count(domain, metrics.ResultError)
		return apperror.Internal(err, "failed to load user permission")
	}

	if !roleSet.Union(grant).Has(perm) {
		g.deny(userID, user.Role.Name, domain, perm, "permission missing")
		return ErrPermissionDenied
	}

	g.count(domain, metrics.ResultAllowed)

	return nil
}

// Check is Authorize reported as a Decision.
func (g *Gate) Check(ctx context.Context, userID, domain string, perm permission.Perm) Decision {
	err := g.Authorize(ctx, userID, domain, perm)
	if err == nil {
		return Decision{Allowed: true, StatusCode: http.StatusOK}
	}

	kind := apperror.KindOf(err)

	reason := err.Error()

	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		reason = appErr.Message
	}

	return Decision{Reason: reason, StatusCode: apperror.StatusCodeOf(kind), Kind: kind}
}

func (g *Gate) resolve(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	err := g.db.WithContext(ctx).Preload("Role").Where(whereID, userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}

	if user.Role.ID == "" {
		return nil, ErrRoleNotFound
	}

	return &user, nil
}

func (g *Gate) deny(userID, role, domain string, perm permission.Perm, reason string) {
	log.Warn().
		Str("user_id", userID).
		Str("role", role).
		Str("domain", domain).
		Stringer("permission", perm).
		Str("reason", reason).
		Msg("permission denied")

	g.count(domain, metrics.ResultDenied)
}

func (g *Gate) count(domain, result string) {
	metrics.AuthzDecisions.WithLabelValues(domain, result).Inc()
}
