package auth

import (
	"errors"

	"github.com/tourmarket/tourmarket/internal/apperror"
)

var (
	// ErrNoPermissionRow is returned when a role has no permission row.
	ErrNoPermissionRow = errors.New("role has no permission row")

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = apperror.NotFound("User not found.")

	// ErrRoleNotFound is returned when a role cannot be found.
	ErrRoleNotFound = apperror.NotFound("Role not found.")

	// ErrPermissionNotFound is returned when a permission row cannot be found.
	ErrPermissionNotFound = apperror.NotFound("Permission not found.")

	// ErrUserPermissionNotFound is returned when a user holds no grant.
	ErrUserPermissionNotFound = apperror.NotFound("User Permission not found.")

	// ErrPermissionExists is returned when a role already has a permission row.
	ErrPermissionExists = apperror.Conflict("Permission already exist.")

	// ErrUserPermissionExists is returned when a user already holds a grant.
	ErrUserPermissionExists = apperror.Conflict("User Permission already exist.")

	// ErrInvalidOperation is returned when a user tries to grant itself.
	ErrInvalidOperation = apperror.Validation("In-valid operation.")

	// ErrPermissionDenied is the denial of the authorization gate.
	ErrPermissionDenied = apperror.PermissionDenied("Permission denied")

	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = apperror.AuthFailure("Invalid credentials.")

	// ErrUserAccountDisabled is returned when an inactive or deleted account logs in.
	ErrUserAccountDisabled = apperror.AuthFailure("User account is disabled.")

	// ErrInvalidOTP is returned for a wrong one-time code.
	ErrInvalidOTP = apperror.AuthFailure("Invalid OTP.")

	// ErrOTPExpired is returned when no code is outstanding.
	ErrOTPExpired = apperror.Expired("OTP expired or not requested.")

	// ErrInvalidToken is returned for an unknown bearer token.
	ErrInvalidToken = apperror.AuthFailure("Invalid token.")

	// ErrTokenExpired is returned for an expired bearer token.
	ErrTokenExpired = apperror.AuthFailure("Token expired.")

	// ErrEmailExists is returned when registering a taken email.
	ErrEmailExists = apperror.Conflict("Email is already exist")

	// ErrPhoneExists is returned when registering a taken phone number.
	ErrPhoneExists = apperror.Conflict("Phone number is already exist")

	// ErrInvalidCreator is returned when a provisioning creator may not create the requested role.
	ErrInvalidCreator = apperror.PermissionDenied("Creator not found or in-valid Creator role.")
)
