// Package auth implements the access-control core of the marketplace.
//
// # Roles and permissions
//
// Every user has exactly one role. A role owns at most one permission row,
// a set drawn from read, write, update and delete. A user may additionally
// hold one active grant which is added to the role set.
//
// # Authorization
//
// Gate decides whether a user may perform an operation in a domain:
//
//  1. The user and its role are resolved. A missing user or role is
//     apperror.KindNotFound.
//  2. If the Policy lists allowed roles for the domain and the role is not
//     among them the request is denied without consulting the store.
//  3. The role permission row is loaded. A missing row denies.
//  4. The required permission must be a member of the role set united with
//     the active user grant.
//
// Store faults are reported as apperror.KindInternal, never as a denial.
//
// # Credentials and tokens
//
// PasswordAuthenticator and OTPAuthenticator implement Authenticator.
// TokenIssuer keeps one bearer token per user and application and rotates
// it in place on every login.
//
// Example usage:
//
//	store := auth.NewPermissionStore(db)
//	gate := auth.NewGate(db, store, auth.DefaultPolicy())
//
//	if err := gate.Authorize(ctx, userID, auth.DomainVehicle, permission.Read); err != nil {
//	    return err
//	}
package auth
