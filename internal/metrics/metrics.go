// Package metrics holds the prometheus collectors of the access-control core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values.
const (
	ResultAllowed = "allowed"
	ResultDenied  = "denied"
	ResultError   = "error"

	ResultSent           = "sent"
	ResultDeliveryFailed = "delivery_failed"

	ResultVerified = "verified"
	ResultInvalid  = "invalid"
	ResultExpired  = "expired"
	ResultLocked   = "locked"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

//nolint:gochecknoglobals
var (
	// AuthzDecisions counts authorization gate decisions.
	AuthzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_decisions_total",
		Help: "Authorization decisions by operation domain and result.",
	}, []string{"domain", "result"})

	// OTPIssued counts issued one-time codes.
	OTPIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otp_issued_total",
		Help: "One-time codes issued, by delivery result.",
	}, []string{"result"})

	// OTPVerifications counts verification attempts.
	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "otp_verifications_total",
		Help: "One-time code verification attempts by result.",
	}, []string{"result"})

	// TokensIssued counts issued or rotated bearer tokens.
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokens_issued_total",
		Help: "Bearer tokens issued or rotated.",
	})

	// Logins counts authentication attempts per method.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Authentication attempts by method and result.",
	}, []string{"method", "result"})
)
