package otp

import (
	"context"
	"fmt"
	"time"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog/log"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/metrics"
	"github.com/tourmarket/tourmarket/internal/sms"
)

const (
	// DefaultTTL is how long an issued code stays valid.
	DefaultTTL = 300 * time.Second
	// DefaultMessage is the SMS text, %s is replaced by the code.
	DefaultMessage = "Your OTP is %s"

	issuer = "tourmarket"
	period = 30
)

// Result is the outcome of a verification.
type Result int

const (
	// Expired means no code is outstanding for the key.
	Expired Result = iota
	// Verified means the code matched and has been consumed.
	Verified
	// Invalid means the code did not match.
	Invalid
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Verified:
		return metrics.ResultVerified
	case Invalid:
		return metrics.ResultInvalid
	default:
		return metrics.ResultExpired
	}
}

// Generator returns a new six digit code.
type Generator func(now time.Time) (string, error)

// TOTPGenerator derives the code from a fresh random TOTP secret, so codes
// of different issuances are unrelated.
func TOTPGenerator(now time.Time) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: issuer,
		Period:      period,
		Digits:      potp.DigitsSix,
		Algorithm:   potp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate otp secret: %w", err)
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), now, totp.ValidateOpts{
		Period:    period,
		Digits:    potp.DigitsSix,
		Algorithm: potp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}

	return code, nil
}

// Channel issues codes, delivers them and verifies them.
type Channel struct {
	store       Store
	gateway     sms.Gateway
	generate    Generator
	ttl         time.Duration
	maxAttempts int
	message     string
	now         func() time.Time
}

// Option configures a Channel.
type Option func(*Channel)

// WithTTL sets the code lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Channel) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxAttempts deletes a code after n wrong guesses. 0 disables it.
func WithMaxAttempts(n int) Option {
	return func(c *Channel) {
		c.maxAttempts = n
	}
}

// WithMessage sets the SMS text format.
func WithMessage(format string) Option {
	return func(c *Channel) {
		if format != "" {
			c.message = format
		}
	}
}

// WithGenerator replaces the code generator.
func WithGenerator(g Generator) Option {
	return func(c *Channel) {
		c.generate = g
	}
}

// NewChannel creates a Channel.
func NewChannel(store Store, gateway sms.Gateway, opts ...Option) *Channel {
	c := &Channel{
		store:    store,
		gateway:  gateway,
		generate: TOTPGenerator,
		ttl:      DefaultTTL,
		message:  DefaultMessage,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TTL returns the code lifetime.
func (c *Channel) TTL() time.Duration {
	return c.ttl
}

// Issue creates a code for key, replacing any outstanding one, and sends it
// to destination. If delivery fails the undelivered code is removed again,
// unless it was already replaced, and an apperror.KindDeliveryFailed error
// is returned.
func (c *Channel) Issue(ctx context.Context, key, destination string) (string, error) {
	code, err := c.generate(c.now())
	if err != nil {
		return "", apperror.Internal(err, "failed to generate otp")
	}

	if err = c.store.Set(ctx, key, code, c.ttl); err != nil {
		return "", apperror.Internal(err, "failed to store otp")
	}

	if err = c.gateway.Send(ctx, destination, fmt.Sprintf(c.message, code)); err != nil {
		// a code issued meanwhile by another request stays in place
		if _, delErr := c.store.CompareAndDelete(ctx, key, code); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("failed to remove undelivered otp")
		}

		metrics.OTPIssued.WithLabelValues(metrics.ResultDeliveryFailed).Inc()

		if apperror.KindOf(err) == apperror.KindDeliveryFailed {
			return "", err
		}

		return "", apperror.Wrap(apperror.KindDeliveryFailed, err, "failed to send otp")
	}

	metrics.OTPIssued.WithLabelValues(metrics.ResultSent).Inc()

	return code, nil
}

// Verify checks code against the outstanding code of key.
// A match consumes the code. A mismatch leaves it usable unless the
// attempt limit is enabled and reached. The error is only set for store
// faults.
func (c *Channel) Verify(ctx context.Context, key, code string) (Result, error) {
	cmp, err := c.store.CompareAndDelete(ctx, key, code)
	if err != nil {
		return Expired, apperror.Internal(err, "failed to verify otp")
	}

	switch cmp {
	case Match:
		metrics.OTPVerifications.WithLabelValues(metrics.ResultVerified).Inc()
		return Verified, nil

	case Mismatch:
		if c.maxAttempts > 0 {
			if err = c.countFailure(ctx, key); err != nil {
				return Invalid, err
			}
		}

		metrics.OTPVerifications.WithLabelValues(metrics.ResultInvalid).Inc()

		return Invalid, nil

	default:
		metrics.OTPVerifications.WithLabelValues(metrics.ResultExpired).Inc()
		return Expired, nil
	}
}

func (c *Channel) countFailure(ctx context.Context, key string) error {
	n, err := c.store.IncrAttempts(ctx, key, c.ttl)
	if err != nil {
		return apperror.Internal(err, "failed to count otp attempt")
	}

	if n < int64(c.maxAttempts) {
		return nil
	}

	if err = c.store.Delete(ctx, key); err != nil {
		return apperror.Internal(err, "failed to lock otp")
	}

	log.Warn().Str("key", key).Int64("attempts", n).Msg("otp locked after too many attempts")
	metrics.OTPVerifications.WithLabelValues(metrics.ResultLocked).Inc()

	return nil
}
