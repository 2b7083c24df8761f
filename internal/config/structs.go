package config

import (
	"time"

	"github.com/tourmarket/tourmarket/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Redis     Redis
	OTP       OTP
	Token     Token
	SMS       SMS

	// Policy overrides the allowed roles per operation domain,
	// e.g. vehicle = ["travel_admin", "travel_sub_admin"].
	// An empty list removes the role gate of a domain.
	Policy map[string][]string
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown in seconds
	URL            string // base url for the webserver
	BodyLimit      int    // max request body in bytes, fiber default if 0
}

// Redis holds the connection settings of the OTP cache.
type Redis struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string // prepended to every key, e.g. "tourmarket:"
}

// OTP store kinds.
const (
	OTPStoreRedis  = "redis"
	OTPStoreMemory = "memory"
)

// OTP holds one-time code settings.
type OTP struct {
	Store string // redis or memory
	TTL   int    // seconds a code stays valid

	// MaxAttempts deletes the code after this many wrong guesses.
	// 0 disables the lockout.
	MaxAttempts int

	// Message is the SMS text, %s is replaced by the code.
	Message string
}

// Lifetime returns the code TTL.
func (o OTP) Lifetime() time.Duration {
	return time.Duration(o.TTL) * time.Second
}

// Token holds bearer token settings.
type Token struct {
	TTL      int    // seconds
	ClientID string // OAuth application tokens are issued for, optional with one application
}

// Lifetime returns the token TTL.
func (t Token) Lifetime() time.Duration {
	return time.Duration(t.TTL) * time.Second
}

// SMS gateway kinds.
const (
	SMSGatewayHTTP = "http"
	SMSGatewayLog  = "log"
)

// SMS holds the SMS gateway settings.
type SMS struct {
	Gateway string // http or log
	URL     string
	APIKey  string
	Sender  string
	Timeout int // seconds
}
