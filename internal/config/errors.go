package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownDBEngine error if config db.engine is not supported.
	ErrUnknownDBEngine = errors.New("toml config db.engine must be mysql, postgres or sqlite")

	// ErrUnknownOTPStore error if config otp.store is not supported.
	ErrUnknownOTPStore = errors.New("toml config otp.store must be redis or memory")

	// ErrEmptyRedisAddr error if the redis otp store has no address.
	ErrEmptyRedisAddr = errors.New("toml config redis.addr can not be empty when otp.store is redis")

	// ErrUnknownSMSGateway error if config sms.gateway is not supported.
	ErrUnknownSMSGateway = errors.New("toml config sms.gateway must be http or log")

	// ErrEmptySMSURL error if the http sms gateway has no endpoint.
	ErrEmptySMSURL = errors.New("toml config sms.url can not be empty when sms.gateway is http")

	// ErrUnknownRole error if a policy references a role name that is not seeded.
	ErrUnknownRole = errors.New("toml config policy references an unknown role")
)
