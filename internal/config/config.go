// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable holding a JSON override.
const EnvConfigJSON = "TOURMARKET_CONFIG_JSON"

const (
	defaultShutDownTime = 5
	defaultOTPTTL       = 300
	defaultOTPMessage   = "Your OTP is %s"
	defaultTokenTTL     = 3600
	defaultSMSTimeout   = 10
)

// knownRoles are the role names accepted in the policy section.
var knownRoles = []string{ //nolint:gochecknoglobals
	"user", "driver", "travel_admin", "package_admin", "travel_sub_admin", "package_sub_admin",
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	if _, err := toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if override := os.Getenv(EnvConfigJSON); override != "" {
		var err error

		c, err = decodeAndMergeConfig(c, override)
		if err != nil {
			return c, err
		}
	}

	setDefaults(&c)

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func setDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.DB.Engine == "" {
		c.DB.Engine = EngineMySQL
	}

	if c.OTP.Store == "" {
		c.OTP.Store = OTPStoreMemory
	}

	if c.OTP.TTL == 0 {
		c.OTP.TTL = defaultOTPTTL
	}

	if c.OTP.Message == "" {
		c.OTP.Message = defaultOTPMessage
	}

	if c.Token.TTL == 0 {
		c.Token.TTL = defaultTokenTTL
	}

	if c.SMS.Gateway == "" {
		c.SMS.Gateway = SMSGatewayLog
	}

	if c.SMS.Timeout == 0 {
		c.SMS.Timeout = defaultSMSTimeout
	}
}

// validate the settings the daemon can not start without.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.Engine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownDBEngine, invalidErrMessage)
	}

	switch c.OTP.Store {
	case OTPStoreMemory:
	case OTPStoreRedis:
		if c.Redis.Addr == "" {
			return errors.Wrap(ErrEmptyRedisAddr, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownOTPStore, invalidErrMessage)
	}

	switch c.SMS.Gateway {
	case SMSGatewayLog:
	case SMSGatewayHTTP:
		if c.SMS.URL == "" {
			return errors.Wrap(ErrEmptySMSURL, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownSMSGateway, invalidErrMessage)
	}

	for domain, roles := range c.Policy {
		for _, role := range roles {
			if !slices.Contains(knownRoles, role) {
				return errors.Wrapf(ErrUnknownRole, "%s: policy %s: %s", invalidErrMessage, domain, role)
			}
		}
	}

	return nil
}
