package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func etcPath(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(etcPath(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, EngineSQLite, cfg.DB.Engine)
	assert.Equal(t, 300, cfg.OTP.TTL)
	assert.Zero(t, cfg.OTP.MaxAttempts)
	assert.Equal(t, 3600, cfg.Token.TTL)
	assert.Equal(t, "access.log", cfg.Log.File.Access.File)
	assert.Equal(t, []string{"travel_admin", "travel_sub_admin"}, cfg.Policy["vehicle"])
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":"Test Override","Webserver":{"Port":9090},"OTP":{"MaxAttempts":3}}`)

	cfg, err := ReadConfig(etcPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, 3, cfg.OTP.MaxAttempts)
	// untouched keys survive the merge
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
}

func TestReadConfigBadJSON(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":`)

	_, err := ReadConfig(etcPath(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvConfigJSON)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + "/")
	assert.Error(t, err)
}

func TestSetDefaults(t *testing.T) {
	var cfg Config

	setDefaults(&cfg)

	assert.Equal(t, 5, cfg.Webserver.ShutDownTime)
	assert.Equal(t, EngineMySQL, cfg.DB.Engine)
	assert.Equal(t, OTPStoreMemory, cfg.OTP.Store)
	assert.Equal(t, 300, cfg.OTP.TTL)
	assert.Equal(t, "Your OTP is %s", cfg.OTP.Message)
	assert.Equal(t, 3600, cfg.Token.TTL)
	assert.Equal(t, SMSGatewayLog, cfg.SMS.Gateway)
	assert.Equal(t, "5m0s", cfg.OTP.Lifetime().String())
	assert.Equal(t, "1h0m0s", cfg.Token.Lifetime().String())
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		c := Config{Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"}}
		setDefaults(&c)

		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid config", func(_ *Config) {}, nil},
		{"missing port", func(c *Config) { c.Webserver.Port = 0 }, ErrWebServerPortCanNotBeZero},
		{"missing URL", func(c *Config) { c.Webserver.URL = "" }, ErrEmptyURL},
		{"unknown engine", func(c *Config) { c.DB.Engine = "oracle" }, ErrUnknownDBEngine},
		{"unknown otp store", func(c *Config) { c.OTP.Store = "disk" }, ErrUnknownOTPStore},
		{"redis without addr", func(c *Config) { c.OTP.Store = OTPStoreRedis }, ErrEmptyRedisAddr},
		{"redis with addr", func(c *Config) { c.OTP.Store = OTPStoreRedis; c.Redis.Addr = "localhost:6379" }, nil},
		{"unknown gateway", func(c *Config) { c.SMS.Gateway = "pigeon" }, ErrUnknownSMSGateway},
		{"http gateway without url", func(c *Config) { c.SMS.Gateway = SMSGatewayHTTP }, ErrEmptySMSURL},
		{"policy unknown role", func(c *Config) { c.Policy = map[string][]string{"vehicle": {"captain"}} }, ErrUnknownRole},
		{"policy empty list", func(c *Config) { c.Policy = map[string][]string{"vehicle": {}} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := validate(&c)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{Title: "Test", DevMode: true, Webserver: Webserver{Port: 8080, URL: "http://x"}}

	out, err := DumpConfig(cfg)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `Title = "Test"`), out)

	out, err = DumpConfigJSON(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "Test"`)
}
