package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Path: "/some/path",
		},
		Cache: CacheConfig{
			Backend: "memory",
		},
		Auth: AuthConfig{
			AccessTokenSecret:  "access-secret",
			RefreshTokenSecret: "refresh-secret",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validTestConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // levels are case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_CacheBackends(t *testing.T) {
	tests := []struct {
		backend string
		valid   bool
	}{
		{"memory", true},
		{"redis", true},
		{"memcached", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Cache.Backend = tt.backend

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AuthSecrets(t *testing.T) {
	cfg := validTestConfig()
	cfg.Auth.AccessTokenSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.Auth.RefreshTokenSecret = ""
	assert.Error(t, cfg.Validate())

	// The two secrets must never coincide, otherwise an access token
	// would verify as a refresh token.
	cfg = validTestConfig()
	cfg.Auth.RefreshTokenSecret = cfg.Auth.AccessTokenSecret
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyStorePath(t *testing.T) {
	cfg := validTestConfig()
	cfg.Store.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestIsProduction(t *testing.T) {
	cfg := validTestConfig()
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
