package config_test

import (
	"testing"
	"time"

	"userapi/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "users.db", cfg.Database.DSN)
	assert.Equal(t, 0, cfg.UsersDefaultLimit)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, "user_events", cfg.RabbitMQ.Queue)
	assert.False(t, cfg.RabbitMQ.Consume)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("USERS_DEFAULT_LIMIT", "25")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "15m")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, config.DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 25, cfg.UsersDefaultLimit)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
}

func TestLoadExplicitValueWinsOverEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")

	v := viper.New()
	v.Set("DATABASE_DRIVER", "memory")
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Database.Driver)
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, DSN: "users.db"},
		TokenTTL: time.Hour,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"unknown driver", func(c *config.Config) { c.Database.Driver = "mysql" }},
		{"missing dsn", func(c *config.Config) { c.Database.DSN = "" }},
		{"negative limit", func(c *config.Config) { c.UsersDefaultLimit = -1 }},
		{"secret without ttl", func(c *config.Config) { c.JWTSecret = "x"; c.TokenTTL = 0 }},
		{"consume without broker", func(c *config.Config) { c.RabbitMQ.Consume = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	memory := config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}
	assert.NoError(t, memory.Validate())
}
