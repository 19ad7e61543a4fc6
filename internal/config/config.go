package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported DATABASE_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the runtime configuration of the users service.
type Config struct {
	AppPort           string
	Database          DatabaseConfig
	UsersDefaultLimit int
	JWTSecret         string
	TokenTTL          time.Duration
	RabbitMQ          RabbitMQConfig
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type RabbitMQConfig struct {
	URL     string
	Queue   string
	Consume bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "users.db")
	v.SetDefault("USERS_DEFAULT_LIMIT", 0)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "user_events")
	v.SetDefault("EVENTS_CONSUME", false)
}

// Load reads configuration from v, falling back to environment variables.
// With ENV=dev a .env file in the working directory is loaded first.
func Load(v *viper.Viper) (Config, error) {
	if os.Getenv("ENV") == "dev" {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded: %v", err)
		}
	}
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver: v.GetString("DATABASE_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		UsersDefaultLimit: v.GetInt("USERS_DEFAULT_LIMIT"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          v.GetDuration("JWT_TTL"),
		RabbitMQ: RabbitMQConfig{
			URL:     v.GetString("RABBITMQ_URL"),
			Queue:   v.GetString("RABBITMQ_QUEUE"),
			Consume: v.GetBool("EVENTS_CONSUME"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Database.Driver != DriverMemory && c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for driver %s", c.Database.Driver)
	}
	if c.UsersDefaultLimit < 0 {
		return fmt.Errorf("USERS_DEFAULT_LIMIT must not be negative, got %d", c.UsersDefaultLimit)
	}
	if c.JWTSecret != "" && c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive when JWT_SECRET is set")
	}
	if c.RabbitMQ.Consume && c.RabbitMQ.URL == "" {
		return fmt.Errorf("EVENTS_CONSUME requires RABBITMQ_URL")
	}
	return nil
}
