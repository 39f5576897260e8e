package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMongoURIRequired is returned when MONGODB_URI is unset; the service
// must not start without a store.
var ErrMongoURIRequired = errors.New("environment variable MONGODB_URI is required")

// Config holds application configuration
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Events  EventsConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ShutdownTimeout time.Duration
}

// Production reports whether gin should run in release mode.
func (s ServerConfig) Production() bool { return s.Environment == "production" }

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr returns host:port.
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type EventsConfig struct {
	Channel string
}

type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SHUTDOWN_TIMEOUT", 10)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MONGODB_COLLECTION", "jobs")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("EVENTS_CHANNEL", "jobs:events")

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("PORT"),
			Host:            viper.GetString("SERVER_HOST"),
			Environment:     viper.GetString("SERVER_ENVIRONMENT"),
			ShutdownTimeout: time.Duration(viper.GetInt("SHUTDOWN_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:        viper.GetString("MONGODB_URI"),
			Database:   viper.GetString("MONGODB_DATABASE"),
			Collection: viper.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Events: EventsConfig{
			Channel: viper.GetString("EVENTS_CHANNEL"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if cfg.MongoDB.URI == "" {
		return nil, ErrMongoURIRequired
	}
	return cfg, nil
}
