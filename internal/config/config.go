package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime parameter of the application.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type RabbitMQConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	VHost    string `mapstructure:"vhost"`
}

// Enabled reports whether event publishing was configured at all.
// The broker is optional; the client runs fine without it.
func (c RabbitMQConfig) Enabled() bool { return c.Host != "" }

// Load reads the YAML config at path, after layering in a local .env file
// when one exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("database.port", 5432)
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.vhost", "/")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Database.Host == "" {
		return nil, errors.New("invalid config: missing database host")
	}
	return cfg, nil
}
