package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Env        string
	Database   DatabaseConfig
	HTTPServer HTTPServerConfig
	Auth       AuthConfig
	Health     HealthConfig
}

// DatabaseConfig carries the connection parameters. They are opaque to the
// rest of the service; only DSN() is consumed.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
}

// DSN assembles a postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type HTTPServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type HealthConfig struct {
	CheckInterval time.Duration
	CheckTimeout  time.Duration
}

// Load populates the config from the environment. Every key is prefixed with
// PEDIDOS_, e.g. PEDIDOS_DATABASE_HOST. Only the database password and the
// JWT secret have no usable default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PEDIDOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "pedidos")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("http_server.read_timeout", 10*time.Second)
	v.SetDefault("http_server.write_timeout", 10*time.Second)
	v.SetDefault("http_server.idle_timeout", time.Minute)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("health.check_interval", 15*time.Second)
	v.SetDefault("health.check_timeout", 3*time.Second)

	cfg := &Config{
		Env: v.GetString("env"),
		Database: DatabaseConfig{
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			Name:         v.GetString("database.name"),
			SSLMode:      v.GetString("database.sslmode"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		HTTPServer: HTTPServerConfig{
			Port:         v.GetString("http_server.port"),
			ReadTimeout:  v.GetDuration("http_server.read_timeout"),
			WriteTimeout: v.GetDuration("http_server.write_timeout"),
			IdleTimeout:  v.GetDuration("http_server.idle_timeout"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		Health: HealthConfig{
			CheckInterval: v.GetDuration("health.check_interval"),
			CheckTimeout:  v.GetDuration("health.check_timeout"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("PEDIDOS_AUTH_JWT_SECRET must be set")
	}

	return cfg, nil
}
