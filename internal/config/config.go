package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrSecretNotSet      = errors.New("jwt secret is not set")
	ErrInvalidExpiration = errors.New("jwt expiration must be positive")
	ErrUnknownDriver     = errors.New("database driver must be \"postgres\" or \"sqlite\"")
	ErrIncompleteAdmin   = errors.New("bootstrap_admin needs an email and a password")
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port            string `yaml:"port"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Database struct {
		Driver          string `yaml:"driver"` // "postgres" or "sqlite"
		URL             string `yaml:"url"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	} `yaml:"database"`
	JWT struct {
		Secret     string `yaml:"secret"`
		Expiration string `yaml:"expiration"`
	} `yaml:"jwt"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "console" or "json"
	} `yaml:"log"`
	BootstrapAdmin struct {
		Enabled   bool   `yaml:"enabled"`
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
	} `yaml:"bootstrap_admin"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "10s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "5s"
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == "" {
		c.Database.ConnMaxLifetime = "30m"
	}

	if c.JWT.Expiration == "" {
		c.JWT.Expiration = "24h"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// applyEnv expands ${VAR} references and lets the environment override secrets.
func (c *Config) applyEnv() {
	c.JWT.Secret = os.ExpandEnv(c.JWT.Secret)
	c.Database.URL = os.ExpandEnv(c.Database.URL)
	c.BootstrapAdmin.Password = os.ExpandEnv(c.BootstrapAdmin.Password)

	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = v
	}
}

// Validate checks the values the auth core cannot run without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrSecretNotSet
	}

	ttl, err := c.TokenTTL()
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return ErrInvalidExpiration
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return ErrUnknownDriver
	}

	if c.BootstrapAdmin.Enabled && (c.BootstrapAdmin.Email == "" || c.BootstrapAdmin.Password == "") {
		return ErrIncompleteAdmin
	}

	for name, v := range map[string]string{
		"server.read_timeout":        c.Server.ReadTimeout,
		"server.write_timeout":       c.Server.WriteTimeout,
		"server.shutdown_timeout":    c.Server.ShutdownTimeout,
		"database.conn_max_lifetime": c.Database.ConnMaxLifetime,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

// TokenTTL returns the configured lifetime of issued tokens.
func (c *Config) TokenTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.JWT.Expiration)
	if err != nil {
		return 0, fmt.Errorf("invalid jwt.expiration: %w", err)
	}
	return d, nil
}

func (c *Config) ReadTimeout() time.Duration     { return mustDuration(c.Server.ReadTimeout) }
func (c *Config) WriteTimeout() time.Duration    { return mustDuration(c.Server.WriteTimeout) }
func (c *Config) ShutdownTimeout() time.Duration { return mustDuration(c.Server.ShutdownTimeout) }
func (c *Config) ConnMaxLifetime() time.Duration { return mustDuration(c.Database.ConnMaxLifetime) }

// mustDuration is only used on values already checked by Validate.
func mustDuration(v string) time.Duration {
	d, _ := time.ParseDuration(v)
	return d
}
