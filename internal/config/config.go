// Package config loads the portfolio configuration from an optional YAML
// file and environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all portfolio settings.
type Config struct {
	Server    Server    `yaml:"server"`
	Contact   Contact   `yaml:"contact"`
	SMTP      SMTP      `yaml:"smtp"`
	Relay     Relay     `yaml:"relay"`
	Analytics Analytics `yaml:"analytics"`
	Admin     Admin     `yaml:"admin"`
	Content   Content   `yaml:"content"`
}

// Server holds HTTP listener settings.
type Server struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Contact holds settings for the contact form client.
type Contact struct {
	Endpoint string        `yaml:"endpoint"` // relay URL; empty means this server's /api/send-email
	Timeout  time.Duration `yaml:"timeout"`
}

// SMTP holds outbound mail settings used by the relay.
type SMTP struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	To   string `yaml:"to"`
}

// Relay holds email relay limits.
type Relay struct {
	DailyQuota int    `yaml:"daily_quota"` // 0 disables the quota
	RedisURL   string `yaml:"redis_url"`
}

// Analytics holds visitor tracking storage settings.
type Analytics struct {
	DBPath    string        `yaml:"db_path"`
	Retention time.Duration `yaml:"retention"`
}

// Admin holds dashboard credentials.
type Admin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Content points at an optional YAML override of the portfolio content.
type Content struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns a Config with development defaults.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Contact: Contact{
			Timeout: 10 * time.Second,
		},
		SMTP: SMTP{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Relay: Relay{
			DailyQuota: 50,
		},
		Analytics: Analytics{
			DBPath:    "portfolio.db",
			Retention: 365 * 24 * time.Hour,
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	// Expand ${VAR} references so secrets can stay in the environment.
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.Server.Port = n
	}
	if v := os.Getenv("CONTACT_ENDPOINT"); v != "" {
		c.Contact.Endpoint = v
	}
	if v := os.Getenv("CONTACT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACT_TIMEOUT %q: %w", v, err)
		}
		c.Contact.Timeout = d
	}

	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.Port, "SMTP_PORT")
	setString(&c.SMTP.User, "SMTP_USER")
	setString(&c.SMTP.Pass, "SMTP_PASS")
	setString(&c.SMTP.To, "TO_EMAIL")

	if v := os.Getenv("RELAY_DAILY_QUOTA"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid RELAY_DAILY_QUOTA %q: %w", v, err)
		}
		c.Relay.DailyQuota = n
	}
	setString(&c.Relay.RedisURL, "REDIS_URL")

	setString(&c.Analytics.DBPath, "DB_PATH")
	if v := os.Getenv("VISITOR_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid VISITOR_RETENTION %q: %w", v, err)
		}
		c.Analytics.Retention = d
	}

	setString(&c.Admin.Username, "ADMIN_USERNAME")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.Content.Path, "CONTENT_PATH")
	return nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	if c.Contact.Timeout <= 0 {
		return fmt.Errorf("config: contact.timeout must be positive, got %v", c.Contact.Timeout)
	}
	if c.Relay.DailyQuota < 0 {
		return fmt.Errorf("config: relay.daily_quota must be non-negative, got %d", c.Relay.DailyQuota)
	}
	if c.Analytics.DBPath == "" {
		return errors.New("config: analytics.db_path cannot be empty")
	}
	if c.Analytics.Retention <= 0 {
		return fmt.Errorf("config: analytics.retention must be positive, got %v", c.Analytics.Retention)
	}
	return nil
}

// ContactEndpoint returns the relay URL the contact form posts to.
func (c *Config) ContactEndpoint() string {
	if c.Contact.Endpoint != "" {
		return c.Contact.Endpoint
	}
	return fmt.Sprintf("http://127.0.0.1:%d/api/send-email", c.Server.Port)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
