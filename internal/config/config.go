package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Upstream struct {
		URL     string
		Timeout time.Duration
	}
	DB struct {
		Driver string
		DSN    string
	}
	Log struct {
		Level  string
		Format string
	}
	Locale          string
	SessionLifetime time.Duration
	InsecureCookies bool
}

// Load reads config from environment (ADVISOR_ prefix) and optional
// tool-advisor.yaml. Only settings every command needs are validated here;
// see RequireUpstream.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("tool-advisor")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("upstream.timeout", "15s")
	v.SetDefault("db.driver", "memory")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("locale", "id")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Upstream.URL = strings.TrimRight(v.GetString("upstream.url"), "/")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Locale = v.GetString("locale")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	timeout, err := time.ParseDuration(v.GetString("upstream.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISOR_UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.Upstream.Timeout = timeout

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISOR_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	switch cfg.DB.Driver {
	case "memory":
	case "sqlite3", "mysql", "postgres":
		if cfg.DB.DSN == "" {
			return nil, fmt.Errorf("ADVISOR_DB_DSN is required for driver %q", cfg.DB.Driver)
		}
	default:
		return nil, fmt.Errorf("ADVISOR_DB_DRIVER must be memory, sqlite3, mysql or postgres, got %q", cfg.DB.Driver)
	}

	return cfg, nil
}

// RequireUpstream checks that the recommendation server URL is usable.
func (c *Config) RequireUpstream() error {
	if c.Upstream.URL == "" {
		return fmt.Errorf("ADVISOR_UPSTREAM_URL is required")
	}
	u, err := url.Parse(c.Upstream.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ADVISOR_UPSTREAM_URL must be an http(s) URL, got %q", c.Upstream.URL)
	}
	return nil
}

// UsesDatabase reports whether sessions are kept in a SQL database.
func (c *Config) UsesDatabase() bool {
	return c.DB.Driver != "memory"
}
