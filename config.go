package recipeapi

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is the process-wide configuration, loaded once at startup and
// passed into the components that need it. Request-handling code never
// reads the environment directly.
type Config struct {
	Port        string `koanf:"port"`
	Environment string `koanf:"environment"`

	// SessionSecret signs every credential. Required in production.
	SessionSecret string `koanf:"session_secret"`

	// MongoURI selects the mongo store backend when set.
	MongoURI string `koanf:"mongodb_uri"`

	// DataDir is where the file-backed store keeps its documents when
	// no database is configured.
	DataDir string `koanf:"data_dir"`

	GithubClientID     string `koanf:"github_client_id"`
	GithubClientSecret string `koanf:"github_client_secret"`
	GithubCallbackURL  string `koanf:"github_callback_url"`

	GoogleClientID     string `koanf:"google_client_id"`
	GoogleClientSecret string `koanf:"google_client_secret"`
	GoogleCallbackURL  string `koanf:"google_callback_url"`
}

func defaults() Config {
	return Config{
		Port:        "3000",
		Environment: "development",
		DataDir:     "./data",
	}
}

// LoadConfig reads configuration from environment variables over compiled
// defaults.
func LoadConfig() (Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	// Keys stay flat: SESSION_SECRET -> session_secret.
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return cfg, fmt.Errorf("load env vars: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate enforces the invariants that must hold before serving. A
// missing signing secret is fatal in production; in development it falls
// back to a well-known value the way the original deployment did.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		slog.Warn("SESSION_SECRET not set, using development default")
		c.SessionSecret = "default_secret"
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) GithubConfigured() bool {
	return c.GithubClientID != "" && c.GithubClientSecret != "" && c.GithubCallbackURL != ""
}

func (c Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleCallbackURL != ""
}
