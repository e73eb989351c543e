package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all CLI configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds TorBox connection settings.
type APIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	AuthURL    string `mapstructure:"auth_url"`
	Key        string `mapstructure:"key"`
	Timeout    int    `mapstructure:"timeout"` // seconds
	RetryCount int    `mapstructure:"retry_count"`
}

// OAuthConfig holds the tokens of a previously authorized OAuth2 session.
type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://api.torbox.app/v1/api/",
			AuthURL:    "https://api.torbox.app/oauth/",
			Timeout:    30,
			RetryCount: 1,
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables (including .env) > config file > defaults
func Load(configPath string) (*Config, error) {
	// A missing .env is the common case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.torbox")
	}

	v.SetEnvPrefix("TORBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.API.RetryCount < 0 {
		return nil, fmt.Errorf("api.retry_count must not be negative, got %d", cfg.API.RetryCount)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.auth_url", d.API.AuthURL)
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.retry_count", d.API.RetryCount)

	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.access_token", "")
	v.SetDefault("oauth.refresh_token", "")

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)
}

// TimeoutDuration returns the HTTP timeout.
func (c *APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// HasOAuth reports whether an OAuth2 access token is configured.
func (c *Config) HasOAuth() bool {
	return c.OAuth.AccessToken != ""
}
