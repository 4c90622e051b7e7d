package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrTraktNotConfigured = errors.New("trakt client id is not configured")

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Trakt    TraktConfig    `mapstructure:"trakt"`
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Fanart   FanartConfig   `mapstructure:"fanart"`
	OMDB     OMDBConfig     `mapstructure:"omdb"`
	Sync     SyncConfig     `mapstructure:"sync"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// TraktConfig holds tracking service API configuration.
type TraktConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
	BaseURL      string `mapstructure:"base_url"`
	Timeout      int    `mapstructure:"timeout"`
}

// TMDBConfig holds metadata service API configuration.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Timeout      int    `mapstructure:"timeout"`
}

// FanartConfig holds fan-art image service API configuration.
type FanartConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// OMDBConfig holds the ratings-lookup service API configuration.
type OMDBConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// SyncConfig holds rating/like sync configuration.
type SyncConfig struct {
	// PageLimit is the page size used for full rating and like fetches.
	PageLimit int `mapstructure:"page_limit"`
	// Cron controls the periodic background sync. Empty disables it.
	Cron string `mapstructure:"cron"`
}

// Default returns a Config with default values.
func Default() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.showdeck")
	}

	v.SetEnvPrefix("SHOWDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8754)

	v.SetDefault("database.path", "./data/showdeck.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")

	v.SetDefault("trakt.client_id", "")
	v.SetDefault("trakt.client_secret", "")
	v.SetDefault("trakt.redirect_uri", "http://localhost:8754")
	v.SetDefault("trakt.base_url", "https://api.trakt.tv")
	v.SetDefault("trakt.timeout", 15)

	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.timeout", 15)

	v.SetDefault("fanart.api_key", "")
	v.SetDefault("fanart.base_url", "https://webservice.fanart.tv/v3")
	v.SetDefault("fanart.timeout", 15)

	v.SetDefault("omdb.api_key", "")
	v.SetDefault("omdb.base_url", "https://www.omdbapi.com")
	v.SetDefault("omdb.timeout", 15)

	v.SetDefault("sync.page_limit", 100)
	v.SetDefault("sync.cron", "*/30 * * * *")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Trakt.ClientID == "" {
		return ErrTraktNotConfigured
	}
	if c.Sync.PageLimit <= 0 {
		return fmt.Errorf("sync.page_limit must be positive, got %d", c.Sync.PageLimit)
	}
	return nil
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
