package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds configuration shared by energyd and energylog.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	API      APIConfig
	UI       UIConfig
	Log      LogConfig
}

// ServerConfig holds backend listener settings.
type ServerConfig struct {
	Addr  string
	Token string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path       string
	Migrations string
}

// APIConfig tells the terminal client where the backend lives.
type APIConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	TokenEnv string `mapstructure:"token_env"`
	Token    string
	Timeout  time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat      string `mapstructure:"date_format"`
	AmountPrecision int    `mapstructure:"amount_precision"`
	LastRows        int    `mapstructure:"last_rows"`
	Timezone        string
}

// LogConfig selects the log level and, optionally, a log file.
type LogConfig struct {
	Level string
	File  string
}

// Path returns the config file location: ENERGYLOG_CONFIG or
// ~/.config/energylog/config.toml.
func Path() string {
	if p := os.Getenv("ENERGYLOG_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "energylog", "config.toml")
}

func setDefaults(v *viper.Viper) {
	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "energylog")
	v.SetDefault("server.addr", ":8085")
	v.SetDefault("server.token", "")
	v.SetDefault("database.path", filepath.Join(dataDir, "energylog.db"))
	v.SetDefault("database.migrations", "internal/database/migrations")
	v.SetDefault("api.base_url", "http://localhost:8085")
	v.SetDefault("api.token_env", "ENERGYLOG_TOKEN")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "5s")
	v.SetDefault("ui.date_format", "dd.mm.yyyy")
	v.SetDefault("ui.amount_precision", 0)
	v.SetDefault("ui.last_rows", 10)
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads configuration from file and env. Env var overrides use prefix
// ENERGYLOG_. An explicit path wins over ENERGYLOG_CONFIG and the default
// location.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	switch {
	case path != "":
		v.SetConfigFile(path)
	case os.Getenv("ENERGYLOG_CONFIG") != "":
		v.SetConfigFile(os.Getenv("ENERGYLOG_CONFIG"))
	default:
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "energylog"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ENERGYLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing config file is fine; defaults and env cover everything
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Location resolves UI.Timezone, falling back to the local zone.
func (c Config) Location() *time.Location {
	if c.UI.Timezone == "" || strings.EqualFold(c.UI.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ResolveAPIToken picks the client token: the configured value, then the
// environment variable named by TokenEnv.
func (c Config) ResolveAPIToken() string {
	if c.API.Token != "" {
		return c.API.Token
	}
	if c.API.TokenEnv != "" {
		return os.Getenv(c.API.TokenEnv)
	}
	return ""
}

// Save writes the provided config to path (Path() when empty), creating the
// config directory if needed. Tokens are not written; keep them in the
// environment or the secrets store.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.token_env", cfg.API.TokenEnv)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.amount_precision", cfg.UI.AmountPrecision)
	v.Set("ui.last_rows", cfg.UI.LastRows)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
