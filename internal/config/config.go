package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/worklog/internal/keybind"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	UI       UIConfig
	Keys     []keybind.Override
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig says where the log file goes. The terminal belongs to the UI.
type LogConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ToastSeconds        int     `mapstructure:"toast_seconds"`
	Truncate            int     `mapstructure:"truncate"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

const (
	defaultToastSeconds = 3
	defaultTruncate     = 80
	defaultSimilarity   = 0.2
)

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "worklog")
}

// Path returns the config file location. WORKLOG_CONFIG wins over the default.
func Path() string {
	if p := os.Getenv("WORKLOG_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "worklog", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix WORKLOG_.
// A missing config file is not an error; a malformed one is.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(dataDir(), "worklog.db"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "worklog.log"))
	v.SetDefault("ui.toast_seconds", defaultToastSeconds)
	v.SetDefault("ui.truncate", defaultTruncate)
	v.SetDefault("ui.similarity_threshold", defaultSimilarity)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("WORKLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.ToastSeconds <= 0 {
		c.UI.ToastSeconds = defaultToastSeconds
	}
	if c.UI.Truncate <= 0 {
		c.UI.Truncate = defaultTruncate
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("ui.toast_seconds", cfg.UI.ToastSeconds)
	v.Set("ui.truncate", cfg.UI.Truncate)
	v.Set("ui.similarity_threshold", cfg.UI.SimilarityThreshold)
	if len(cfg.Keys) > 0 {
		keys := make([]map[string]any, 0, len(cfg.Keys))
		for _, o := range cfg.Keys {
			keys = append(keys, map[string]any{"id": o.ID, "keys": o.Keys})
		}
		v.Set("keys", keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
