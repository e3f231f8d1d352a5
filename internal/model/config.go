package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds the connection settings for the remote API.
type ServerConfig struct {
	// BaseURL is the root URL of the Task Track API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the per-request timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// NotificationsConfig holds deadline reminder settings.
type NotificationsConfig struct {
	// PollIntervalSec is how often (in seconds) to refetch projects.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// Desktop enables OS desktop notifications on startup without an
	// explicit enable action in the notifications screen.
	Desktop bool `mapstructure:"desktop" yaml:"desktop"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server        ServerConfig        `mapstructure:"server" yaml:"server"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Display       DisplayConfig       `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tasktrack/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "tasktrack", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:    "http://localhost:5000",
			TimeoutSec: 30,
		},
		Notifications: NotificationsConfig{
			PollIntervalSec: 60,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://localhost:5000")
	v.SetDefault("server.timeout_sec", 30)
	v.SetDefault("notifications.poll_interval_sec", 60)
	v.SetDefault("notifications.desktop", false)
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Notifications.PollIntervalSec <= 0 {
		cfg.Notifications.PollIntervalSec = 60
	}
	if cfg.Server.TimeoutSec <= 0 {
		cfg.Server.TimeoutSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("notifications", cfg.Notifications)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
