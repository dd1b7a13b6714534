package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// APIConfig holds the REST backend connection settings.
type APIConfig struct {
	// BaseURL is the root URL of the Homeland backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// PushConfig holds the websocket push channel settings.
type PushConfig struct {
	// URL is the websocket endpoint for the push channel.
	URL string `mapstructure:"url" yaml:"url"`

	// Topic is the STOMP destination carrying notification payloads.
	Topic string `mapstructure:"topic" yaml:"topic"`

	// ReconnectDelaySec is the fixed delay between reconnect attempts.
	ReconnectDelaySec int `mapstructure:"reconnect_delay_sec" yaml:"reconnect_delay_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Push    PushConfig    `mapstructure:"push" yaml:"push"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/homeland/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "homeland", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration pointed at a
// local backend.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
		},
		Push: PushConfig{
			URL:               "ws://localhost:8080/ws",
			Topic:             "/topic/notifications",
			ReconnectDelaySec: 5,
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
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("push.url", "ws://localhost:8080/ws")
	v.SetDefault("push.topic", "/topic/notifications")
	v.SetDefault("push.reconnect_delay_sec", 5)
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

	if cfg.Push.ReconnectDelaySec <= 0 {
		cfg.Push.ReconnectDelaySec = 5
	}

	return cfg, nil
}
