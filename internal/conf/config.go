// config.go: settings struct and functions to load the application configuration.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LogConfig holds settings for a rotating service log file.
type LogConfig struct {
	Enabled bool   // true to write a JSON log file
	Path    string // path to the log file
	Level   string // debug, info, warn or error
}

// WebServerSettings holds the HTTP service listen configuration.
type WebServerSettings struct {
	Host string // interface to bind
	Port string // port to listen on
}

// OllamaSettings holds the local inference endpoint configuration.
type OllamaSettings struct {
	BaseURL string        `mapstructure:"baseurl"` // e.g. http://localhost:11434
	Model   string        // model name, e.g. qwen3:1.7b
	Timeout time.Duration // bound for a single chat call
}

// CoinGeckoSettings holds the upstream market-data API configuration.
type CoinGeckoSettings struct {
	BaseURL string        `mapstructure:"baseurl"` // e.g. https://api.coingecko.com/api/v3
	Timeout time.Duration // bound for a single API call
}

// Settings is the complete application configuration. It is built once at
// startup and passed explicitly to each component constructor.
type Settings struct {
	Debug bool // true to enable debug level logging

	Main struct {
		Name string    // application name
		Log  LogConfig // main log file settings
	}

	WebServer WebServerSettings `mapstructure:"webserver"`

	Output struct {
		SQLite struct {
			Path string // path to the SQLite database file
		}
	}

	Ollama    OllamaSettings
	CoinGecko CoinGeckoSettings `mapstructure:"coingecko"`
}

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// SyncViper refreshes settings from viper after command-line flags have been
// parsed, so flags take precedence over config file and defaults.
func SyncViper(settings *Settings) error {
	if err := viper.Unmarshal(settings); err != nil {
		return fmt.Errorf("error unmarshaling config into struct: %w", err)
	}
	return ValidateSettings(settings)
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	for _, path := range GetDefaultConfigPaths() {
		viper.AddConfigPath(path)
	}

	viper.SetEnvPrefix("AGENTLAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values for each configuration parameter,
	// function defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine, defaults plus env cover everything.
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPaths returns the directories searched for config.yaml:
// the working directory first, then the user config directory.
func GetDefaultConfigPaths() []string {
	paths := []string{"."}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "agentlab"))
	}
	return paths
}
