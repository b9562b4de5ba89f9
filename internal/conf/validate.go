package conf

import (
	"fmt"
	"net/url"
	"strconv"
)

// ValidateSettings checks the loaded configuration for values that would
// prevent the application from starting.
func ValidateSettings(settings *Settings) error {
	if settings.WebServer.Port != "" {
		port, err := strconv.Atoi(settings.WebServer.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid webserver port: %q", settings.WebServer.Port)
		}
	}

	if settings.Output.SQLite.Path == "" {
		return fmt.Errorf("output.sqlite.path must not be empty")
	}

	if err := validateBaseURL("ollama.baseurl", settings.Ollama.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("coingecko.baseurl", settings.CoinGecko.BaseURL); err != nil {
		return err
	}

	if settings.Ollama.Timeout <= 0 {
		return fmt.Errorf("ollama.timeout must be positive")
	}
	if settings.CoinGecko.Timeout <= 0 {
		return fmt.Errorf("coingecko.timeout must be positive")
	}

	return nil
}

func validateBaseURL(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s is not a valid URL: %q", key, value)
	}
	return nil
}
