// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "AgentLab")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/agentlab.log")
	viper.SetDefault("main.log.level", "info")

	viper.SetDefault("webserver.host", "0.0.0.0")
	viper.SetDefault("webserver.port", "8000")

	viper.SetDefault("output.sqlite.path", "data/app.db")

	viper.SetDefault("ollama.baseurl", "http://localhost:11434")
	viper.SetDefault("ollama.model", "qwen3:1.7b")
	viper.SetDefault("ollama.timeout", 60*time.Second)

	viper.SetDefault("coingecko.baseurl", "https://api.coingecko.com/api/v3")
	viper.SetDefault("coingecko.timeout", 10*time.Second)
}
