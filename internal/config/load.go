package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. MATBENCH_RUNS.
const EnvPrefix = "MATBENCH"

// Defaults mirror the sizes and run count of the reference benchmark scripts.
var (
	DefaultSizes  = []int{128, 256, 512, 1024}
	DefaultRuns   = 5
	DefaultOutput = "data/go_benchmark_results.csv"
)

// Load initializes the configuration from file and environment variables.
// A missing config file is not an error; a malformed one is.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("matbench")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("sizes", DefaultSizes)
	viper.SetDefault("runs", DefaultRuns)
	viper.SetDefault("output", DefaultOutput)
	viper.SetDefault("seed", 0)
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")

	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.type", "sqlite")
	viper.SetDefault("history.dsn", ".matbench.db")

	viper.SetDefault("metrics.textfile", "")
	viper.SetDefault("metrics.port", 0)

	// Slack is on by default only when a webhook is present in the environment
	viper.SetDefault("notifications.slack.enabled", os.Getenv("SLACK_WEBHOOK_URL") != "")
	viper.SetDefault("notifications.slack.webhook_url", os.Getenv("SLACK_WEBHOOK_URL"))
}
