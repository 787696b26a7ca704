package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	sizes, err := Sizes()
	if err != nil {
		errors = append(errors, err.Error())
	} else {
		if len(sizes) == 0 {
			errors = append(errors, "sizes must list at least one matrix size")
		}
		seen := make(map[int]bool)
		for _, size := range sizes {
			if size <= 0 {
				errors = append(errors, fmt.Sprintf("sizes must be positive, got: %d", size))
			}
			if seen[size] {
				errors = append(errors, fmt.Sprintf("sizes must not repeat, got %d twice", size))
			}
			seen[size] = true
		}
	}

	if runs := viper.GetInt("runs"); runs < 1 {
		errors = append(errors, fmt.Sprintf("runs must be positive, got: %d", runs))
	}

	if strings.TrimSpace(viper.GetString("output")) == "" {
		errors = append(errors, "output must not be empty")
	}

	if viper.GetBool("history.enabled") {
		switch strings.ToLower(viper.GetString("history.type")) {
		case "sqlite", "sqlite3", "postgres", "postgresql":
		default:
			errors = append(errors, fmt.Sprintf("history.type must be sqlite or postgres, got: %s", viper.GetString("history.type")))
		}
	}

	// 0 disables the metrics server
	if port := viper.GetInt("metrics.port"); port < 0 || port > 65535 {
		errors = append(errors, fmt.Sprintf("metrics.port must be between 0 and 65535, got: %d", port))
	}

	if viper.GetBool("notifications.slack.enabled") && viper.GetString("notifications.slack.webhook_url") == "" {
		errors = append(errors, "notifications.slack.webhook_url is required when slack notifications are enabled")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errors, "\n  "))
	}

	return nil
}
