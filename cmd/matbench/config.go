package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"matbench/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const redacted = "[REDACTED]"

var configYAML bool

func init() {
	configListCmd.Flags().BoolVar(&configYAML, "yaml", false, "Print the effective configuration as a matbench.yaml document")

	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration settings",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configYAML {
			return printConfigYAML(cmd)
		}
		return listKeys(cmd)
	},
}

// listKeys lists all the configuration keys and their values.
func listKeys(cmd *cobra.Command) error {
	keys := viper.AllKeys()
	sort.Strings(keys)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintln(w, "---\t-----")

	for _, key := range keys {
		value := viper.Get(key)
		if isSensitive(key) && fmt.Sprint(value) != "" {
			value = redacted
		}
		fmt.Fprintf(w, "%s\t%v\n", key, value)
	}
	return nil
}

func printConfigYAML(cmd *cobra.Command) error {
	settings, err := config.Current()
	if err != nil {
		return err
	}
	if settings.Notifications.Slack.WebhookURL != "" {
		settings.Notifications.Slack.WebhookURL = redacted
	}
	if isPostgres(settings.History.Type) && settings.History.DSN != "" {
		settings.History.DSN = redacted
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// isSensitive checks if a key is sensitive.
func isSensitive(key string) bool {
	lowerKey := strings.ToLower(key)
	if lowerKey == "history.dsn" {
		return isPostgres(viper.GetString("history.type"))
	}
	return strings.Contains(lowerKey, "webhook") ||
		strings.Contains(lowerKey, "token") ||
		strings.Contains(lowerKey, "secret") ||
		strings.Contains(lowerKey, "password")
}

// Postgres DSNs may carry credentials; SQLite paths do not.
func isPostgres(storeType string) bool {
	switch strings.ToLower(storeType) {
	case "postgres", "postgresql":
		return true
	}
	return false
}
