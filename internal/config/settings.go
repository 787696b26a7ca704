package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Settings is the typed view of the benchmark configuration.
type Settings struct {
	Sizes   []int  `yaml:"sizes"`
	Runs    int    `yaml:"runs"`
	Output  string `yaml:"output"`
	Seed    int64  `yaml:"seed"`
	Verbose bool   `yaml:"verbose"`
	LogFile string `yaml:"log_file"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		Type    string `yaml:"type"`
		DSN     string `yaml:"dsn"`
	} `yaml:"history"`

	Metrics struct {
		Textfile string `yaml:"textfile"`
		Port     int    `yaml:"port"`
	} `yaml:"metrics"`

	Notifications struct {
		Slack struct {
			Enabled    bool   `yaml:"enabled"`
			WebhookURL string `yaml:"webhook_url"`
		} `yaml:"slack"`
	} `yaml:"notifications"`
}

// Current reads Settings from viper.
func Current() (Settings, error) {
	var s Settings

	sizes, err := Sizes()
	if err != nil {
		return s, err
	}
	s.Sizes = sizes
	s.Runs = viper.GetInt("runs")
	s.Output = viper.GetString("output")
	s.Seed = viper.GetInt64("seed")
	s.Verbose = viper.GetBool("verbose")
	s.LogFile = viper.GetString("log_file")

	s.History.Enabled = viper.GetBool("history.enabled")
	s.History.Type = viper.GetString("history.type")
	s.History.DSN = viper.GetString("history.dsn")

	s.Metrics.Textfile = viper.GetString("metrics.textfile")
	s.Metrics.Port = viper.GetInt("metrics.port")

	s.Notifications.Slack.Enabled = viper.GetBool("notifications.slack.enabled")
	s.Notifications.Slack.WebhookURL = viper.GetString("notifications.slack.webhook_url")
	return s, nil
}

// Sizes returns the configured matrix sizes in order. It accepts a YAML
// list, a flag slice or a comma separated string such as "128,256" from
// MATBENCH_SIZES.
func Sizes() ([]int, error) {
	raw := viper.Get("sizes")
	if str, ok := raw.(string); ok {
		return ParseSizes(str)
	}
	sizes, err := cast.ToIntSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid sizes %v: %w", raw, err)
	}
	return sizes, nil
}

// ParseSizes parses a comma or space separated list of integers.
func ParseSizes(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	sizes := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", f, err)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
