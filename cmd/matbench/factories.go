package main

import (
	"matbench/internal/benchmark"
	"matbench/internal/config"
	"matbench/internal/db"
	"matbench/internal/notify"
)

// Factories are variables so tests can inject fakes.
var (
	memorySamplerFactory = func() (benchmark.MemorySampler, error) {
		sampler, err := benchmark.NewProcessMemorySampler()
		if err != nil {
			return nil, err
		}
		return sampler, nil
	}

	storeFactory = db.NewStore

	notifierFactory = func(settings config.Settings) notify.Notifier {
		if !settings.Notifications.Slack.Enabled {
			return notify.Nop{}
		}
		return notify.NewSlackNotifier(settings.Notifications.Slack.WebhookURL)
	}
)
