// Package notify sends benchmark completion and failure messages.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"matbench/internal/benchmark"

	"github.com/slack-go/slack"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Nop drops every message.
type Nop struct{}

func (Nop) Notify(ctx context.Context, message string) error { return nil }

// SlackNotifier posts messages to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookURL string
	Client     *http.Client
}

// NewSlackNotifier creates a new SlackNotifier.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends a message to the configured Slack webhook.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	if s.WebhookURL == "" {
		return fmt.Errorf("slack webhook URL is not configured")
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	msg := &slack.WebhookMessage{Text: message}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.WebhookURL, client, msg); err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	return nil
}

// FinishedMessage summarizes a completed benchmark.
func FinishedMessage(host string, averages []benchmark.Average, output string) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":white_check_mark: Benchmark finished on %s", host)
	for _, a := range averages {
		fmt.Fprintf(&b, "\n• %dx%d: %ss avg, %sMB avg over %d runs",
			a.MatrixSize, a.MatrixSize,
			benchmark.FormatValue(a.AvgTimeSeconds),
			benchmark.FormatValue(a.AvgRealMemoryMB),
			a.Runs)
	}
	if output != "" {
		fmt.Fprintf(&b, "\nResults: %s", output)
	}
	return b.String()
}

// FailedMessage reports a failed benchmark.
func FailedMessage(host string, err error) string {
	return fmt.Sprintf(":x: Benchmark failed on %s: %v", host, err)
}
