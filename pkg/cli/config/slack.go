package config

import (
	"github.com/urfave/cli/v3"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/infra/slack"
)

// Slack holds release announcement configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook to announce the release",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("MATE_RELEASE_SLACK_WEBHOOK_URL"),
		},
	}
}

// Announcer returns nil when no webhook is configured
func (c *Slack) Announcer() interfaces.Announcer {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.New(c.WebhookURL)
}
