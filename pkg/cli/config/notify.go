package config

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/mate-desktop/mate-release/pkg/domain/types"
	"github.com/mate-desktop/mate-release/pkg/infra/notify"
)

// Notify holds release server notification configuration
type Notify struct {
	URL       string
	Secret    string `masq:"secret"`
	UserAgent string
	Timeout   time.Duration
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notify-url",
			Usage:       "Release server endpoint",
			Value:       types.DefaultNotifyURL,
			Destination: &c.URL,
			Sources:     cli.EnvVars("MATE_RELEASE_NOTIFY_URL"),
		},
		&cli.StringFlag{
			Name:        "api-secret",
			Usage:       "Shared secret used to sign the notification",
			Destination: &c.Secret,
			Sources:     cli.EnvVars("API_SECRET"),
		},
		&cli.StringFlag{
			Name:        "notify-user-agent",
			Usage:       "User-Agent sent to the release server",
			Value:       types.NotifyUserAgent,
			Destination: &c.UserAgent,
			Sources:     cli.EnvVars("MATE_RELEASE_NOTIFY_USER_AGENT"),
		},
		&cli.DurationFlag{
			Name:        "notify-timeout",
			Usage:       "Timeout of the notification request, 0 disables it",
			Value:       60 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("MATE_RELEASE_NOTIFY_TIMEOUT"),
		},
	}
}

// NewClient creates the notification client. A missing secret is a warning, not an error.
func (c *Notify) NewClient(ctx context.Context) *notify.Client {
	if c.Secret == "" {
		ctxlog.From(ctx).Warn(`Please set the "API_SECRET" environment variable for secure transfer`)
	}

	return notify.New(
		notify.WithURL(c.URL),
		notify.WithSecret(c.Secret),
		notify.WithUserAgent(c.UserAgent),
		notify.WithTimeout(c.Timeout),
	)
}
