package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/mate-desktop/mate-release/pkg/domain/interfaces"
	"github.com/mate-desktop/mate-release/pkg/domain/model"
)

type announcer struct {
	webhookURL string
}

// New creates an Announcer posting to a Slack incoming webhook
func New(webhookURL string) interfaces.Announcer {
	return &announcer{webhookURL: webhookURL}
}

// Announce posts a short message with the release title and its files
func (a *announcer) Announce(ctx context.Context, release *model.Release) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("%s published", release.Title()),
		Attachments: []slack.Attachment{
			{
				Title:     release.NewTag,
				TitleLink: fmt.Sprintf("https://github.com/%s/releases/tag/%s", release.Repository, release.NewTag),
				Text:      formatFiles(release.Artifacts),
				Footer:    release.CompareURL(),
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, a.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack announcement", goerr.V("tag", release.NewTag))
	}
	return nil
}

func formatFiles(artifacts []*model.Artifact) string {
	var sb strings.Builder
	for _, a := range artifacts {
		sb.WriteString(fmt.Sprintf("• <%s|%s> (%d bytes)\n", a.URL, a.Name, a.Size))
	}
	return sb.String()
}
