package communication

import (
	"context"
	"fmt"
	"os"

	"github.com/slack-go/slack"

	"asistio.com/asistio/core"
)

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

// ConnectSlack takes the channels from the loaded settings document; env
// vars override for local runs. The bot token only ever comes from the
// environment.
func ConnectSlack(infoChannel, errorChannel string) *Slack {
	token := os.Getenv("SLACK_BOT_TOKEN")
	if ch := os.Getenv("SLACK_INFO_CHANNEL"); ch != "" {
		infoChannel = ch
	}
	if ch := os.Getenv("SLACK_ERROR_CHANNEL"); ch != "" {
		errorChannel = ch
	}

	return NewSlack(token, SlackOption{InfoChannelID: infoChannel, ErrorChannelID: errorChannel})
}

func NewSlack(token string, options SlackOption) *Slack {
	client := slack.New(token)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(message string) error {
	return s.postMessage(s.options.InfoChannelID, message)
}

func (s *Slack) Error(message string) error {
	return s.postMessage(s.options.ErrorChannelID, message)
}

// Notify implements core.Notifier: the core decides that a notification is
// warranted, this formats and delivers it.
func (s *Slack) Notify(_ context.Context, ev core.NotificationEvent) error {
	var message string
	switch ev.Kind {
	case core.NotifySevereLate:
		message = fmt.Sprintf(":warning: %s checked in %d minutes late (%s) at %s on %s",
			displayName(ev), ev.MinutesLate, ev.EventType, ev.KioskName, ev.Date)
	case core.NotifyAbsence:
		message = fmt.Sprintf(":rotating_light: %s: %s on %s", displayName(ev), ev.IssueType, ev.Date)
	default:
		message = fmt.Sprintf("%s: %s on %s", ev.Kind, displayName(ev), ev.Date)
	}
	return s.Info(message)
}

func displayName(ev core.NotificationEvent) string {
	if ev.UserName != "" {
		return ev.UserName
	}
	return ev.UserID
}
