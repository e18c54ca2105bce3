package config

import (
	"github.com/urfave/cli/v3"

	"github.com/aquanet-ops/aquanet/pkg/service/notify"
)

// Slack holds CLI flags for incident notifications
type Slack struct {
	botToken string
	channel  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for incident notifications (disabled when empty)",
			Sources:     cli.EnvVars("AQUANET_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for incident notifications",
			Sources:     cli.EnvVars("AQUANET_SLACK_CHANNEL"),
			Destination: &s.channel,
		},
	}
}

// IsConfigured reports whether notifications are enabled
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" && s.channel != ""
}

// Configure builds the notification service, or nil when not configured
func (s *Slack) Configure() (notify.Service, error) {
	if !s.IsConfigured() {
		return nil, nil
	}

	return notify.New(s.botToken, s.channel)
}
