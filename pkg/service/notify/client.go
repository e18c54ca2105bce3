package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/aquanet-ops/aquanet/pkg/domain/model"
)

// client implements Service interface
type client struct {
	api     *slack.Client
	channel string
}

// New creates a new Slack notification service with the provided bot token.
// channel is the channel ID or name to post incident notifications to.
func New(token, channel string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &client{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

func (c *client) IncidentAssigned(ctx context.Context, incident *model.Incident) error {
	text := fmt.Sprintf(":droplet: Incidencia *%s* asignada a `%s`: %s (severidad %s)",
		incident.Code, incident.AssignedToID, incident.Title, incident.Severity)
	return c.post(ctx, text, incident)
}

func (c *client) IncidentResolved(ctx context.Context, incident *model.Incident) error {
	text := fmt.Sprintf(":white_check_mark: Incidencia *%s* resuelta por `%s`: %s",
		incident.Code, incident.ResolvedByID, incident.Title)
	return c.post(ctx, text, incident)
}

func (c *client) post(ctx context.Context, text string, incident *model.Incident) error {
	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post incident notification",
			goerr.V("channel", c.channel),
			goerr.V("incident_id", incident.ID))
	}
	return nil
}
