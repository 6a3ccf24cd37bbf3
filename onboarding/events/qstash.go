package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/qstash"
)

type qstashClient interface {
	Publish(ctx context.Context, destination string, body []byte, opts ...qstash.PublishOption) (string, error)
}

// QStashPublisher forwards events to a QStash topic or URL. The event id is
// the deduplication id.
type QStashPublisher struct {
	client      qstashClient
	destination string
	retries     int
}

func NewQStashPublisher(client qstashClient, destination string, retries int) (*QStashPublisher, error) {
	if client == nil {
		return nil, errors.New("qstash client is required")
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, errors.New("qstash destination is required")
	}
	if retries < 0 {
		retries = 0
	}
	return &QStashPublisher{client: client, destination: destination, retries: retries}, nil
}

func (p *QStashPublisher) Publish(ctx context.Context, ev contractx.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msgID, err := p.client.Publish(ctx, p.destination, body,
		qstash.WithDeduplicationID(ev.ID),
		qstash.WithRetries(p.retries),
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}

	log.Debug().
		Str("event", string(ev.Type)).
		Int("company_id", ev.CompanyID).
		Str("message_id", msgID).
		Msg("event queued on qstash")
	return nil
}

func (p *QStashPublisher) Close() error { return nil }
