// Package events publishes onboarding progress events to an external bus.
package events

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/qstash"
)

const (
	DriverNone   = "none"
	DriverQStash = "qstash"
	DriverAMQP   = "amqp"
)

// Config is read with prefix EVENTS.
type Config struct {
	Driver string `envconfig:"DRIVER" default:"none"`

	QStash      qstash.Config `envconfig:"QSTASH"`
	Destination string        `envconfig:"QSTASH_DESTINATION"`
	Retries     int           `envconfig:"QSTASH_RETRIES" default:"3"`

	AMQP AMQPConfig `envconfig:"AMQP"`
}

// Open returns the publisher named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (contractx.Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverNone:
		return Noop{}, nil
	case DriverQStash:
		client, err := qstash.NewClient(cfg.QStash)
		if err != nil {
			return nil, fmt.Errorf("qstash publisher: %w", err)
		}
		return NewQStashPublisher(client, cfg.Destination, cfg.Retries)
	case DriverAMQP:
		return NewAMQPPublisher(ctx, cfg.AMQP)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, contractx.Event) error { return nil }

func (Noop) Close() error { return nil }
