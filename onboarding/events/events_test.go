package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/qstash"
)

type fakeQStash struct {
	destination string
	body        []byte
	opts        int
	err         error
}

func (f *fakeQStash) Publish(_ context.Context, destination string, body []byte, opts ...qstash.PublishOption) (string, error) {
	f.destination = destination
	f.body = body
	f.opts = len(opts)
	return "msg_1", f.err
}

func sampleEvent() contractx.Event {
	return contractx.Event{
		ID:           "ev-1",
		Type:         contractx.EventBatchApplied,
		CompanyID:    123,
		OnboardingID: "ob-1",
		Checkpoint:   statex.CheckpointStaff,
		CurrentPhase: statex.PhaseServicesAndCategories,
		Status:       statex.StatusInProgress,
		Succeeded:    1,
		Failed:       1,
		At:           time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestOpenDrivers(t *testing.T) {
	t.Parallel()

	p, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	require.IsType(t, Noop{}, p)
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	_, err = Open(context.Background(), Config{Driver: "kafka"})
	require.Error(t, err)

	_, err = Open(context.Background(), Config{Driver: DriverQStash})
	require.Error(t, err, "token is required")

	p, err = Open(context.Background(), Config{
		Driver:      DriverQStash,
		QStash:      qstash.Config{Token: "tok"},
		Destination: "onboarding",
	})
	require.NoError(t, err)
	require.IsType(t, &QStashPublisher{}, p)
}

func TestQStashPublisher(t *testing.T) {
	t.Parallel()

	fake := &fakeQStash{}
	p, err := NewQStashPublisher(fake, " onboarding-events ", 2)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	require.Equal(t, "onboarding-events", fake.destination)
	require.Equal(t, 2, fake.opts)

	var got contractx.Event
	require.NoError(t, json.Unmarshal(fake.body, &got))
	require.Equal(t, sampleEvent(), got)

	fake.err = errors.New("down")
	require.ErrorIs(t, p.Publish(context.Background(), sampleEvent()), fake.err)

	_, err = NewQStashPublisher(fake, "", 0)
	require.Error(t, err)
}

func TestAMQPMessage(t *testing.T) {
	t.Parallel()

	ev := sampleEvent()
	require.Equal(t, "onboarding.batch_applied.123", routingKey(ev))

	msg, err := publishing(ev)
	require.NoError(t, err)
	require.Equal(t, "application/json", msg.ContentType)
	require.Equal(t, amqp.Persistent, msg.DeliveryMode)
	require.Equal(t, "ev-1", msg.MessageId)
	require.Equal(t, string(contractx.EventBatchApplied), msg.Type)
	require.JSONEq(t, string(mustJSON(t, ev)), string(msg.Body))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
