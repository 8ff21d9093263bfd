package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sust-hall/hall-service/internal/config"
	"github.com/sust-hall/hall-service/internal/events"
	"github.com/sust-hall/hall-service/internal/service"
)

type capturePublisher struct {
	channel  string
	payloads [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.channel = channel
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestStartNotificationWorkerForwardsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &capturePublisher{}
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{})

	StartNotificationWorker(dispatcher, notifications, events.NewRedisForwarder(publisher, "hall.events"))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventComplaintDeleted,
		SubjectID: "complaint-1",
	}))

	require.Len(t, publisher.payloads, 1)
	assert.Equal(t, "hall.events", publisher.channel)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &decoded))
	assert.Equal(t, "complaint_deleted", decoded["type"])
	assert.Equal(t, "complaint-1", decoded["subject_id"])
}

func TestStartNotificationWorkerWithoutForwarder(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	StartNotificationWorker(dispatcher, nil, nil)

	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventAccountRegistered}))
}
