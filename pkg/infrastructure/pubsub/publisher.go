package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"github.com/cloudevents/sdk-go/v2/event"
)

// PubSubAdapter provides message publishing using Google Cloud Pub/Sub
type PubSubAdapter struct {
	Client *pubsub.Client
}

func (a *PubSubAdapter) PublishCloudEvent(ctx context.Context, topicID string, e event.Event) (string, error) {
	data, err := e.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal cloudevent: %w", err)
	}

	topic := a.Client.Topic(topicID)
	res := topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attributes(e),
	})
	return res.Get(ctx)
}

// attributes mirrors the event context as ce-* message attributes so
// subscribers can filter without decoding the body.
func attributes(e event.Event) map[string]string {
	attrs := map[string]string{
		"ce-specversion": e.SpecVersion(),
		"ce-type":        e.Type(),
		"ce-source":      e.Source(),
		"ce-id":          e.ID(),
	}
	if e.Subject() != "" {
		attrs["ce-subject"] = e.Subject()
	}
	return attrs
}

// LogPublisher is a mock publisher for local development
type LogPublisher struct {
	Logger *slog.Logger
}

func (p *LogPublisher) PublishCloudEvent(ctx context.Context, topicID string, e event.Event) (string, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("[LogPublisher] MOCK PUBLISH", "topic", topicID, "type", e.Type(), "data", string(e.Data()))
	return "mock-msg-id", nil
}
