package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/absmach/fedcoord/pkg/mqtt"
)

const (
	baseTopicTemplate = "m/%s/c/%s/fl"
	updatesTopic      = "/updates"
	resultsTopic      = "/updates/results"
	modelTopic        = "/model"
)

// Consumer feeds updates published on the channel's updates topic into a
// Service and answers each one on the results topic.
type Consumer struct {
	svc       Service
	pubsub    mqtt.PubSub
	baseTopic string
}

// NewConsumer binds svc to the channel's topics. Pass the middleware-wrapped
// service so MQTT submissions are instrumented like HTTP ones.
func NewConsumer(svc Service, pubsub mqtt.PubSub, domainID, channelID string) *Consumer {
	return &Consumer{
		svc:       svc,
		pubsub:    pubsub,
		baseTopic: fmt.Sprintf(baseTopicTemplate, domainID, channelID),
	}
}

func (c *Consumer) Subscribe(ctx context.Context) error {
	return c.pubsub.Subscribe(ctx, c.baseTopic+updatesTopic, c.handleUpdate)
}

func (c *Consumer) Unsubscribe(ctx context.Context) error {
	return c.pubsub.Unsubscribe(ctx, c.baseTopic+updatesTopic)
}

// handleUpdate runs MQTT updates through the same strict decoding and
// validation as HTTP submissions and publishes the outcome.
func (c *Consumer) handleUpdate(ctx context.Context, _ string, payload []byte) error {
	req, err := DecodeUpdate(payload, ContentTypeJSON)
	if err != nil {
		return c.publishResult(ctx, "", SubmitResult{}, err)
	}

	res, err := c.svc.SubmitUpdate(ctx, req)

	return c.publishResult(ctx, req.ClientID, res, err)
}

func (c *Consumer) publishResult(ctx context.Context, clientID string, res SubmitResult, err error) error {
	payload := map[string]any{
		"client_id": clientID,
	}
	if err != nil {
		payload["error"] = err.Error()
		payload["kind"] = fl.Kind(err)
	} else {
		payload["status"] = res.Status
		switch res.Status {
		case StatusAggregated:
			payload["version"] = res.Version
		default:
			payload["buffered"] = res.Buffered
		}
	}

	return c.pubsub.Publish(ctx, c.baseTopic+resultsTopic, payload)
}

func (svc *service) notifyRound(ctx context.Context, r fl.Round) {
	if svc.pubsub == nil {
		return
	}

	msg := map[string]any{
		"round_id":      r.ID,
		"version":       r.Version,
		"num_updates":   r.NumUpdates,
		"total_samples": r.TotalSamples,
		"aggregated_at": r.AggregatedAt.Format(time.RFC3339Nano),
	}

	if err := svc.pubsub.Publish(ctx, svc.baseTopic+modelTopic, msg); err != nil {
		svc.logger.WarnContext(ctx, "Failed to publish model update notification",
			slog.Uint64("version", r.Version),
			slog.Any("error", err))
	}
}
