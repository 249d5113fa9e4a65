package coordinator_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/absmach/fedcoord/coordinator"
	svcmocks "github.com/absmach/fedcoord/coordinator/mocks"
	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/absmach/fedcoord/pkg/mqtt"
	"github.com/absmach/fedcoord/pkg/mqtt/mocks"
	"github.com/absmach/fedcoord/pkg/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	updatesTopic = "m/domain/c/channel/fl/updates"
	resultsTopic = "m/domain/c/channel/fl/updates/results"
	modelTopic   = "m/domain/c/channel/fl/model"
)

func subscribedHandler(t *testing.T, svc coordinator.Service, pubsub *mocks.PubSub) mqtt.Handler {
	t.Helper()

	var handler mqtt.Handler
	pubsub.On("Subscribe", mock.Anything, updatesTopic, mock.Anything).
		Run(func(args mock.Arguments) {
			handler = args.Get(2).(mqtt.Handler)
		}).
		Return(nil).Once()

	consumer := coordinator.NewConsumer(svc, pubsub, "domain", "channel")
	require.NoError(t, consumer.Subscribe(context.Background()))
	require.NotNil(t, handler)

	return handler
}

func consumerService(t *testing.T, cfg coordinator.Config, pubsub *mocks.PubSub) coordinator.Service {
	t.Helper()

	svc, err := coordinator.NewService(cfg, fl.NewFedAvgAggregator(), storage.NewInMemoryStorage(), pubsub, nil)
	require.NoError(t, err)

	return svc
}

func encode(t *testing.T, msg map[string]any) []byte {
	t.Helper()

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	return data
}

func updateMessage(shape fl.Shape, clientID string) map[string]any {
	weights := make([]any, shape.Features)
	for i := range weights {
		row := make([]any, shape.Categories)
		for j := range row {
			row[j] = 0.5
		}
		weights[i] = row
	}
	bias := make([]any, shape.Categories)
	for j := range bias {
		bias[j] = 0.5
	}

	return map[string]any{
		"client_id":   clientID,
		"weights":     weights,
		"bias":        bias,
		"sample_size": float64(2),
	}
}

func TestConsumerUnsubscribe(t *testing.T) {
	t.Parallel()

	pubsub := new(mocks.PubSub)
	pubsub.On("Unsubscribe", mock.Anything, updatesTopic).Return(nil).Once()

	consumer := coordinator.NewConsumer(new(svcmocks.MockService), pubsub, "domain", "channel")
	require.NoError(t, consumer.Unsubscribe(context.Background()))
	pubsub.AssertExpectations(t)
}

func TestConsumerSubmitsThroughGivenService(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	pubsub := new(mocks.PubSub)
	svc := new(svcmocks.MockService)
	handler := subscribedHandler(t, svc, pubsub)

	svc.On("SubmitUpdate", mock.Anything, mock.MatchedBy(func(req coordinator.UpdateRequest) bool {
		return req.ClientID == "edge-1" && req.SampleSize != nil && *req.SampleSize == 2
	})).Return(coordinator.SubmitResult{Status: coordinator.StatusQueued, Buffered: 4}, nil).Once()
	pubsub.On("Publish", mock.Anything, resultsTopic, map[string]any{
		"client_id": "edge-1",
		"status":    coordinator.StatusQueued,
		"buffered":  4,
	}).Return(nil).Once()

	require.NoError(t, handler(context.Background(), updatesTopic, encode(t, updateMessage(cfg.Shape, "edge-1"))))
	svc.AssertExpectations(t)
	pubsub.AssertExpectations(t)
}

func TestConsumerRejectsBeforeService(t *testing.T) {
	t.Parallel()

	pubsub := new(mocks.PubSub)
	svc := new(svcmocks.MockService)
	handler := subscribedHandler(t, svc, pubsub)

	pubsub.On("Publish", mock.Anything, resultsTopic, mock.MatchedBy(func(msg map[string]any) bool {
		return msg["kind"] == "InvalidPayload"
	})).Return(nil).Once()

	require.NoError(t, handler(context.Background(), updatesTopic, []byte("{not json")))
	svc.AssertNotCalled(t, "SubmitUpdate", mock.Anything, mock.Anything)
	pubsub.AssertExpectations(t)
}

func TestMQTTUpdateQueuedAndAggregated(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MinUpdates = 2
	pubsub := new(mocks.PubSub)
	handler := subscribedHandler(t, consumerService(t, cfg, pubsub), pubsub)
	ctx := context.Background()

	pubsub.On("Publish", mock.Anything, resultsTopic, map[string]any{
		"client_id": "edge-1",
		"status":    coordinator.StatusQueued,
		"buffered":  1,
	}).Return(nil).Once()
	require.NoError(t, handler(ctx, updatesTopic, encode(t, updateMessage(cfg.Shape, "edge-1"))))

	pubsub.On("Publish", mock.Anything, modelTopic, mock.Anything).Return(nil).Once()
	pubsub.On("Publish", mock.Anything, resultsTopic, map[string]any{
		"client_id": "edge-2",
		"status":    coordinator.StatusAggregated,
		"version":   uint64(2),
	}).Return(nil).Once()
	require.NoError(t, handler(ctx, updatesTopic, encode(t, updateMessage(cfg.Shape, "edge-2"))))

	pubsub.AssertExpectations(t)
}

func TestMQTTUpdateRejected(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		msg  func(fl.Shape) map[string]any
		kind string
	}{
		{
			name: "unknown field",
			msg: func(s fl.Shape) map[string]any {
				m := updateMessage(s, "edge-1")
				m["epochs"] = 3

				return m
			},
			kind: "InvalidPayload",
		},
		{
			name: "wrong shape",
			msg: func(s fl.Shape) map[string]any {
				return updateMessage(fl.Shape{Features: 9, Categories: s.Categories}, "edge-1")
			},
			kind: "ShapeMismatch",
		},
		{
			name: "zero sample size",
			msg: func(s fl.Shape) map[string]any {
				m := updateMessage(s, "edge-1")
				m["sample_size"] = 0

				return m
			},
			kind: "InvalidSampleSize",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			pubsub := new(mocks.PubSub)
			handler := subscribedHandler(t, consumerService(t, cfg, pubsub), pubsub)

			pubsub.On("Publish", mock.Anything, resultsTopic, mock.MatchedBy(func(msg map[string]any) bool {
				return msg["kind"] == tc.kind && msg["error"] != ""
			})).Return(nil).Once()

			require.NoError(t, handler(context.Background(), updatesTopic, encode(t, tc.msg(cfg.Shape))))
			pubsub.AssertExpectations(t)
		})
	}
}
