package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connTimeout    = 10
	reconnTimeout  = 1
	disconnTimeout = 250

	statusOnline  = "online"
	statusOffline = "offline"
)

var (
	errPublishTimeout     = errors.New("failed to publish due to timeout reached")
	errSubscribeTimeout   = errors.New("failed to subscribe due to timeout reached")
	errUnsubscribeTimeout = errors.New("failed to unsubscribe due to timeout reached")
	errConnectTimeout     = errors.New("timeout reached while connecting to MQTT broker")
	errConnect            = errors.New("failed to connect to MQTT broker")
	errEmptyTopic         = errors.New("empty topic")
	errEmptyID            = errors.New("empty ID")

	statusTopicTemplate = "m/%s/c/%s/fl/coordinator/status"
)

type pubsub struct {
	client      mqtt.Client
	id          string
	qos         byte
	timeout     time.Duration
	statusTopic string
	logger      *slog.Logger
}

// Handler receives the raw payload of every message on a subscribed topic.
type Handler func(ctx context.Context, topic string, payload []byte) error

type PubSub interface {
	// Publish sends msg as is when it is a []byte and JSON encoded otherwise.
	Publish(ctx context.Context, topic string, msg any) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Unsubscribe(ctx context.Context, topic string) error
	// Disconnect announces the coordinator offline and closes the connection.
	Disconnect(ctx context.Context) error
}

type statusMessage struct {
	Status        string    `json:"status"`
	CoordinatorID string    `json:"coordinator_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewPubSub connects to the broker. When channelID is set the client keeps a
// retained online/offline status on the channel, with offline as its will.
func NewPubSub(url string, qos byte, id, username, password, domainID, channelID string, timeout time.Duration, logger *slog.Logger) (PubSub, error) {
	if id == "" {
		return nil, errEmptyID
	}

	ps := &pubsub{
		id:      id,
		qos:     qos,
		timeout: timeout,
		logger:  logger,
	}
	if channelID != "" {
		ps.statusTopic = fmt.Sprintf(statusTopicTemplate, domainID, channelID)
	}

	client, err := ps.connect(url, username, password)
	if err != nil {
		return nil, err
	}
	ps.client = client

	return ps, nil
}

func (ps *pubsub) Publish(ctx context.Context, topic string, msg any) error {
	if topic == "" {
		return errEmptyTopic
	}

	data, ok := msg.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(msg); err != nil {
			return err
		}
	}

	return ps.wait(ctx, ps.client.Publish(topic, ps.qos, false, data), errPublishTimeout)
}

func (ps *pubsub) Subscribe(ctx context.Context, topic string, handler Handler) error {
	if topic == "" {
		return errEmptyTopic
	}

	return ps.wait(ctx, ps.client.Subscribe(topic, ps.qos, ps.mqttHandler(ctx, handler)), errSubscribeTimeout)
}

func (ps *pubsub) Unsubscribe(ctx context.Context, topic string) error {
	if topic == "" {
		return errEmptyTopic
	}

	return ps.wait(ctx, ps.client.Unsubscribe(topic), errUnsubscribeTimeout)
}

func (ps *pubsub) Disconnect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if ps.statusTopic != "" {
		if err := ps.publishStatus(ctx, ps.client, statusOffline); err != nil {
			ps.logger.Warn("Failed to publish offline status", slog.Any("error", err))
		}
	}
	ps.client.Disconnect(disconnTimeout)

	return nil
}

// wait blocks until the token completes, the timeout elapses or ctx ends.
func (ps *pubsub) wait(ctx context.Context, token mqtt.Token, errTimeout error) error {
	timer := time.NewTimer(ps.timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return errTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ps *pubsub) statusPayload(status string) []byte {
	data, _ := json.Marshal(statusMessage{
		Status:        status,
		CoordinatorID: ps.id,
		Timestamp:     time.Now().UTC(),
	})

	return data
}

func (ps *pubsub) publishStatus(ctx context.Context, client mqtt.Client, status string) error {
	return ps.wait(ctx, client.Publish(ps.statusTopic, ps.qos, true, ps.statusPayload(status)), errPublishTimeout)
}

func (ps *pubsub) connect(address, username, password string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(address).
		SetClientID(ps.id).
		SetUsername(username).
		SetPassword(password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(connTimeout * time.Second).
		SetMaxReconnectInterval(reconnTimeout * time.Minute)

	if ps.statusTopic != "" {
		opts.SetBinaryWill(ps.statusTopic, ps.statusPayload(statusOffline), ps.qos, true)
	}

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		ps.logger.Info("MQTT connection established", slog.String("client_id", ps.id))
		if ps.statusTopic == "" {
			return
		}
		// Runs on paho's connection goroutine, so the status publish must not block it.
		go func() {
			if err := ps.publishStatus(context.Background(), c, statusOnline); err != nil {
				ps.logger.Warn("Failed to publish online status", slog.Any("error", err))
			}
		}()
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		args := []any{}
		if err != nil {
			args = append(args, slog.Any("error", err))
		}

		ps.logger.Warn("MQTT connection lost", args...)
	})

	opts.SetReconnectingHandler(func(_ mqtt.Client, options *mqtt.ClientOptions) {
		args := []any{}
		if options != nil {
			args = append(args,
				slog.String("client_id", options.ClientID),
				slog.String("username", options.Username),
			)
		}

		ps.logger.Info("MQTT reconnecting", args...)
	})

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(ps.timeout) {
		return nil, errConnectTimeout
	}
	if err := token.Error(); err != nil {
		return nil, errors.Join(errConnect, err)
	}

	return client, nil
}

func (ps *pubsub) mqttHandler(ctx context.Context, h Handler) mqtt.MessageHandler {
	return func(_ mqtt.Client, m mqtt.Message) {
		if err := h(ctx, m.Topic(), m.Payload()); err != nil {
			ps.logger.Warn("Failed to handle MQTT message",
				slog.String("topic", m.Topic()),
				slog.Any("error", err))
		}

		m.Ack()
	}
}
