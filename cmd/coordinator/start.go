package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/absmach/fedcoord/coordinator"
	"github.com/absmach/fedcoord/coordinator/api"
	"github.com/absmach/fedcoord/coordinator/middleware"
	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/absmach/fedcoord/pkg/mqtt"
	"github.com/absmach/fedcoord/pkg/storage"
	"github.com/absmach/supermq/pkg/jaeger"
	"github.com/absmach/supermq/pkg/prometheus"
	"github.com/absmach/supermq/pkg/server"
	httpserver "github.com/absmach/supermq/pkg/server/http"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const svcName = "coordinator"

type config struct {
	env    envConfig
	server server.Config
}

func (c config) coordinatorConfig() coordinator.Config {
	return coordinator.Config{
		MinUpdates: c.env.MinUpdates,
		Shape: fl.Shape{
			Features:   c.env.Features,
			Categories: c.env.Categories,
		},
		Init: fl.InitConfig{
			Strategy: c.env.InitStrategy,
			Scale:    c.env.InitScale,
			Seed:     c.env.InitSeed,
		},
		DefaultSampleSize: c.env.DefaultSampleSize,
		DomainID:          c.env.DomainID,
		ChannelID:         c.env.ChannelID,
	}
}

func start(ctx context.Context, cancel context.CancelFunc, cfg config) error {
	g, ctx := errgroup.WithContext(ctx)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.env.LogLevel)); err != nil {
		return fmt.Errorf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.env.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := jaeger.NewProvider(ctx, svcName, cfg.env.OTELURL, cfg.env.InstanceID, cfg.env.TraceRatio)
		if err != nil {
			return fmt.Errorf("failed to initialize opentelemetry: %s", err.Error())
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	var pubsub mqtt.PubSub
	if cfg.env.MQTTAddress != "" {
		ps, err := mqtt.NewPubSub(
			cfg.env.MQTTAddress,
			cfg.env.MQTTQoS,
			svcName+"-"+cfg.env.InstanceID,
			cfg.env.ClientID,
			cfg.env.ClientKey,
			cfg.env.DomainID,
			cfg.env.ChannelID,
			cfg.env.MQTTTimeout,
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize mqtt pubsub: %s", err.Error())
		}
		defer func() {
			if err := ps.Disconnect(context.Background()); err != nil {
				logger.Error("error disconnecting from mqtt broker", slog.Any("error", err))
			}
		}()
		pubsub = ps
	}

	ccfg := cfg.coordinatorConfig()
	svc, err := coordinator.NewService(
		ccfg,
		fl.NewFedAvgAggregator(),
		storage.NewInMemoryStorage(),
		pubsub,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create %s service: %w", svcName, err)
	}
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	if pubsub != nil {
		consumer := coordinator.NewConsumer(svc, pubsub, ccfg.DomainID, ccfg.ChannelID)
		if err := consumer.Subscribe(ctx); err != nil {
			return fmt.Errorf("failed to subscribe to updates topic: %w", err)
		}
		// Registered after the disconnect defer, so it runs first.
		defer func() {
			if err := consumer.Unsubscribe(context.Background()); err != nil {
				logger.Warn("error unsubscribing from updates topic", slog.Any("error", err))
			}
		}()
	}

	logger.Info("Coordinator ready",
		slog.Int("min_updates", cfg.env.MinUpdates),
		slog.Int("features", cfg.env.Features),
		slog.Int("categories", cfg.env.Categories),
		slog.Bool("mqtt", pubsub != nil))

	hs := httpserver.NewServer(ctx, cancel, svcName, cfg.server, api.MakeHandler(svc, logger, cfg.env.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	return g.Wait()
}
