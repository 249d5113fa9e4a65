package main

import (
	"context"
	"errors"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/absmach/fedcoord"
	"github.com/absmach/supermq/pkg/server"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

const (
	defHTTPPort   = "8080"
	envPrefixHTTP = "COORDINATOR_HTTP_"
)

type envConfig struct {
	ConfigPath        string        `env:"COORDINATOR_CONFIG"              envDefault:"config.toml"`
	LogLevel          string        `env:"COORDINATOR_LOG_LEVEL"           envDefault:"info"`
	InstanceID        string        `env:"COORDINATOR_INSTANCE_ID"`
	MinUpdates        int           `env:"COORDINATOR_MIN_UPDATES"         envDefault:"3"`
	Features          int           `env:"COORDINATOR_FEATURES"            envDefault:"10"`
	Categories        int           `env:"COORDINATOR_CATEGORIES"          envDefault:"5"`
	InitStrategy      string        `env:"COORDINATOR_INIT_STRATEGY"       envDefault:"random"`
	InitScale         float64       `env:"COORDINATOR_INIT_SCALE"          envDefault:"0.01"`
	InitSeed          uint64        `env:"COORDINATOR_INIT_SEED"           envDefault:"0"`
	DefaultSampleSize int           `env:"COORDINATOR_DEFAULT_SAMPLE_SIZE" envDefault:"1"`
	MQTTAddress       string        `env:"COORDINATOR_MQTT_ADDRESS"`
	MQTTQoS           uint8         `env:"COORDINATOR_MQTT_QOS"            envDefault:"2"`
	MQTTTimeout       time.Duration `env:"COORDINATOR_MQTT_TIMEOUT"        envDefault:"30s"`
	ClientID          string        `env:"COORDINATOR_CLIENT_ID"`
	ClientKey         string        `env:"COORDINATOR_CLIENT_KEY"`
	DomainID          string        `env:"COORDINATOR_DOMAIN_ID"`
	ChannelID         string        `env:"COORDINATOR_CHANNEL_ID"`
	OTELURL           url.URL       `env:"COORDINATOR_OTEL_URL"`
	TraceRatio        float64       `env:"COORDINATOR_TRACE_RATIO"         envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	fileCfg, err := fedcoord.LoadConfig(cfg.ConfigPath)
	switch {
	case err == nil:
		cfg.mergeMQTT(fileCfg.MQTT)
	case !errors.Is(err, os.ErrNotExist):
		log.Fatalf("failed to load %s : %s", cfg.ConfigPath, err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		log.Fatalf("failed to load %s HTTP server configuration : %s", svcName, err.Error())
	}

	if err := start(ctx, cancel, config{env: cfg, server: httpServerConfig}); err != nil {
		log.Fatalf("%s service exited with error: %s", svcName, err)
	}
}

// mergeMQTT fills broker credentials that were not set in the environment.
func (c *envConfig) mergeMQTT(m fedcoord.MQTTConfig) {
	if c.ClientID == "" {
		c.ClientID = m.ClientID
	}
	if c.ClientKey == "" {
		c.ClientKey = m.ClientKey
	}
	if c.DomainID == "" {
		c.DomainID = m.DomainID
	}
	if c.ChannelID == "" {
		c.ChannelID = m.ChannelID
	}
}
