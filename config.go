package fedcoord

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

const (
	DefCoordinatorURL  = "http://localhost:8080"
	DefTLSVerification = false
)

type Config struct {
	CLI  CLIConfig  `toml:"cli"`
	MQTT MQTTConfig `toml:"mqtt"`
}

type CLIConfig struct {
	CoordinatorURL  string `toml:"coordinator_url"`
	TLSVerification bool   `toml:"tls_verification"`
}

// MQTTConfig holds the credentials the coordinator uses to reach the broker.
type MQTTConfig struct {
	ClientID  string `toml:"client_id"`
	ClientKey string `toml:"client_key"`
	DomainID  string `toml:"domain_id"`
	ChannelID string `toml:"channel_id"`
}

func DefaultConfig() Config {
	return Config{
		CLI: CLIConfig{
			CoordinatorURL:  DefCoordinatorURL,
			TLSVerification: DefTLSVerification,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
