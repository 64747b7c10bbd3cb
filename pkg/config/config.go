// Package config loads the orderbook-aggregator process configuration from
// a file, environment variables, and built-in defaults, using viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete process configuration. Every field carries a
// mapstructure tag so it can be populated from a YAML/JSON config file or
// from an environment variable of the form ORDERBOOK_SECTION_FIELD.
type Config struct {
	Pair     string         `mapstructure:"pair"`
	LogLevel string         `mapstructure:"log_level"`
	Server   ServerConfig   `mapstructure:"server"`
	Merge    MergeConfig    `mapstructure:"merge"`
	Binance  BinanceConfig  `mapstructure:"binance"`
	Bitstamp BitstampConfig `mapstructure:"bitstamp"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig configures the gRPC listener.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MergeConfig configures the fan-in channel and merge depth.
type MergeConfig struct {
	ChannelSize int `mapstructure:"channel_size"`
	TopLevels   int `mapstructure:"top_levels"`
}

// BinanceConfig configures the Binance order book depth stream.
type BinanceConfig struct {
	WebSocketURL string `mapstructure:"websocket_url"`
}

// BitstampConfig configures the Bitstamp live order book stream.
type BitstampConfig struct {
	WebSocketURL string `mapstructure:"websocket_url"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Path       string `mapstructure:"path"`
}

// Load reads configPath (if non-empty and present) and environment
// variables prefixed ORDERBOOK_ over a set of sane defaults, and unmarshals
// the result into a Config. A missing configPath is not an error; an
// unreadable or malformed one is.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("orderbook")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config: read %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pair", "btcusd")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.listen_addr", "0.0.0.0:5005")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("merge.channel_size", 100)
	v.SetDefault("merge.top_levels", 10)

	v.SetDefault("binance.websocket_url", "wss://stream.binance.com:9443/ws")
	v.SetDefault("bitstamp.websocket_url", "wss://ws.bitstamp.net")

	v.SetDefault("metrics.listen_addr", "0.0.0.0:9100")
	v.SetDefault("metrics.path", "/metrics")
}

// Validate rejects configurations that would make the aggregator
// meaningless to run, e.g. a non-positive channel size or merge depth.
func (c *Config) Validate() error {
	if c.Pair == "" {
		return fmt.Errorf("config: pair must not be empty")
	}
	if c.Merge.ChannelSize <= 0 {
		return fmt.Errorf("config: merge.channel_size must be positive, got %d", c.Merge.ChannelSize)
	}
	if c.Merge.TopLevels <= 0 {
		return fmt.Errorf("config: merge.top_levels must be positive, got %d", c.Merge.TopLevels)
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must not be empty")
	}
	return nil
}
