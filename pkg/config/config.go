// Package config provides YAML configuration loading for RPC Kit.
// It parses the endpoint list and strategy settings and builds the
// configured clients and strategy from them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blockpilot/rpckit/pkg/client"
	"github.com/blockpilot/rpckit/pkg/factory"
	"github.com/blockpilot/rpckit/pkg/types"
)

// Config represents the complete configuration structure
type Config struct {
	// Endpoints in priority order; the order here is the attempt order.
	Endpoints []EndpointConfig `yaml:"endpoints"`

	// Strategy selects and tunes the execution strategy.
	Strategy StrategyConfig `yaml:"strategy,omitempty"`
}

// EndpointConfig represents a single endpoint's configuration
type EndpointConfig struct {
	// Endpoint address, e.g. "https://rpc.ankr.com/eth"
	URL string `yaml:"url"`

	// Per-request timeout, e.g. "10s" (optional, client default if not set)
	Timeout string `yaml:"timeout,omitempty"`

	// Transport-level retries of retryable failures
	MaxRetries int `yaml:"max_retries,omitempty"`

	// Client-side rate limit (requests per minute)
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty"`

	// Extra headers set on every request
	Headers map[string]string `yaml:"headers,omitempty"`

	// Endpoint authentication
	Auth client.AuthConfig `yaml:"auth,omitempty"`
}

// StrategyConfig represents the strategy selection and tuning
type StrategyConfig struct {
	// Strategy type; defaults to "fallback"
	Type string `yaml:"type,omitempty"`

	// Per-attempt timeout, e.g. "5s" (optional, disabled if not set)
	AttemptTimeout string `yaml:"attempt_timeout,omitempty"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config data and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("config requires at least one endpoint")
	}
	for i, ep := range c.Endpoints {
		if ep.URL == "" {
			return fmt.Errorf("endpoint %d: url is required", i)
		}
		if ep.Timeout != "" {
			if _, err := time.ParseDuration(ep.Timeout); err != nil {
				return fmt.Errorf("endpoint %d: invalid timeout %q: %w", i, ep.Timeout, err)
			}
		}
	}
	if c.Strategy.AttemptTimeout != "" {
		if _, err := time.ParseDuration(c.Strategy.AttemptTimeout); err != nil {
			return fmt.Errorf("strategy: invalid attempt_timeout %q: %w", c.Strategy.AttemptTimeout, err)
		}
	}
	return nil
}

// StrategyType returns the configured strategy type, defaulting to
// fallback.
func (c *Config) StrategyType() types.StrategyType {
	if c.Strategy.Type == "" {
		return types.StrategyTypeFallback
	}
	return types.StrategyType(c.Strategy.Type)
}

// BuildClients constructs one HTTP client per configured endpoint, in
// declared order.
func (c *Config) BuildClients() ([]types.RPCClient, error) {
	clients := make([]types.RPCClient, 0, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		clientConfig := client.Config{
			URL:               ep.URL,
			MaxRetries:        ep.MaxRetries,
			RequestsPerMinute: ep.RequestsPerMinute,
			Headers:           ep.Headers,
			Auth:              ep.Auth,
		}
		if ep.Timeout != "" {
			timeout, err := time.ParseDuration(ep.Timeout)
			if err != nil {
				return nil, fmt.Errorf("endpoint %d: invalid timeout %q: %w", i, ep.Timeout, err)
			}
			clientConfig.Timeout = timeout
		}

		rpcClient, err := client.New(clientConfig)
		if err != nil {
			return nil, fmt.Errorf("endpoint %d (%s): %w", i, ep.URL, err)
		}
		clients = append(clients, rpcClient)
	}
	return clients, nil
}

// BuildStrategy builds the configured clients and wraps them in the
// configured strategy. A nil collector disables metrics.
func (c *Config) BuildStrategy(f *factory.StrategyFactory, collector types.MetricsCollector) (types.Strategy, error) {
	clients, err := c.BuildClients()
	if err != nil {
		return nil, err
	}

	opts := factory.StrategyOptions{MetricsCollector: collector}
	if c.Strategy.AttemptTimeout != "" {
		timeout, err := time.ParseDuration(c.Strategy.AttemptTimeout)
		if err != nil {
			return nil, fmt.Errorf("strategy: invalid attempt_timeout %q: %w", c.Strategy.AttemptTimeout, err)
		}
		opts.AttemptTimeout = timeout
	}

	return f.CreateStrategy(c.StrategyType(), clients, opts)
}
