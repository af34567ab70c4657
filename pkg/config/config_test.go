package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockpilot/rpckit/pkg/client"
	"github.com/blockpilot/rpckit/pkg/factory"
	"github.com/blockpilot/rpckit/pkg/types"
)

const sampleConfig = `
endpoints:
  - url: https://rpc1.example.com
    timeout: 10s
    max_retries: 2
    requests_per_minute: 120
    auth:
      type: api_key
      api_key: secret
  - url: https://rpc2.example.com
    headers:
      X-Chain: mainnet
strategy:
  type: fallback
  attempt_timeout: 5s
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	require.Len(t, cfg.Endpoints, 2)
	assert.Equal(t, "https://rpc1.example.com", cfg.Endpoints[0].URL)
	assert.Equal(t, "10s", cfg.Endpoints[0].Timeout)
	assert.Equal(t, 2, cfg.Endpoints[0].MaxRetries)
	assert.Equal(t, 120, cfg.Endpoints[0].RequestsPerMinute)
	assert.Equal(t, client.AuthTypeAPIKey, cfg.Endpoints[0].Auth.Type)
	assert.Equal(t, "mainnet", cfg.Endpoints[1].Headers["X-Chain"])
	assert.Equal(t, types.StrategyTypeFallback, cfg.StrategyType())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("endpoints: []"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one endpoint")

	_, err = Parse([]byte("endpoints:\n  - timeout: 10s"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url is required")

	_, err = Parse([]byte("endpoints:\n  - url: https://rpc.example.com\n    timeout: soon"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")

	_, err = Parse([]byte("endpoints:\n  - url: https://rpc.example.com\nstrategy:\n  attempt_timeout: whenever"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid attempt_timeout")

	_, err = Parse([]byte("endpoints: [not yaml"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Endpoints, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildClients_OrderPreserved(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	clients, err := cfg.BuildClients()
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "https://rpc1.example.com", clients[0].URL())
	assert.Equal(t, "https://rpc2.example.com", clients[1].URL())
}

func TestBuildClients_BadEndpoint(t *testing.T) {
	cfg, err := Parse([]byte("endpoints:\n  - url: ftp://rpc.example.com"))
	require.NoError(t, err)

	_, err = cfg.BuildClients()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http or https")
}

func TestBuildStrategy(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	s, err := cfg.BuildStrategy(factory.DefaultStrategyFactory(), nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback", s.Name())
}

func TestBuildStrategy_UnknownType(t *testing.T) {
	cfg, err := Parse([]byte("endpoints:\n  - url: https://rpc.example.com\nstrategy:\n  type: quorum"))
	require.NoError(t, err)

	_, err = cfg.BuildStrategy(factory.DefaultStrategyFactory(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}
