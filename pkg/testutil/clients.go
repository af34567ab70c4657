// Package testutil provides test doubles and assertion helpers for RPC
// Kit tests. The scripted clients implement types.RPCClient so strategy
// behavior can be tested without a network.
package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/blockpilot/rpckit/pkg/types"
)

// ScriptedClient is a types.RPCClient double driven by a fixed script.
// Each Call consumes the next Outcome; when the script runs out, the
// last outcome repeats. A client with no outcomes returns null results.
type ScriptedClient struct {
	Endpoint string
	Outcomes []Outcome
	Delay    time.Duration

	mu    sync.Mutex
	calls []RecordedCall
}

// Outcome scripts one Call result.
type Outcome struct {
	Result json.RawMessage
	Err    error
}

// RecordedCall captures the arguments of one Call invocation.
type RecordedCall struct {
	Method string
	Params []any
}

// NewSucceedingClient returns a client that always yields result.
func NewSucceedingClient(url string, result json.RawMessage) *ScriptedClient {
	return &ScriptedClient{Endpoint: url, Outcomes: []Outcome{{Result: result}}}
}

// NewFailingClient returns a client that always yields err.
func NewFailingClient(url string, err error) *ScriptedClient {
	return &ScriptedClient{Endpoint: url, Outcomes: []Outcome{{Err: err}}}
}

// URL implements types.RPCClient.
func (c *ScriptedClient) URL() string { return c.Endpoint }

// Call implements types.RPCClient.
func (c *ScriptedClient) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	c.mu.Lock()
	index := len(c.calls)
	c.calls = append(c.calls, RecordedCall{Method: method, Params: params})
	c.mu.Unlock()

	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(c.Outcomes) == 0 {
		return json.RawMessage(`null`), nil
	}
	if index >= len(c.Outcomes) {
		index = len(c.Outcomes) - 1
	}
	outcome := c.Outcomes[index]
	return outcome.Result, outcome.Err
}

// Calls returns a copy of all recorded calls.
func (c *ScriptedClient) Calls() []RecordedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RecordedCall, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallCount returns how many times Call was invoked.
func (c *ScriptedClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

var _ types.RPCClient = (*ScriptedClient)(nil)
