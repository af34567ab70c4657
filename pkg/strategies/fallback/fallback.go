package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blockpilot/rpckit/pkg/types"
)

// ErrNoClients is returned by New when the client list is empty.
var ErrNoClients = errors.New("fallback strategy requires at least one RPC client")

// Strategy tries RPC clients in order until one succeeds
type Strategy struct {
	clients          []types.RPCClient
	attemptTimeout   time.Duration
	metricsCollector types.MetricsCollector
	mu               sync.RWMutex
}

// Option configures a Strategy
type Option func(*Strategy)

// WithMetricsCollector sets the collector the strategy emits events to.
func WithMetricsCollector(collector types.MetricsCollector) Option {
	return func(s *Strategy) {
		s.metricsCollector = collector
	}
}

// WithAttemptTimeout bounds each individual endpoint attempt. Zero (the
// default) means attempts inherit only the caller's context deadline.
func WithAttemptTimeout(timeout time.Duration) Option {
	return func(s *Strategy) {
		s.attemptTimeout = timeout
	}
}

// New creates a fallback strategy over clients. The slice order is the
// attempt order and is preserved verbatim. An empty client list is a
// configuration error and fails construction.
func New(clients []types.RPCClient, opts ...Option) (*Strategy, error) {
	if len(clients) == 0 {
		return nil, ErrNoClients
	}

	s := &Strategy{
		clients: make([]types.RPCClient, len(clients)),
	}
	copy(s.clients, clients)

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the strategy tag carried in result metadata.
func (s *Strategy) Name() string {
	return string(types.StrategyTypeFallback)
}

// SetMetricsCollector sets the metrics collector after construction.
func (s *Strategy) SetMetricsCollector(collector types.MetricsCollector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metricsCollector = collector
}

// Execute attempts each client in configured order and stops at the first
// success. Per-attempt failures never abort the loop; only ctx being
// canceled does, in which case the partial audit trail is discarded and
// ctx.Err() is returned. When every client fails the result carries
// Success:false with one AttemptError per client, never a non-nil error.
func (s *Strategy) Execute(ctx context.Context, method string, params []any) (*types.ExecutionResult, error) {
	s.mu.RLock()
	collector := s.metricsCollector
	s.mu.RUnlock()

	if collector != nil {
		_ = collector.RecordEvent(ctx, types.MetricEvent{
			Type:         types.MetricEventRequest,
			StrategyName: s.Name(),
			StrategyType: types.StrategyTypeFallback,
			Method:       method,
			Timestamp:    time.Now(),
		})
	}

	responses := make([]types.AttemptRecord, 0, len(s.clients))
	var previousEndpoint string

	for i, client := range s.clients {
		start := time.Now()
		data, err := s.callClient(ctx, client, method, params)
		latency := time.Since(start)

		if err == nil {
			responses = append(responses, types.AttemptRecord{
				URL:          client.URL(),
				Status:       types.AttemptStatusSuccess,
				Data:         data,
				ResponseTime: latency,
			})

			if collector != nil {
				if i > 0 {
					_ = collector.RecordEvent(ctx, types.MetricEvent{
						Type:          types.MetricEventEndpointSwitch,
						StrategyName:  s.Name(),
						StrategyType:  types.StrategyTypeFallback,
						Method:        method,
						Timestamp:     time.Now(),
						FromEndpoint:  previousEndpoint,
						ToEndpoint:    client.URL(),
						SwitchReason:  "fallback_success",
						AttemptNumber: i + 1,
						Latency:       latency,
					})
				}
				_ = collector.RecordEvent(ctx, types.MetricEvent{
					Type:         types.MetricEventSuccess,
					StrategyName: s.Name(),
					StrategyType: types.StrategyTypeFallback,
					Method:       method,
					Timestamp:    time.Now(),
					Latency:      latency,
				})
			}

			return &types.ExecutionResult{
				Success: true,
				Data:    data,
				Metadata: types.ExecutionMetadata{
					Strategy:  s.Name(),
					Responses: responses,
				},
			}, nil
		}

		// Caller cancellation aborts the whole call; the partial audit
		// trail is discarded rather than returned half-built.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		responses = append(responses, types.AttemptRecord{
			URL:          client.URL(),
			Status:       types.AttemptStatusError,
			Error:        err.Error(),
			ResponseTime: latency,
		})

		if collector != nil && i > 0 {
			_ = collector.RecordEvent(ctx, types.MetricEvent{
				Type:          types.MetricEventEndpointSwitch,
				StrategyName:  s.Name(),
				StrategyType:  types.StrategyTypeFallback,
				Method:        method,
				Timestamp:     time.Now(),
				FromEndpoint:  previousEndpoint,
				ToEndpoint:    client.URL(),
				SwitchReason:  "fallback_attempt",
				AttemptNumber: i + 1,
				ErrorMessage:  err.Error(),
				Latency:       latency,
			})
		}

		previousEndpoint = client.URL()
	}

	// All endpoints failed: derive the error view 1:1 from the audit
	// trail, same order.
	attemptErrors := make([]types.AttemptError, len(responses))
	for i, r := range responses {
		attemptErrors[i] = types.AttemptError{
			Status:       r.Status,
			Error:        r.Error,
			URL:          r.URL,
			ResponseTime: r.ResponseTime,
		}
	}

	if collector != nil {
		lastError := "no endpoints available"
		if n := len(attemptErrors); n > 0 {
			lastError = fmt.Sprintf("all endpoints failed, last error: %s", attemptErrors[n-1].Error)
		}
		_ = collector.RecordEvent(ctx, types.MetricEvent{
			Type:          types.MetricEventError,
			StrategyName:  s.Name(),
			StrategyType:  types.StrategyTypeFallback,
			Method:        method,
			Timestamp:     time.Now(),
			ErrorType:     "fallback_all_failed",
			ErrorMessage:  lastError,
			AttemptNumber: len(s.clients),
		})
	}

	return &types.ExecutionResult{
		Success: false,
		Errors:  attemptErrors,
		Metadata: types.ExecutionMetadata{
			Strategy:  s.Name(),
			Responses: responses,
		},
	}, nil
}

// callClient performs one attempt, bounded by the attempt timeout when
// one is configured.
func (s *Strategy) callClient(ctx context.Context, client types.RPCClient, method string, params []any) (json.RawMessage, error) {
	if s.attemptTimeout > 0 {
		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		defer cancel()
		return client.Call(attemptCtx, method, params)
	}
	return client.Call(ctx, method, params)
}
