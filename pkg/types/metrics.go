package types

import (
	"context"
	"time"
)

// MetricsCollector is the interface for collecting metrics events emitted
// by strategies and clients. It is the library's only observability
// surface: library code never logs, it records events here.
//
// Thread-safety: all methods must be safe for concurrent use.
//
// Design principles:
//   - Zero external dependencies (no OTEL/Prometheus in core)
//   - Easy JSON serialization for all data types
//   - Minimal memory footprint and CPU overhead
type MetricsCollector interface {
	// RecordEvent records a single metrics event. Implementations should
	// be cheap enough to call on the hot path; errors are advisory and
	// callers are expected to ignore them.
	RecordEvent(ctx context.Context, event MetricEvent) error
}

// MetricEventType categorizes different types of metrics events.
type MetricEventType string

const (
	// MetricEventRequest indicates an Execute call was initiated
	MetricEventRequest MetricEventType = "request"

	// MetricEventSuccess indicates an Execute call completed successfully
	MetricEventSuccess MetricEventType = "success"

	// MetricEventError indicates an Execute call failed on every endpoint
	MetricEventError MetricEventType = "error"

	// MetricEventEndpointSwitch indicates the strategy moved past an
	// endpoint in the fallback chain
	MetricEventEndpointSwitch MetricEventType = "endpoint_switch"
)

// MetricEvent represents a single metrics event from a strategy.
// Events are immutable after creation.
type MetricEvent struct {
	// Type of event (request, success, error, endpoint_switch)
	Type MetricEventType `json:"type"`

	// Strategy identification
	StrategyName string       `json:"strategy_name"`
	StrategyType StrategyType `json:"strategy_type"`

	// JSON-RPC method being executed (may be empty for non-call events)
	Method string `json:"method,omitempty"`

	// Timestamp when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// Time taken for the attempt or call
	Latency time.Duration `json:"latency,omitempty"`

	// Error details (only for error events)
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Fallback chain context
	FromEndpoint  string `json:"from_endpoint,omitempty"`  // Endpoint switched from
	ToEndpoint    string `json:"to_endpoint,omitempty"`    // Endpoint switched to
	SwitchReason  string `json:"switch_reason,omitempty"`  // Why the switch occurred
	AttemptNumber int    `json:"attempt_number,omitempty"` // Which attempt in the chain, 1-indexed
}
