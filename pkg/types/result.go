package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// AttemptStatus is the outcome of a single attempt against one endpoint
type AttemptStatus string

const (
	AttemptStatusSuccess AttemptStatus = "success"
	AttemptStatusError   AttemptStatus = "error"
)

// AttemptRecord is one entry in the audit trail: the outcome of trying a
// single endpoint. ResponseTime is measured from call issuance to
// settlement and is recorded for failures the same way as for successes.
type AttemptRecord struct {
	URL          string          `json:"url"`
	Status       AttemptStatus   `json:"status"`
	Data         json.RawMessage `json:"data,omitempty"`
	Error        string          `json:"error,omitempty"`
	ResponseTime time.Duration   `json:"responseTime"`
}

// AttemptError is the failure view of an attempt, carried in
// ExecutionResult.Errors when every endpoint failed.
type AttemptError struct {
	Status       AttemptStatus `json:"status"`
	Error        string        `json:"error"`
	URL          string        `json:"url"`
	ResponseTime time.Duration `json:"responseTime"`
}

// ExecutionMetadata is the audit trail of one Execute call. Responses
// holds one record per endpoint actually attempted, in configured order,
// regardless of the overall outcome.
type ExecutionMetadata struct {
	Strategy  string          `json:"strategy"`
	Responses []AttemptRecord `json:"responses"`
}

// ExecutionResult is the structured outcome of one strategy execution.
//
// When Success is true, Data holds the raw JSON-RPC result of the winning
// endpoint and Errors is nil. When Success is false, Errors holds one
// entry per attempted endpoint, in attempt order, and Data is nil.
// Metadata is always populated.
type ExecutionResult struct {
	Success  bool              `json:"success"`
	Data     json.RawMessage   `json:"data,omitempty"`
	Errors   []AttemptError    `json:"errors,omitempty"`
	Metadata ExecutionMetadata `json:"metadata"`
}

// DecodeResult unmarshals the result's Data into T. It fails when the
// result is not successful or when Data does not decode into T.
func DecodeResult[T any](result *ExecutionResult) (T, error) {
	var value T
	if result == nil {
		return value, fmt.Errorf("nil execution result")
	}
	if !result.Success {
		return value, fmt.Errorf("execution was not successful")
	}
	if err := json.Unmarshal(result.Data, &value); err != nil {
		return value, fmt.Errorf("decoding result data: %w", err)
	}
	return value, nil
}
