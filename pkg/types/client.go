package types

import (
	"context"
	"encoding/json"
	"fmt"
)

// RPCClient is the single capability a strategy depends on: one JSON-RPC
// call against one endpoint. Implementations own their transport details
// (connection pooling, transport-level retries); the strategy treats any
// returned error uniformly as "this attempt failed".
//
// Implementations must be safe for concurrent use: a strategy instance
// may serve overlapping Execute calls that hit the same client.
type RPCClient interface {
	// URL returns the endpoint address this client talks to. It is used
	// verbatim in attempt records.
	URL() string

	// Call performs one JSON-RPC call and returns the raw result value,
	// or an error describing why the attempt failed. The error message is
	// what ends up in AttemptRecord.Error, so it should be human-readable.
	Call(ctx context.Context, method string, params []any) (json.RawMessage, error)
}

// ErrorCode categorizes client errors
type ErrorCode string

const (
	ErrCodeUnknown        ErrorCode = "unknown"
	ErrCodeAuthentication ErrorCode = "authentication"
	ErrCodeRateLimit      ErrorCode = "rate_limit"
	ErrCodeInvalidRequest ErrorCode = "invalid_request"
	ErrCodeServerError    ErrorCode = "server_error"
	ErrCodeTimeout        ErrorCode = "timeout"
	ErrCodeNetwork        ErrorCode = "network"
	ErrCodeMalformed      ErrorCode = "malformed_response"
	ErrCodeRPC            ErrorCode = "rpc_error"
)

// ClientError represents a standardized error from an RPC client.
// For JSON-RPC application errors, Message carries the node's
// error.message verbatim and RPCErrorCode carries its numeric code.
type ClientError struct {
	Code         ErrorCode // Categorized error code
	Message      string    // Human-readable message
	StatusCode   int       // HTTP status code (0 if not applicable)
	Endpoint     string    // Which endpoint generated this error
	Method       string    // JSON-RPC method that failed
	RPCErrorCode int       // JSON-RPC error object code (0 if not applicable)
	OriginalErr  error     // Wrapped original error
	RequestID    string    // Request ID of the failed call, if one was assigned
}

// Error implements the error interface
func (e *ClientError) Error() string {
	return e.Message
}

// Unwrap returns the original error for errors.Is/As
func (e *ClientError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns true if the error is potentially recoverable with retry
func (e *ClientError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeRateLimit, ErrCodeServerError, ErrCodeTimeout, ErrCodeNetwork:
		return true
	}
	return false
}

// WithMethod sets the method field and returns the error for chaining
func (e *ClientError) WithMethod(method string) *ClientError {
	e.Method = method
	return e
}

// WithStatusCode sets the status code field and returns the error for chaining
func (e *ClientError) WithStatusCode(statusCode int) *ClientError {
	e.StatusCode = statusCode
	return e
}

// WithOriginalErr sets the original error field and returns the error for chaining
func (e *ClientError) WithOriginalErr(err error) *ClientError {
	e.OriginalErr = err
	return e
}

// WithRequestID sets the request ID field and returns the error for chaining
func (e *ClientError) WithRequestID(requestID string) *ClientError {
	e.RequestID = requestID
	return e
}

// NewClientError creates a new ClientError
func NewClientError(endpoint string, code ErrorCode, message string) *ClientError {
	return &ClientError{
		Code:     code,
		Message:  message,
		Endpoint: endpoint,
	}
}

// NewRPCError creates a ClientError from a JSON-RPC error object. The
// node's message is kept verbatim so callers see exactly what it said.
func NewRPCError(endpoint string, rpcCode int, message string) *ClientError {
	return &ClientError{
		Code:         ErrCodeRPC,
		Message:      message,
		Endpoint:     endpoint,
		RPCErrorCode: rpcCode,
	}
}

// NewNetworkError creates a new network-level error
func NewNetworkError(endpoint string, err error) *ClientError {
	return &ClientError{
		Code:        ErrCodeNetwork,
		Message:     fmt.Sprintf("request to %s failed: %v", endpoint, err),
		Endpoint:    endpoint,
		OriginalErr: err,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(endpoint string, err error) *ClientError {
	return &ClientError{
		Code:        ErrCodeTimeout,
		Message:     fmt.Sprintf("request to %s timed out: %v", endpoint, err),
		Endpoint:    endpoint,
		OriginalErr: err,
	}
}
