package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientError_Error(t *testing.T) {
	err := NewRPCError("https://rpc.example.com", -32601, "the method eth_unknown does not exist/is not available")
	// JSON-RPC error messages surface verbatim.
	assert.Equal(t, "the method eth_unknown does not exist/is not available", err.Error())
	assert.Equal(t, ErrCodeRPC, err.Code)
	assert.Equal(t, -32601, err.RPCErrorCode)
}

func TestClientError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := NewNetworkError("https://rpc.example.com", inner)

	require.ErrorIs(t, err, inner)

	var clientErr *ClientError
	require.ErrorAs(t, error(err), &clientErr)
	assert.Equal(t, "https://rpc.example.com", clientErr.Endpoint)
}

func TestClientError_IsRetryable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeNetwork, true},
		{ErrCodeTimeout, true},
		{ErrCodeRateLimit, true},
		{ErrCodeServerError, true},
		{ErrCodeAuthentication, false},
		{ErrCodeInvalidRequest, false},
		{ErrCodeRPC, false},
		{ErrCodeMalformed, false},
	}

	for _, tt := range tests {
		err := NewClientError("https://rpc.example.com", tt.code, "test")
		assert.Equal(t, tt.retryable, err.IsRetryable(), "code %s", tt.code)
	}
}

func TestClientError_Chaining(t *testing.T) {
	inner := errors.New("boom")
	err := NewClientError("https://rpc.example.com", ErrCodeServerError, "internal error").
		WithMethod("eth_blockNumber").
		WithStatusCode(500).
		WithRequestID("req-1").
		WithOriginalErr(inner)

	assert.Equal(t, "eth_blockNumber", err.Method)
	assert.Equal(t, 500, err.StatusCode)
	assert.Equal(t, "req-1", err.RequestID)
	assert.Equal(t, inner, err.OriginalErr)
}
