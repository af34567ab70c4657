package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockpilot/rpckit/pkg/types"
)

// AssertSuccessResult fails the test unless result is a successful
// outcome with a well-formed audit trail: the last response is a
// success, every prior response is an error, and no error list is set.
func AssertSuccessResult(t *testing.T, result *types.ExecutionResult) {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.Success, "expected a successful result")
	assert.Nil(t, result.Errors, "successful results carry no error list")
	require.NotEmpty(t, result.Metadata.Responses)

	last := len(result.Metadata.Responses) - 1
	assert.Equal(t, types.AttemptStatusSuccess, result.Metadata.Responses[last].Status)
	for i, record := range result.Metadata.Responses[:last] {
		assert.Equal(t, types.AttemptStatusError, record.Status, "responses[%d]", i)
	}
	AssertNonNegativeResponseTimes(t, result)
}

// AssertFailureResult fails the test unless result is a total-failure
// outcome: every response is an error and Errors mirrors Responses
// one-to-one in order.
func AssertFailureResult(t *testing.T, result *types.ExecutionResult) {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.Success, "expected a failed result")
	assert.Nil(t, result.Data, "failed results carry no data")
	require.Equal(t, len(result.Metadata.Responses), len(result.Errors),
		"errors must mirror responses one-to-one")

	for i, record := range result.Metadata.Responses {
		assert.Equal(t, types.AttemptStatusError, record.Status, "responses[%d]", i)
		assert.Equal(t, record.URL, result.Errors[i].URL, "errors[%d]", i)
		assert.Equal(t, record.Error, result.Errors[i].Error, "errors[%d]", i)
		assert.Equal(t, record.ResponseTime, result.Errors[i].ResponseTime, "errors[%d]", i)
	}
	AssertNonNegativeResponseTimes(t, result)
}

// AssertNonNegativeResponseTimes checks every attempt's response time.
func AssertNonNegativeResponseTimes(t *testing.T, result *types.ExecutionResult) {
	t.Helper()
	for i, record := range result.Metadata.Responses {
		assert.GreaterOrEqual(t, int64(record.ResponseTime), int64(0), "responses[%d]", i)
	}
}

// AssertAttemptOrder checks that the audit trail's URLs equal urls, in
// order.
func AssertAttemptOrder(t *testing.T, result *types.ExecutionResult, urls ...string) {
	t.Helper()
	require.Len(t, result.Metadata.Responses, len(urls))
	for i, url := range urls {
		assert.Equal(t, url, result.Metadata.Responses[i].URL, "responses[%d]", i)
	}
}
