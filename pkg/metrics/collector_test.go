package metrics

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockpilot/rpckit/pkg/types"
)

func TestCollector_RecordAndSnapshot(t *testing.T) {
	collector := NewCollector()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, collector.RecordEvent(ctx, types.MetricEvent{
		Type:         types.MetricEventRequest,
		StrategyName: "fallback",
		Method:       "eth_chainId",
		Timestamp:    now,
	}))
	require.NoError(t, collector.RecordEvent(ctx, types.MetricEvent{
		Type:          types.MetricEventEndpointSwitch,
		StrategyName:  "fallback",
		Method:        "eth_chainId",
		Timestamp:     now,
		FromEndpoint:  "https://rpc1.example.com",
		ToEndpoint:    "https://rpc2.example.com",
		SwitchReason:  "fallback_success",
		AttemptNumber: 2,
		Latency:       10 * time.Millisecond,
	}))
	require.NoError(t, collector.RecordEvent(ctx, types.MetricEvent{
		Type:         types.MetricEventSuccess,
		StrategyName: "fallback",
		Method:       "eth_chainId",
		Timestamp:    now,
		Latency:      10 * time.Millisecond,
	}))

	snapshot := collector.GetSnapshot()
	assert.Equal(t, int64(1), snapshot.TotalRequests)
	assert.Equal(t, int64(1), snapshot.SuccessfulRequests)
	assert.Equal(t, int64(0), snapshot.FailedRequests)
	assert.Equal(t, int64(1), snapshot.EndpointSwitches)
	assert.Equal(t, 10*time.Millisecond, snapshot.AverageLatency)

	require.Len(t, snapshot.Endpoints, 1)
	assert.Equal(t, "https://rpc2.example.com", snapshot.Endpoints[0].URL)
	assert.Equal(t, int64(1), snapshot.Endpoints[0].SwitchesTo)
	assert.Equal(t, int64(0), snapshot.Endpoints[0].Failures)
}

func TestCollector_FailedSwitchCountsAsFailure(t *testing.T) {
	collector := NewCollector()

	require.NoError(t, collector.RecordEvent(context.Background(), types.MetricEvent{
		Type:         types.MetricEventEndpointSwitch,
		Timestamp:    time.Now(),
		ToEndpoint:   "https://rpc2.example.com",
		SwitchReason: "fallback_attempt",
		ErrorMessage: "connection refused",
	}))
	require.NoError(t, collector.RecordEvent(context.Background(), types.MetricEvent{
		Type:         types.MetricEventError,
		Timestamp:    time.Now(),
		ErrorType:    "fallback_all_failed",
		ErrorMessage: "all endpoints failed, last error: connection refused",
	}))

	snapshot := collector.GetSnapshot()
	assert.Equal(t, int64(1), snapshot.FailedRequests)
	require.Len(t, snapshot.Endpoints, 1)
	assert.Equal(t, int64(1), snapshot.Endpoints[0].Failures)
}

func TestCollector_Reset(t *testing.T) {
	collector := NewCollector()
	_ = collector.RecordEvent(context.Background(), types.MetricEvent{Type: types.MetricEventRequest, Timestamp: time.Now()})

	collector.Reset()

	snapshot := collector.GetSnapshot()
	assert.Equal(t, int64(0), snapshot.TotalRequests)
	assert.Empty(t, snapshot.Endpoints)
	assert.True(t, snapshot.FirstEventTime.IsZero())
}

func TestCollector_SnapshotMarshalsToJSON(t *testing.T) {
	collector := NewCollector()
	_ = collector.RecordEvent(context.Background(), types.MetricEvent{Type: types.MetricEventRequest, Timestamp: time.Now()})

	data, err := json.Marshal(collector.GetSnapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_requests":1`)
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = collector.RecordEvent(context.Background(), types.MetricEvent{
					Type:      types.MetricEventRequest,
					Timestamp: time.Now(),
				})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), collector.GetSnapshot().TotalRequests)
}
