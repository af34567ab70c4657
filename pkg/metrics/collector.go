// Package metrics provides an in-memory implementation of
// types.MetricsCollector. It aggregates per-strategy and per-endpoint
// counters from the events strategies emit and exposes point-in-time
// snapshots that serialize directly to JSON.
package metrics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/blockpilot/rpckit/pkg/types"
)

// Collector is a thread-safe in-memory metrics collector.
// The zero value is not usable; create one with NewCollector.
type Collector struct {
	mu sync.RWMutex

	totalRequests      int64
	successfulRequests int64
	failedRequests     int64
	totalLatency       time.Duration

	endpointSwitches int64

	// Per-endpoint attempt counters, keyed by endpoint URL
	endpoints map[string]*endpointCounters

	firstEventTime time.Time
	lastEventTime  time.Time
}

type endpointCounters struct {
	switchesTo    int64
	failures      int64
	totalLatency  time.Duration
	lastAttemptAt time.Time
}

// EndpointSnapshot is a point-in-time copy of one endpoint's counters.
type EndpointSnapshot struct {
	URL           string        `json:"url"`
	SwitchesTo    int64         `json:"switches_to"`
	Failures      int64         `json:"failures"`
	TotalLatency  time.Duration `json:"total_latency"`
	LastAttemptAt time.Time     `json:"last_attempt_at"`
}

// Snapshot is a point-in-time copy of all aggregated metrics.
type Snapshot struct {
	TotalRequests      int64              `json:"total_requests"`
	SuccessfulRequests int64              `json:"successful_requests"`
	FailedRequests     int64              `json:"failed_requests"`
	AverageLatency     time.Duration      `json:"average_latency"`
	EndpointSwitches   int64              `json:"endpoint_switches"`
	Endpoints          []EndpointSnapshot `json:"endpoints"`
	FirstEventTime     time.Time          `json:"first_event_time"`
	LastEventTime      time.Time          `json:"last_event_time"`
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		endpoints: make(map[string]*endpointCounters),
	}
}

// RecordEvent implements types.MetricsCollector.
func (c *Collector) RecordEvent(_ context.Context, event types.MetricEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.firstEventTime.IsZero() {
		c.firstEventTime = event.Timestamp
	}
	c.lastEventTime = event.Timestamp

	switch event.Type {
	case types.MetricEventRequest:
		c.totalRequests++

	case types.MetricEventSuccess:
		c.successfulRequests++
		c.totalLatency += event.Latency

	case types.MetricEventError:
		c.failedRequests++

	case types.MetricEventEndpointSwitch:
		c.endpointSwitches++
		ep := c.endpoint(event.ToEndpoint)
		ep.switchesTo++
		ep.totalLatency += event.Latency
		ep.lastAttemptAt = event.Timestamp
		if event.ErrorMessage != "" {
			ep.failures++
		}
	}

	return nil
}

// GetSnapshot returns a copy of the aggregated metrics. The snapshot does
// not change after being returned and marshals to JSON directly; endpoint
// entries are sorted by URL for stable output.
func (c *Collector) GetSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := Snapshot{
		TotalRequests:      c.totalRequests,
		SuccessfulRequests: c.successfulRequests,
		FailedRequests:     c.failedRequests,
		EndpointSwitches:   c.endpointSwitches,
		FirstEventTime:     c.firstEventTime,
		LastEventTime:      c.lastEventTime,
	}
	if c.successfulRequests > 0 {
		snapshot.AverageLatency = c.totalLatency / time.Duration(c.successfulRequests)
	}

	snapshot.Endpoints = make([]EndpointSnapshot, 0, len(c.endpoints))
	for url, ep := range c.endpoints {
		snapshot.Endpoints = append(snapshot.Endpoints, EndpointSnapshot{
			URL:           url,
			SwitchesTo:    ep.switchesTo,
			Failures:      ep.failures,
			TotalLatency:  ep.totalLatency,
			LastAttemptAt: ep.lastAttemptAt,
		})
	}
	sort.Slice(snapshot.Endpoints, func(i, j int) bool {
		return snapshot.Endpoints[i].URL < snapshot.Endpoints[j].URL
	})

	return snapshot
}

// Reset clears all counters.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests = 0
	c.successfulRequests = 0
	c.failedRequests = 0
	c.totalLatency = 0
	c.endpointSwitches = 0
	c.endpoints = make(map[string]*endpointCounters)
	c.firstEventTime = time.Time{}
	c.lastEventTime = time.Time{}
}

// endpoint returns the counters for url, creating them on first use.
// Callers must hold c.mu.
func (c *Collector) endpoint(url string) *endpointCounters {
	ep, ok := c.endpoints[url]
	if !ok {
		ep = &endpointCounters{}
		c.endpoints[url] = ep
	}
	return ep
}
