// internal/metrics/aggregator.go

// Package metrics keeps in-process statistics about outbound API calls.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Aggregator collects per-endpoint call metrics. It is safe for concurrent use.
type Aggregator struct {
	mutex   sync.Mutex
	metrics map[string]*EndpointMetrics
	now     func() time.Time
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		metrics: make(map[string]*EndpointMetrics),
		now:     time.Now,
	}
}

// Record adds one finished call. status is 0 when no HTTP response arrived.
func (a *Aggregator) Record(endpoint string, status int, success bool, elapsed time.Duration) {
	if a == nil {
		return
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()

	m, exists := a.metrics[endpoint]
	if !exists {
		m = &EndpointMetrics{
			Endpoint:      endpoint,
			StatusBuckets: make(map[string]int64),
		}
		a.metrics[endpoint] = m
	}

	m.LastUpdatedUTC = a.now().UTC()
	m.TotalRequests++
	if !success {
		m.Failures++
	}
	m.StatusBuckets[getBucket(status)]++
	updateRunningStat(&m.LatencyMillis, float64(elapsed)/float64(time.Millisecond))
}

// Snapshot returns a copy of the metrics for endpoint.
func (a *Aggregator) Snapshot(endpoint string) (EndpointMetrics, bool) {
	if a == nil {
		return EndpointMetrics{}, false
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	m, ok := a.metrics[endpoint]
	if !ok {
		return EndpointMetrics{}, false
	}
	return copyMetrics(m), true
}

// All returns a copy of every endpoint's metrics, sorted by endpoint key.
func (a *Aggregator) All() []EndpointMetrics {
	if a == nil {
		return nil
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	out := make([]EndpointMetrics, 0, len(a.metrics))
	for _, m := range a.metrics {
		out = append(out, copyMetrics(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

func copyMetrics(m *EndpointMetrics) EndpointMetrics {
	c := *m
	c.StatusBuckets = make(map[string]int64, len(m.StatusBuckets))
	for k, v := range m.StatusBuckets {
		c.StatusBuckets[k] = v
	}
	return c
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// getBucket groups an HTTP status by class; 0 means the call never got a response.
func getBucket(status int) string {
	switch {
	case status == 0:
		return "transport"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
