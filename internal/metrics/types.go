// internal/metrics/types.go
package metrics

import (
	"math"
	"time"
)

// EndpointMetrics is the aggregated call history of a single endpoint.
type EndpointMetrics struct {
	Endpoint       string           `json:"endpoint"`
	LastUpdatedUTC time.Time        `json:"last_updated_utc"`
	TotalRequests  int64            `json:"total_requests"`
	Failures       int64            `json:"failures"`
	StatusBuckets  map[string]int64 `json:"status_buckets"`
	LatencyMillis  RunningStat      `json:"latency_ms"`
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"-"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// StdDev returns the sample standard deviation, or 0 with fewer than two samples.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}
