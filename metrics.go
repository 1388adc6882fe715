package propgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus (see cmd/propgod for such an implementation).
type MetricsCollector interface {
	// RecordBuild is called once after both indexes are built.
	// properties is the dataset size; the durations cover each index's
	// own build phase.
	RecordBuild(properties int, hashSet, postingList time.Duration)

	// RecordQuery is called after each query evaluation. results is the
	// size of the agreed result set; the durations cover each index's
	// own query routine. err is nil on success.
	RecordQuery(results int, hashSet, postingList time.Duration, err error)

	// RecordMismatch is called whenever the two index paths disagree on
	// a result set. This should never fire in a correct build.
	RecordMismatch()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, time.Duration)        {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, time.Duration, error) {}
func (NoopMetricsCollector) RecordMismatch()                                      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount            atomic.Int64
	QueryErrors           atomic.Int64
	HashSetTotalNanos     atomic.Int64
	PostingListTotalNanos atomic.Int64
	MismatchCount         atomic.Int64

	BuildProperties       atomic.Int64
	HashSetBuildNanos     atomic.Int64
	PostingListBuildNanos atomic.Int64
}

func (c *BasicMetricsCollector) RecordBuild(properties int, hashSet, postingList time.Duration) {
	c.BuildProperties.Store(int64(properties))
	c.HashSetBuildNanos.Store(int64(hashSet))
	c.PostingListBuildNanos.Store(int64(postingList))
}

func (c *BasicMetricsCollector) RecordQuery(results int, hashSet, postingList time.Duration, err error) {
	c.QueryCount.Add(1)
	if err != nil {
		c.QueryErrors.Add(1)
		return
	}
	c.HashSetTotalNanos.Add(int64(hashSet))
	c.PostingListTotalNanos.Add(int64(postingList))
}

func (c *BasicMetricsCollector) RecordMismatch() {
	c.MismatchCount.Add(1)
}

// AvgHashSetLatency returns the mean hash-set query latency so far.
func (c *BasicMetricsCollector) AvgHashSetLatency() time.Duration {
	n := c.QueryCount.Load() - c.QueryErrors.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.HashSetTotalNanos.Load() / n)
}

// AvgPostingListLatency returns the mean posting-list query latency so far.
func (c *BasicMetricsCollector) AvgPostingListLatency() time.Duration {
	n := c.QueryCount.Load() - c.QueryErrors.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.PostingListTotalNanos.Load() / n)
}

var _ MetricsCollector = (*NoopMetricsCollector)(nil)
var _ MetricsCollector = (*BasicMetricsCollector)(nil)
