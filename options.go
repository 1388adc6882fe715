package propgo

import (
	"github.com/propgo/propgo/index"
)

type options struct {
	buckets       index.Buckets
	logger        *Logger
	metrics       MetricsCollector
	parallelBuild bool
}

// Option configures engine construction.
//
// Options exist mainly to avoid exploding the constructor surface; the
// zero-option call New(store) builds with defaults.
type Option func(*options)

// WithBuckets configures the bucket widths used to discretize range
// attributes (price, year built). Both indexes must be built with the same
// bucketing, so this is fixed at construction time.
func WithBuckets(b index.Buckets) Option {
	return func(o *options) {
		o.buckets = b
	}
}

// WithLogger configures the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures metrics collection.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithParallelBuild controls whether the two indexes are built
// concurrently. The build is externally synchronous either way; this only
// overlaps the two single-pass build phases. Enabled by default.
func WithParallelBuild(enabled bool) Option {
	return func(o *options) {
		o.parallelBuild = enabled
	}
}

func defaultOptions() options {
	return options{
		buckets:       index.DefaultBuckets(),
		logger:        NoopLogger(),
		metrics:       NoopMetricsCollector{},
		parallelBuild: true,
	}
}
