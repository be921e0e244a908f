package metrics

import (
	"time"

	"go.opencensus.io/stats/view"
)

// Option for the metrics tree
type Option func(*settings)

// WithBasePath prefixes every registered metric, e.g. "pkgsync/core/usage/usageCount"
func WithBasePath(location string) Option {
	return func(m *settings) {
		m.basePath = location
	}
}

// WithExporter conveys metrics to some collector. Metrics are only kept in memory without one.
func WithExporter(exporter view.Exporter) Option {
	return func(m *settings) {
		if exporter != nil {
			m.exporter = flusher(exporter)
		}
	}
}

// WithReportingPeriod sets the interval between background exports.
// Periods shorter than a second are ignored: opencensus exports every 10s by default.
func WithReportingPeriod(d time.Duration) Option {
	return func(m *settings) {
		if d >= time.Second {
			m.period = d
		}
	}
}
