package cmd

import (
	"time"

	"github.com/oneconcern/pkgsync/pkg/metrics"
	"github.com/oneconcern/pkgsync/pkg/metrics/exporters/influxdb"
	"github.com/oneconcern/pkgsync/pkg/metrics/exporters/zaplog"
	"go.opencensus.io/stats/view"
	"go.uber.org/zap"
)

const metricsWriteTimeout = 5 * time.Second

// initMetrics sets up the export of metrics: to an influxdb backend when an URL is configured, to the log otherwise
func initMetrics(l *zap.Logger) error {
	var exporter view.Exporter = zaplog.NewExporter(l)
	if config.MetricsURL != "" {
		sink, err := influxdb.NewStore(
			influxdb.WithURL(config.MetricsURL),
			influxdb.WithTimeout(metricsWriteTimeout),
			influxdb.WithNameAsTag("metrics"),
		)
		if err != nil {
			return err
		}
		exporter = influxdb.NewExporter(sink,
			influxdb.WithTags(map[string]string{"service": "pkgsync", "host": config.Hostname}),
			influxdb.WithErrorHandler(func(err error) {
				l.Warn("cannot export metrics", zap.Error(err))
			}),
		)
	}
	metrics.Init(
		metrics.WithBasePath("pkgsync"),
		metrics.WithExporter(exporter),
		metrics.WithReportingPeriod(config.MetricsPeriod),
	)
	return nil
}
