// Package zaplog exports opencensus views as log entries
package zaplog

import (
	"go.opencensus.io/stats/view"
	"go.uber.org/zap"
)

var _ view.Exporter = &Exporter{}

// Exporter logs view data at the debug level
type Exporter struct {
	l *zap.Logger
}

// NewExporter builds an exporter writing to some logger
func NewExporter(l *zap.Logger) *Exporter {
	if l == nil {
		l = zap.NewNop()
	}
	return &Exporter{l: l.Named("metrics")}
}

// ExportView logs one entry per row
func (e *Exporter) ExportView(viewData *view.Data) {
	for _, row := range viewData.Rows {
		fields := make([]zap.Field, 0, len(row.Tags)+2)
		fields = append(fields, zap.String("view", viewData.View.Name))
		for _, t := range row.Tags {
			fields = append(fields, zap.String(t.Key.Name(), t.Value))
		}
		switch d := row.Data.(type) {
		case *view.CountData:
			fields = append(fields, zap.Int64("count", d.Value))
		case *view.SumData:
			fields = append(fields, zap.Float64("sum", d.Value))
		case *view.LastValueData:
			fields = append(fields, zap.Float64("last", d.Value))
		case *view.DistributionData:
			fields = append(fields, zap.Int64("count", d.Count), zap.Float64("mean", d.Mean), zap.Float64("max", d.Max))
		}
		e.l.Debug("metric", fields...)
	}
}
