package influxdb

import (
	"context"
	"fmt"
	"strings"

	"go.opencensus.io/stats/view"
)

var _ view.Exporter = &Exporter{}

const (
	// opencensus view metadata, as influxdb tags
	descriptionTag = "description"
	unitTag        = "unit"
	groupingTag    = "grouping"
	aggregationTag = "aggregation"

	// opencensus view data, as influxdb fields
	startField       = "start"
	observationField = "observationPeriod"
	valueField       = "value"
	minField         = "min"
	maxField         = "max"
	meanField        = "mean"
	countField       = "count"
)

// Exporter is an opencensus exporter for influxdb
type Exporter struct {
	store        Store
	errorHandler func(error)
	customTags   map[string]string
}

// NewExporter creates an exporter writing to some influxdb store.
//
// Errors are ignored unless an error handler is configured.
func NewExporter(store Store, opts ...Option) *Exporter {
	e := &Exporter{
		store:        store,
		errorHandler: func(_ error) {},
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// ExportView sends collected metrics to the store, as a single batch of points
func (e *Exporter) ExportView(viewData *view.Data) {
	points, err := e.points(viewData)
	if err != nil {
		e.errorHandler(err)
		return
	}
	if len(points) == 0 {
		return
	}
	if err := e.store.WriteBatch(context.Background(), points); err != nil {
		e.errorHandler(err)
	}
}

func (e *Exporter) points(viewData *view.Data) ([]MetricPoint, error) {
	points := make([]MetricPoint, 0, len(viewData.Rows))
	for _, row := range viewData.Rows {
		fields := map[string]interface{}{
			startField:       viewData.Start,
			observationField: int64(viewData.End.Sub(viewData.Start)),
		}
		tags := make(map[string]string, len(e.customTags)+len(row.Tags)+4)
		if viewData.View.Description != "" {
			tags[descriptionTag] = viewData.View.Description
		}
		tags[unitTag] = viewData.View.Measure.Unit()
		if keys := viewData.View.TagKeys; len(keys) > 0 {
			names := make([]string, 0, len(keys))
			for _, k := range keys {
				names = append(names, strings.ToLower(k.Name()))
			}
			tags[groupingTag] = strings.Join(names, ",")
		}

		switch d := row.Data.(type) {
		case *view.CountData:
			fields[valueField] = float64(d.Value)
			tags[aggregationTag] = "count"
		case *view.DistributionData:
			fields[minField] = d.Min
			fields[maxField] = d.Max
			fields[meanField] = d.Mean
			fields[countField] = d.Count
			tags[aggregationTag] = "distribution"
		case *view.LastValueData:
			fields[valueField] = d.Value
			tags[aggregationTag] = "last"
		case *view.SumData:
			fields[valueField] = d.Value
			tags[aggregationTag] = "sum"
		default:
			return nil, fmt.Errorf("unknown AggregationData type: %T", row.Data)
		}

		for k, v := range e.customTags {
			tags[k] = v
		}
		for _, t := range row.Tags {
			tags[t.Key.Name()] = t.Value
		}

		points = append(points, MetricPoint{
			Measurement: viewData.View.Name,
			Tags:        tags,
			Fields:      fields,
			Timestamp:   viewData.End,
		})
	}
	return points, nil
}

