package zaplog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExportView(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewExporter(zap.New(core))

	e.ExportView(&view.Data{
		View: &view.View{
			Name:        "pkgsync/core/usage/usageCount",
			Measure:     stats.Int64("pkgsync/core/usage/usageCount", "number of calls", stats.UnitDimensionless),
			Aggregation: view.Count(),
		},
		End: time.Now(),
		Rows: []*view.Row{
			{Tags: []tag.Tag{{Key: tag.MustNewKey("method"), Value: "Restart"}}, Data: &view.CountData{Value: 2}},
			{Data: &view.SumData{Value: 1.5}},
		},
	})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "metrics", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "pkgsync/core/usage/usageCount", fields["view"])
	assert.Equal(t, "Restart", fields["method"])
	assert.EqualValues(t, 2, fields["count"])
	assert.EqualValues(t, 1.5, entries[1].ContextMap()["sum"])
}
