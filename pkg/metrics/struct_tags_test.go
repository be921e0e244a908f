package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats"
)

func TestStructTags(t *testing.T) {
	s := newSettings()
	m := &exampleMetrics{}

	scanStruct("parent", s.addMetric, m)

	assert.Nil(t, m.Telemetry.Skipped)
	assert.Nil(t, m.Telemetry.Failures)

	require.NotNil(t, m.Telemetry.TestCount)
	assert.Equal(t, "parent/telemetry/testCount", m.Telemetry.TestCount.Name())
	require.NotNil(t, m.Content.Attachments.FileCount)
	assert.Equal(t, "parent/content/attachments/fileCount", m.Content.Attachments.FileCount.Name())
	assert.NotNil(t, m.Content.Attachments.FileSize)
	require.NotNil(t, m.Usage)
	assert.NotNil(t, m.Usage.Count)
	assert.NotNil(t, m.Usage.Failures)

	require.NotNil(t, m.Usage.Timing)
	assert.IsType(t, &stats.Float64Measure{}, m.Usage.Timing)
	assert.Equal(t, stats.UnitMilliseconds, m.Usage.Timing.Unit())

	// 6 measures: 6 default views, plus sum views on the file metrics
	assert.Len(t, s.allMetrics, 6)
	assert.Len(t, s.allViews, 8)
}

func TestScanStructRequiresPointer(t *testing.T) {
	s := newSettings()
	assert.Panics(t, func() {
		scanStruct("parent", s.addMetric, exampleMetrics{})
	})
}
