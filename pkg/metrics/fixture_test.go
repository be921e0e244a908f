package metrics

import "go.opencensus.io/stats"

type exampleMetrics struct {
	Telemetry struct {
		Skipped   []FilesMetrics        `group:"skipped"` // ignored
		Failures  []*stats.Int64Measure `group:"failures"` // ignored
		TestCount *stats.Int64Measure   `metric:"testCount" description:"number of tests"`
	} `group:"telemetry"`
	Content struct {
		Attachments FilesMetrics `group:"attachments"`
	} `group:"content"`
	Usage *UsageMetrics `group:"usage"`
}

func (e *exampleMetrics) IncTest() {
	Inc(e.Telemetry.TestCount, map[string]string{"kind": "test"})
}
