package core

import (
	"time"

	"github.com/oneconcern/pkgsync/pkg/metrics"
)

// M describes metrics for the core package
type M struct {
	Content struct {
		Attachments metrics.FilesMetrics `group:"attachments" description:"metrics about package content"`
	} `group:"content" description:""`
	Usage metrics.UsageMetrics `group:"usage" description:"usage stats for the core package"`
}

// track records the usage of an entry point, once its outcome is known
func (u *Uploader) track(start time.Time, method string) func(*error) {
	return func(err *error) {
		if u.MetricsEnabled() {
			u.m.Usage.UsedAll(start, method)(*err)
		}
	}
}

func (u *Uploader) recordFile(operation string, size int) {
	if !u.MetricsEnabled() {
		return
	}
	u.m.Content.Attachments.Inc(operation)
	u.m.Content.Attachments.Size(int64(size), operation)
}
