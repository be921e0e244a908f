package cmd

import (
	"fmt"
	"strings"

	"github.com/oneconcern/pkgsync/pkg/core"
	"github.com/oneconcern/pkgsync/pkg/dlogger"
	"github.com/oneconcern/pkgsync/pkg/fetch"
	"github.com/oneconcern/pkgsync/pkg/metrics"
	"github.com/oneconcern/pkgsync/pkg/store"
	"github.com/oneconcern/pkgsync/pkg/store/bdgr"
	"github.com/oneconcern/pkgsync/pkg/store/instrumented"
	"github.com/oneconcern/pkgsync/pkg/store/memory"
	opentracing "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

const (
	badgerScheme = "badger://"
	memoryScheme = "memory://"
)

// openStore opens the store designated by a URI
func openStore(uri string, l *zap.Logger) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch {
	case strings.HasPrefix(uri, badgerScheme):
		s, err = bdgr.Open(strings.TrimPrefix(uri, badgerScheme))
	case strings.HasPrefix(uri, memoryScheme):
		s = memory.New()
	default:
		err = fmt.Errorf("unsupported store %q: expected %s or %s", uri, badgerScheme, memoryScheme)
	}
	if err != nil {
		return nil, err
	}
	return instrumented.New(opentracing.GlobalTracer(), l, s), nil
}

// storeOpener is patched during tests, to share a store across commands
var storeOpener = openStore

// newUploader builds an uploader from the configuration. The caller closes the store.
func newUploader() (*core.Uploader, *zap.Logger, error) {
	l, err := dlogger.GetLogger(config.LogLevel, dlogger.Console(true))
	if err != nil {
		return nil, nil, err
	}
	if config.Metrics {
		if err := initMetrics(l); err != nil {
			return nil, nil, err
		}
	}
	s, err := storeOpener(config.Store, l)
	if err != nil {
		return nil, nil, err
	}
	return core.New(s,
		core.Logger(l),
		core.PackagesRoot(config.Packages),
		core.Prefix(config.Prefix),
		core.Hostname(config.Hostname),
		core.Pace(config.Pace),
		core.Concurrency(config.Concurrency),
		core.WithMetrics(config.Metrics),
		core.WithFetcher(fetch.New(fetch.Logger(l), fetch.Tracer(opentracing.GlobalTracer()))),
	), l, nil
}

// flushMetrics is patched during tests
var flushMetrics = metrics.Flush

func closeStore(u *core.Uploader) {
	if u.MetricsEnabled() {
		flushMetrics()
	}
	if err := u.Store().Close(); err != nil {
		infoLogger.Println("cannot close store:", err)
	}
}

// closeAndExit closes the store, then reports the failure if any
func closeAndExit(u *core.Uploader, msg string, err error) {
	closeStore(u)
	if err != nil {
		wrapFatalln(msg, err)
	}
}
