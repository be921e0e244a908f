package core

import (
	"runtime"
	"time"

	"github.com/oneconcern/pkgsync/pkg/fetch"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option configures an Uploader
type Option func(*Uploader)

const (
	// DefaultPrefix of installed package directories, e.g. "iobroker.foo"
	DefaultPrefix = "iobroker"

	// DefaultPackagesRoot is where installed packages are searched for
	DefaultPackagesRoot = "node_modules"

	descriptorCacheSize = 64
)

var (
	defaultConcurrency = 2 * runtime.NumCPU()
)

// Logger sets the logger. It defaults to a no-op logger.
func Logger(l *zap.Logger) Option {
	return func(u *Uploader) {
		if l != nil {
			u.l = l
		}
	}
}

// Fs sets the filesystem holding installed packages. It defaults to the OS filesystem.
func Fs(fs afero.Fs) Option {
	return func(u *Uploader) {
		if fs != nil {
			u.fs = fs
		}
	}
}

// PackagesRoot sets the directory holding installed packages. It defaults to "node_modules".
func PackagesRoot(root string) Option {
	return func(u *Uploader) {
		u.packagesRoot = root
	}
}

// WithLocator overrides how package directories are found.
// When set, PackagesRoot is ignored.
func WithLocator(loc Locator) Option {
	return func(u *Uploader) {
		u.locator = loc
	}
}

// WithFetcher sets the collaborator used to retrieve remote sources
func WithFetcher(f fetch.Fetcher) Option {
	return func(u *Uploader) {
		if f != nil {
			u.fetcher = f
		}
	}
}

// Hostname of the current host: only instances bound to this host are upgraded
func Hostname(h string) Option {
	return func(u *Uploader) {
		u.hostname = h
	}
}

// Prefix sets the application prefix of package directories. It defaults to "iobroker".
func Prefix(p string) Option {
	return func(u *Uploader) {
		if p != "" {
			u.prefix = p
		}
	}
}

// Pace inserts a delay between consecutive attachment writes. It defaults to no delay.
func Pace(d time.Duration) Option {
	return func(u *Uploader) {
		u.pace = d
	}
}

// Concurrency sets the max level of concurrency of fan-out operations. It defaults to 2 x #cpus.
func Concurrency(n int) Option {
	return func(u *Uploader) {
		if n <= 0 {
			u.concurrency = defaultConcurrency
			return
		}
		u.concurrency = n
	}
}

// Clock sets the time source used for stamping objects and throttling progress updates
func Clock(now func() time.Time) Option {
	return func(u *Uploader) {
		if now != nil {
			u.now = now
		}
	}
}

// WithMetrics toggles the collection of metrics
func WithMetrics(enabled bool) Option {
	return func(u *Uploader) {
		u.EnableMetrics(enabled)
	}
}
