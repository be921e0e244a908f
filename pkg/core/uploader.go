package core

import (
	"context"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/oneconcern/pkgsync/pkg/fetch"
	"github.com/oneconcern/pkgsync/pkg/metrics"
	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/oneconcern/pkgsync/pkg/store"
	storestatus "github.com/oneconcern/pkgsync/pkg/store/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Uploader synchronizes installed packages into a store:
// static content trees become attachments of container objects,
// declared settings are merged into the package and instance objects.
type Uploader struct {
	metrics.Enable
	m *M

	store   store.Store
	fs      afero.Fs
	l       *zap.Logger
	locator Locator
	fetcher fetch.Fetcher

	packagesRoot string
	hostname     string
	prefix       string
	pace         time.Duration
	concurrency  int
	now          func() time.Time

	mapper      PathMapper
	descriptors *lru.Cache[string, *model.PackageDescriptor]
}

// New Uploader working against some store
func New(s store.Store, opts ...Option) *Uploader {
	u := &Uploader{
		store:        s,
		fs:           afero.NewOsFs(),
		l:            zap.NewNop(),
		packagesRoot: DefaultPackagesRoot,
		prefix:       DefaultPrefix,
		concurrency:  defaultConcurrency,
		now:          time.Now,
	}
	for _, apply := range opts {
		apply(u)
	}

	if u.MetricsEnabled() {
		u.m = u.EnsureMetrics("core", &M{}).(*M)
	}

	if u.locator == nil {
		u.locator = DirLocator{Root: u.packagesRoot, Prefix: u.prefix}
	}
	if u.fetcher == nil {
		u.fetcher = fetch.New(fetch.Logger(u.l))
	}
	u.mapper = PathMapper{Prefix: u.prefix}
	u.descriptors, _ = lru.New[string, *model.PackageDescriptor](descriptorCacheSize)
	return u
}

// Store the uploader works against
func (u *Uploader) Store() store.Store {
	return u.store
}

// UploadFull uploads the admin tree, upgrades the objects then uploads the www tree of each package.
//
// Packages are processed last to first. A failing package does not prevent the next ones from being processed.
func (u *Uploader) UploadFull(ctx context.Context, names []string) error {
	var result error
	for i := len(names) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return errors.Append(result, err)
		}
		name := names[i]
		l := u.l.With(logPackage(name))

		if err := u.UploadPackage(ctx, name, true, true, ""); err != nil {
			l.Error("admin upload failed", logError(err))
			result = errors.Append(result, err)
		}
		if err := u.UpgradeObjects(ctx, name, nil); err != nil {
			l.Error("upgrade failed", logError(err))
			result = errors.Append(result, err)
		}
		if err := u.UploadPackage(ctx, name, false, true, ""); err != nil {
			l.Error("www upload failed", logError(err))
			result = errors.Append(result, err)
		}
	}
	return result
}

// UploadPackage synchronizes the www (or admin) tree of a package into its container object.
//
// An existing container is left untouched unless force is set. Subtree narrows the scan to
// a subdirectory of the tree.
func (u *Uploader) UploadPackage(ctx context.Context, name string, admin, force bool, subtree string) (err error) {
	defer u.track(time.Now(), "UploadPackage")(&err)

	containerID := model.ContainerID(name, admin)
	l := u.l.With(logPackage(name), zap.String("container", containerID))

	desc := u.optionalDescriptor(name)
	if !admin {
		if desc.WWWDontUpload() {
			l.Info("package content marked for no upload")
			return nil
		}
		if name == model.AdminPackage {
			l.Warn("refusing to upload the www tree of the admin package")
			return nil
		}
	}

	var result error
	if !admin {
		// the progress indicator is informational: failing to reset it does not prevent the upload
		if err := u.ensureProgressObject(ctx, name); err != nil {
			l.Warn("cannot reset upload progress", logError(err))
			result = errors.Append(result, err)
		}
	}

	// directories go away with their last file
	files, _ := u.Erase(ctx, desc.EraseOnUpload(), containerID)
	result = errors.Append(result, u.EraseFiles(ctx, containerID, files))

	root := filepath.Join(u.locator.PackageDir(name), model.TreeDir(admin))
	if subtree != "" {
		root = filepath.Join(root, filepath.FromSlash(subtree))
	}
	local := u.Scan(root)

	container, err := u.store.GetObject(ctx, containerID)
	switch {
	case err == nil:
		if !force {
			l.Info("content already uploaded")
			return result
		}
	case errors.Is(err, storestatus.ErrNotFound):
		container, err = u.createContainer(ctx, containerID, admin)
		if err != nil {
			return errors.Append(result, err)
		}
	default:
		return errors.Append(result, status.ErrStoreIO.Wrap(err))
	}

	if !admin {
		result = errors.Append(result, u.RestartDependents(ctx, desc))
	}

	l.Info("uploading content", zap.Int("files", len(local)), zap.String("root", root))
	return errors.Append(result, u.Upload(ctx, name, admin, local, containerID, container.Revision()))
}

func (u *Uploader) createContainer(ctx context.Context, containerID string, admin bool) (model.Object, error) {
	container := model.NewObject(containerID, model.TypeMeta)
	container.Common()["name"] = model.ContainerName(containerID)
	container.Common()["type"] = model.ContentType(admin)
	u.stamp(container)

	rev, err := u.store.SetObject(ctx, containerID, container)
	if err != nil {
		return nil, status.ErrStoreIO.Wrap(err)
	}
	container.SetRevision(rev)
	return container, nil
}

func (u *Uploader) ensureProgressObject(ctx context.Context, name string) error {
	id := model.UploadStateID(name)
	_, err := u.store.GetObject(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, storestatus.ErrNotFound):
		obj := model.NewObject(id, model.TypeState)
		obj.SetCommon(map[string]interface{}{
			"name":  name + ".upload",
			"type":  "number",
			"role":  "indicator.state",
			"unit":  "%",
			"def":   0,
			"desc":  "Upload process indicator",
			"read":  true,
			"write": false,
		})
		u.stamp(obj)
		if _, err := u.store.SetObject(ctx, id, obj); err != nil {
			return status.ErrStoreIO.Wrap(err)
		}
	default:
		return status.ErrStoreIO.Wrap(err)
	}

	if err := u.store.SetState(ctx, id, model.State{Val: 0, Ack: true}); err != nil {
		return status.ErrStoreIO.Wrap(err)
	}
	return nil
}

// stamp records this host as the origin of a write
func (u *Uploader) stamp(obj model.Object) {
	obj.Stamp(model.HostOrigin(u.hostname), u.now())
}

func logPackage(name string) zap.Field {
	return zap.String("package", name)
}

func logError(err error) zap.Field {
	return zap.Error(err)
}
