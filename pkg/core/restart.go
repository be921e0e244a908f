package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/oneconcern/pkgsync/pkg/model"
	"go.uber.org/zap"
)

// Restart bounces the instances a package declares as dependent on its content.
func (u *Uploader) Restart(ctx context.Context, name string) (err error) {
	defer u.track(time.Now(), "Restart")(&err)

	desc, err := u.Descriptor(name)
	if err != nil {
		u.l.Error("cannot read package descriptor: no instance restarted", logPackage(name), logError(err))
		return nil
	}
	return u.RestartDependents(ctx, desc)
}

// RestartDependents bounces every enabled instance declared by a package in "restartAdapters":
// each instance is written back disabled, then enabled again.
//
// Entries with a dot designate instances, others designate all the instances of a package.
// Disabled instances are left untouched. Failures are logged and do not prevent other instances from being restarted.
func (u *Uploader) RestartDependents(ctx context.Context, desc *model.PackageDescriptor) error {
	refs := desc.RestartAdapters()
	if len(refs) == 0 {
		return nil
	}

	instances, result := u.resolveInstances(ctx, refs)

	g := newGroup(u.concurrency)
	for _, id := range instances {
		id := id
		g.Go(ctx, func(ctx context.Context) error {
			return u.bounce(ctx, id)
		})
	}
	return errors.Append(result, g.Wait())
}

// resolveInstances yields the deduplicated IDs of the instances designated by references, in order of appearance
func (u *Uploader) resolveInstances(ctx context.Context, refs []string) ([]string, error) {
	resolved := make([][]string, len(refs))
	var mx sync.Mutex

	g := newGroup(u.concurrency)
	for i, ref := range refs {
		if ref == "" {
			continue
		}
		if strings.Contains(ref, ".") {
			resolved[i] = []string{model.InstanceID(ref)}
			continue
		}
		i, ref := i, ref
		g.Go(ctx, func(ctx context.Context) error {
			ids, err := u.instancesOf(ctx, ref, "")
			if err != nil {
				u.l.Error("cannot list instances", logPackage(ref), logError(err))
				return err
			}
			mx.Lock()
			resolved[i] = ids
			mx.Unlock()
			return nil
		})
	}
	result := g.Wait()

	seen := make(map[string]struct{})
	instances := make([]string, 0, len(refs))
	for _, ids := range resolved {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			instances = append(instances, id)
		}
	}
	return instances, result
}

// instancesOf lists the IDs of the instances of a package, optionally restricted to those bound to a host
func (u *Uploader) instancesOf(ctx context.Context, name, host string) ([]string, error) {
	objs, err := u.listInstances(ctx, name, host)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(objs))
	for _, obj := range objs {
		ids = append(ids, obj.ID())
	}
	return ids, nil
}

func (u *Uploader) listInstances(ctx context.Context, name, host string) ([]model.Object, error) {
	start, end := model.InstancesRange(name)
	objs, err := u.store.ListObjects(ctx, start, end)
	if err != nil {
		return nil, status.ErrStoreIO.Wrap(err)
	}
	instances := make([]model.Object, 0, len(objs))
	for _, obj := range objs {
		if obj.Type() != model.TypeInstance {
			continue
		}
		if host != "" && obj.Host() != host {
			continue
		}
		instances = append(instances, obj)
	}
	return instances, nil
}

// bounce an enabled instance: two sequential writes, disabling then enabling it
func (u *Uploader) bounce(ctx context.Context, id string) error {
	l := u.l.With(zap.String("instance", id))

	obj, err := u.store.GetObject(ctx, id)
	if err != nil {
		l.Error("cannot read instance", logError(err))
		return status.ErrStoreIO.Wrap(err)
	}
	if !obj.Enabled() {
		return nil
	}

	obj.Common()["enabled"] = false
	u.stamp(obj)
	if _, err := u.store.SetObject(ctx, id, obj); err != nil {
		l.Error("cannot restart instance", logError(err))
		return status.ErrStoreIO.Wrap(err)
	}

	obj.Common()["enabled"] = true
	u.stamp(obj)
	if _, err := u.store.SetObject(ctx, id, obj); err != nil {
		l.Error("cannot re-enable instance", logError(err))
		return status.ErrStoreIO.Wrap(err)
	}

	l.Info("instance restarted")
	return nil
}
