package core

import (
	"context"
	"fmt"
	"time"

	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/oneconcern/pkgsync/pkg/model"
	storestatus "github.com/oneconcern/pkgsync/pkg/store/status"
	"go.uber.org/zap"
)

// UpgradeObjects applies the descriptor of a package to the stored objects:
// the package object is overwritten, the instances bound to this host get the declared settings merged in,
// and auxiliary objects are upserted.
//
// When desc is nil, the descriptor is loaded from the package directory.
func (u *Uploader) UpgradeObjects(ctx context.Context, name string, desc *model.PackageDescriptor) (err error) {
	defer u.track(time.Now(), "UpgradeObjects")(&err)

	l := u.l.With(logPackage(name))

	if desc == nil {
		desc, err = u.Descriptor(name)
		if err != nil {
			l.Error("cannot find package descriptor", logError(err))
			return err
		}
	}

	id := model.AdapterID(name)
	obj, err := u.store.GetObject(ctx, id)
	if err != nil {
		l.Error("package object does not exist", zap.String("id", id), logError(err))
		if errors.Is(err, storestatus.ErrNotFound) {
			return status.ErrPackageNotFound.Wrap(err)
		}
		return status.ErrStoreIO.Wrap(err)
	}

	var result error
	obj.SetCommon(model.CopyMap(desc.Common))
	obj.SetNative(model.CopyMap(desc.Native))
	if version := desc.Version(); version != "" {
		obj.Common()["installedVersion"] = version
	}
	u.stamp(obj)
	if _, err := u.store.SetObject(ctx, id, obj); err != nil {
		l.Error("cannot update package object", logError(err))
		result = errors.Append(result, status.ErrStoreIO.Wrap(err))
	}

	return errors.Append(result, u.upgradeInstances(ctx, name, desc))
}

// upgradeInstances merges the declared settings into all instances on this host, and upserts auxiliary objects.
// Both sets of writes run concurrently in a single group.
func (u *Uploader) upgradeInstances(ctx context.Context, name string, desc *model.PackageDescriptor) error {
	l := u.l.With(logPackage(name))
	g := newGroup(u.concurrency)

	instances, listErr := u.instancesOf(ctx, name, u.hostname)
	if listErr != nil {
		l.Error("cannot list instances", logError(listErr))
	}
	for _, id := range instances {
		id := id
		g.Go(ctx, func(ctx context.Context) error {
			return u.upgradeInstance(ctx, id, desc)
		})
	}

	for _, aux := range desc.Objects {
		aux := aux
		g.Go(ctx, func(ctx context.Context) error {
			return u.upsertObject(ctx, aux)
		})
	}

	return errors.Append(listErr, g.Wait())
}

// upgradeInstance merges the declared settings into one instance. Unchanged instances are not written.
func (u *Uploader) upgradeInstance(ctx context.Context, id string, desc *model.PackageDescriptor) error {
	l := u.l.With(zap.String("instance", id))

	current, err := u.store.GetObject(ctx, id)
	if err != nil {
		l.Error("cannot read instance", logError(err))
		return status.ErrStoreIO.Wrap(err)
	}

	merged := current.Clone()
	common := MergeCommon(merged.Common(), desc.Common, model.InstanceSuffix(id))
	merged.SetCommon(common)
	merged.SetNative(MergeNative(merged.Native(), desc.Native))
	if version := desc.Version(); version != "" {
		common["installedVersion"] = version
		common["version"] = version
	} else {
		delete(common, "installedVersion")
		delete(common, "version")
	}

	if merged.Equal(current) {
		l.Debug("instance up to date")
		return nil
	}

	l.Info("updating instance")
	u.stamp(merged)
	if _, err := u.store.SetObject(ctx, id, merged); err != nil {
		l.Error("cannot update instance", logError(err))
		return status.ErrStoreIO.Wrap(err)
	}

	def, hasDefault := common["def"]
	if !hasDefault || def == nil {
		return nil
	}
	_, err = u.store.GetState(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storestatus.ErrNotFound):
		if err := u.store.SetState(ctx, id, model.State{
			Val: model.CopyValue(def),
			Ack: true,
			Q:   model.QualitySubstituted,
		}); err != nil {
			l.Error("cannot set default state", logError(err))
			return status.ErrStoreIO.Wrap(err)
		}
		return nil
	default:
		l.Error("cannot read instance state", logError(err))
		return status.ErrStoreIO.Wrap(err)
	}
}

// upsertObject writes an auxiliary object declared by a package
func (u *Uploader) upsertObject(ctx context.Context, declared model.Object) error {
	id := declared.ID()
	if id == "" {
		err := status.ErrDescriptor.Wrap(fmt.Errorf("auxiliary object without _id"))
		u.l.Error("cannot update object", logError(err))
		return err
	}

	obj := declared.Clone()
	u.stamp(obj)
	if _, err := u.store.SetObject(ctx, id, obj); err != nil {
		u.l.Error("cannot update object", zap.String("id", id), logError(err))
		return status.ErrStoreIO.Wrap(err)
	}
	return nil
}
