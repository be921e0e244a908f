package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooDescriptor = `{
  "common": {
    "name": "foo",
    "version": "1.1.0",
    "enabled": true,
    "loglevel": "info",
    "dataFolder": "foo.%INSTANCE%",
    "def": 42
  },
  "native": {
    "port": 8080,
    "auth": {"user": "admin"}
  },
  "objects": [
    {"_id": "_design/foo", "type": "design", "views": {"all": {"map": "function(doc) {}"}}}
  ]
}`

func TestUpgradeObjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.installPackage(t, "foo", fooDescriptor, nil)

	pkg := model.NewObject("system.adapter.foo", model.TypeAdapter)
	pkg.Common()["version"] = "1.0.0"
	pkg.Common()["obsolete"] = true
	f.seed(t, pkg)

	inst := instance("system.adapter.foo.0", false, testHost)
	inst.Common()["loglevel"] = "debug"
	inst.Common()["version"] = "1.0.0"
	inst.Native()["port"] = 1234
	f.seed(t, inst)
	f.seed(t, instance("system.adapter.foo.1", true, "elsewhere"))

	require.NoError(t, f.u.UpgradeObjects(ctx, "foo", nil))

	got, err := f.store.Store.GetObject(ctx, "system.adapter.foo")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", got.Common()["installedVersion"])
	assert.NotContains(t, got.Common(), "obsolete", "package settings are replaced wholesale")
	assert.Equal(t, model.HostOrigin(testHost), got["from"])

	got, err = f.store.Store.GetObject(ctx, "system.adapter.foo.0")
	require.NoError(t, err)
	common := got.Common()
	assert.Equal(t, false, common["enabled"])
	assert.Equal(t, "debug", common["loglevel"])
	assert.Equal(t, "1.1.0", common["version"])
	assert.Equal(t, "1.1.0", common["installedVersion"])
	assert.Equal(t, "foo.0", common["dataFolder"])
	assert.Equal(t, 1234, got.Native()["port"])
	assert.Equal(t, map[string]interface{}{"user": "admin"}, got.Native()["auth"])

	st, err := f.store.Store.GetState(ctx, "system.adapter.foo.0")
	require.NoError(t, err)
	assert.Equal(t, 42.0, st.Val)
	assert.True(t, st.Ack)
	assert.Equal(t, model.QualitySubstituted, st.Q)

	other, err := f.store.Store.GetObject(ctx, "system.adapter.foo.1")
	require.NoError(t, err)
	assert.NotContains(t, other.Common(), "version", "instances of other hosts are left untouched")

	design, err := f.store.Store.GetObject(ctx, "_design/foo")
	require.NoError(t, err)
	assert.Equal(t, "design", design.Type())
	assert.Equal(t, model.HostOrigin(testHost), design["from"])

	desc, err := f.u.Descriptor("foo")
	require.NoError(t, err)
	assert.NotContains(t, desc.Objects[0], "from", "the descriptor is never modified")
	assert.Equal(t, "foo.%INSTANCE%", desc.Common["dataFolder"])
}

func TestUpgradeUnchangedInstance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.installPackage(t, "foo", `{"common":{"name":"foo","version":"1.1.0","enabled":true},"native":{"port":8080}}`, nil)
	f.seed(t, model.NewObject("system.adapter.foo", model.TypeAdapter))

	inst := instance("system.adapter.foo.0", false, testHost)
	inst.Common()["name"] = "foo"
	inst.Common()["version"] = "1.1.0"
	inst.Common()["installedVersion"] = "1.1.0"
	inst.Native()["port"] = 9090.0
	f.seed(t, inst)

	require.NoError(t, f.u.UpgradeObjects(ctx, "foo", nil))

	writes := f.store.ops("SetObject")
	require.Len(t, writes, 1, "only the package object is written")
	assert.Equal(t, "system.adapter.foo", writes[0].ID)
	assert.Empty(t, f.store.ops("GetState", "SetState"), "state defaults are untouched")
}

func TestUpgradeProvidedDescriptor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, model.NewObject("system.adapter.foo", model.TypeAdapter))
	desc, err := model.ParseDescriptor([]byte(`{"common":{"name":"foo","version":"2.0.0"}}`))
	require.NoError(t, err)

	require.NoError(t, f.u.UpgradeObjects(context.Background(), "foo", desc))
	got, err := f.store.Store.GetObject(context.Background(), "system.adapter.foo")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", got.Common()["installedVersion"])
}

func TestUpgradeExistingStateKept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.installPackage(t, "foo", fooDescriptor, nil)
	f.seed(t, model.NewObject("system.adapter.foo", model.TypeAdapter))
	f.seed(t, instance("system.adapter.foo.0", true, testHost))
	require.NoError(t, f.store.Store.SetState(ctx, "system.adapter.foo.0", model.State{Val: 7.0, Ack: true}))

	require.NoError(t, f.u.UpgradeObjects(ctx, "foo", nil))

	st, err := f.store.Store.GetState(ctx, "system.adapter.foo.0")
	require.NoError(t, err)
	assert.Equal(t, 7.0, st.Val)
	assert.Empty(t, f.store.ops("SetState"))
}

func TestUpgradeMissingDescriptor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, model.NewObject("system.adapter.foo", model.TypeAdapter))

	err := f.u.UpgradeObjects(context.Background(), "foo", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrDescriptor))
	assert.Empty(t, f.store.ops("GetObject", "SetObject"))
}

func TestUpgradeMissingPackage(t *testing.T) {
	f := newFixture(t)
	f.installPackage(t, "foo", fooDescriptor, nil)

	err := f.u.UpgradeObjects(context.Background(), "foo", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPackageNotFound))
	assert.Empty(t, f.store.ops("SetObject", "ListObjects"))
}

func TestUpgradeFailuresDoNotAbortSiblings(t *testing.T) {
	f := newFixture(t)
	f.installPackage(t, "foo", fooDescriptor, nil)
	f.seed(t, model.NewObject("system.adapter.foo", model.TypeAdapter))
	f.seed(t, instance("system.adapter.foo.0", true, testHost))
	f.seed(t, instance("system.adapter.foo.1", true, testHost))
	f.store.failWith(func(c call) error {
		if c.Op == "SetObject" && c.ID == "system.adapter.foo.0" {
			return fmt.Errorf("write failed")
		}
		return nil
	})

	err := f.u.UpgradeObjects(context.Background(), "foo", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrStoreIO))

	ids := []string{}
	for _, w := range f.store.ops("SetObject") {
		ids = append(ids, w.ID)
	}
	assert.ElementsMatch(t, []string{"system.adapter.foo", "system.adapter.foo.0", "system.adapter.foo.1", "_design/foo"}, ids)
}

func TestUpgradeUnversionedDescriptor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.installPackage(t, "foo", `{"common": {"name": "foo", "loglevel": "info"}}`, nil)
	f.seed(t, model.NewObject("system.adapter.foo", model.TypeAdapter))

	versioned := instance("system.adapter.foo.0", true, testHost)
	versioned.Common()["version"] = "1.0.0"
	versioned.Common()["installedVersion"] = "1.0.0"
	f.seed(t, versioned)
	f.seed(t, instance("system.adapter.foo.1", true, testHost))

	require.NoError(t, f.u.UpgradeObjects(ctx, "foo", nil))

	pkg, err := f.store.Store.GetObject(ctx, "system.adapter.foo")
	require.NoError(t, err)
	assert.NotContains(t, pkg.Common(), "installedVersion")

	for _, id := range []string{"system.adapter.foo.0", "system.adapter.foo.1"} {
		got, err := f.store.Store.GetObject(ctx, id)
		require.NoError(t, err)
		assert.NotContains(t, got.Common(), "version", id)
		assert.NotContains(t, got.Common(), "installedVersion", id)
		assert.Equal(t, "info", got.Common()["loglevel"], id)
	}
}
