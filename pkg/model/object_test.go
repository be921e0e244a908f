package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectAccessors(t *testing.T) {
	o, err := ParseObject([]byte(`{
		"_id": "system.adapter.foo.0",
		"_rev": "3-abc",
		"type": "instance",
		"common": {"enabled": true, "host": "box", "nested": {"a": [1, 2]}},
		"acl": {"owner": "system.user.admin"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "system.adapter.foo.0", o.ID())
	assert.Equal(t, "3-abc", o.Revision())
	assert.Equal(t, TypeInstance, o.Type())
	assert.True(t, o.Enabled())
	assert.Equal(t, "box", o.Host())

	native := o.Native()
	native["x"] = 1.0
	assert.Equal(t, 1.0, o.Native()["x"], "native section is created in place")

	stripped := o.WithoutRevision()
	assert.Empty(t, stripped.Revision())
	assert.Equal(t, "3-abc", o.Revision())

	o.SetRevision("")
	assert.Empty(t, o.Revision())
}

func TestObjectCloneAndEqual(t *testing.T) {
	o, err := ParseObject([]byte(`{"_id":"x","common":{"nested":{"list":[{"k":"v"}]}},"native":{}}`))
	require.NoError(t, err)

	cp := o.Clone()
	assert.True(t, cp.Equal(o))

	nested := cp.Common()["nested"].(map[string]interface{})
	nested["list"].([]interface{})[0].(map[string]interface{})["k"] = "changed"
	assert.False(t, cp.Equal(o))
	assert.Equal(t, "v", o.Common()["nested"].(map[string]interface{})["list"].([]interface{})[0].(map[string]interface{})["k"])

	var nilObject Object
	assert.Nil(t, nilObject.Clone())
}

func TestObjectStamp(t *testing.T) {
	o := NewObject("foo", TypeMeta)
	ts := time.Unix(1700000000, 123*int64(time.Millisecond))
	o.Stamp(HostOrigin("box"), ts)
	assert.Equal(t, "system.host.box.cli", o["from"])
	assert.Equal(t, int64(1700000000123), o["ts"])

	data, err := o.Marshal()
	require.NoError(t, err)
	back, err := ParseObject(data)
	require.NoError(t, err)
	assert.Equal(t, "foo", back.ID())
	assert.Equal(t, TypeMeta, back.Type())
}

func TestObjectDisabled(t *testing.T) {
	o := NewObject("i", TypeInstance)
	assert.False(t, o.Enabled())
	o.Common()["enabled"] = "true"
	assert.False(t, o.Enabled(), "only a boolean true enables an instance")
	o.Common()["enabled"] = true
	assert.True(t, o.Enabled())
}
