package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDs(t *testing.T) {
	assert.Equal(t, "system.adapter.foo", AdapterID("foo"))
	assert.Equal(t, "system.adapter.foo.upload", UploadStateID("foo"))
	assert.Equal(t, "foo", ContainerID("foo", false))
	assert.Equal(t, "foo.admin", ContainerID("foo", true))
	assert.Equal(t, "admin", ContainerName("foo.admin"))
	assert.Equal(t, "foo", ContainerName("foo"))
	assert.Equal(t, "system.host.box.cli", HostOrigin("box"))
	assert.Equal(t, "www", TreeDir(false))
	assert.Equal(t, "admin", ContentType(true))

	start, end := InstancesRange("bar")
	assert.Equal(t, "system.adapter.bar.", start)
	assert.True(t, "system.adapter.bar.0" > start)
	assert.True(t, "system.adapter.bar.0" < end)
	assert.True(t, "system.adapter.bar.upload" < end)
	assert.False(t, "system.adapter.barn.0" < end && "system.adapter.barn.0" >= start)
}

func TestInstanceID(t *testing.T) {
	assert.Equal(t, "system.adapter.bar.1", InstanceID("bar.1"))
	assert.Equal(t, "system.adapter.bar.1", InstanceID("system.adapter.bar.1"))
	assert.Equal(t, "1", InstanceSuffix("system.adapter.bar.1"))
	assert.Equal(t, "12", InstanceSuffix("system.adapter.bar.12"))
}
