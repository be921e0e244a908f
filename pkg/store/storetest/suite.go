// Package storetest exercises any implementation of store.Store against the same set of expectations.
package storetest

import (
	"context"
	"testing"

	"github.com/oneconcern/pkgsync/internal/rand"
	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/oneconcern/pkgsync/pkg/store"
	"github.com/oneconcern/pkgsync/pkg/store/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory builds a fresh, empty store
type Factory func(t testing.TB) store.Store

// Run the conformance suite
func Run(t *testing.T, factory Factory) {
	t.Run("objects", func(t *testing.T) { testObjects(t, factory(t)) })
	t.Run("list objects", func(t *testing.T) { testListObjects(t, factory(t)) })
	t.Run("attachments", func(t *testing.T) { testAttachments(t, factory(t)) })
	t.Run("read dir", func(t *testing.T) { testReadDir(t, factory(t)) })
	t.Run("states", func(t *testing.T) { testStates(t, factory(t)) })
	t.Run("binary attachments", func(t *testing.T) { testBinaryAttachments(t, factory(t)) })
}

func testObjects(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	_, err := s.GetObject(ctx, "system.adapter.foo")
	require.True(t, errors.Is(err, status.ErrNotFound))

	obj := model.NewObject("system.adapter.foo", model.TypeAdapter)
	obj.Common()["version"] = "1.0.0"
	rev, err := s.SetObject(ctx, "system.adapter.foo", obj)
	require.NoError(t, err)
	require.NotEmpty(t, rev)

	got, err := s.GetObject(ctx, "system.adapter.foo")
	require.NoError(t, err)
	assert.Equal(t, rev, got.Revision())
	assert.Equal(t, "system.adapter.foo", got.ID())
	assert.Equal(t, "1.0.0", got.Common()["version"])

	// the stored copy is not shared with the caller
	obj.Common()["version"] = "2.0.0"
	got, err = s.GetObject(ctx, "system.adapter.foo")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", got.Common()["version"])

	rev2, err := s.SetObject(ctx, "system.adapter.foo", got)
	require.NoError(t, err)
	assert.NotEqual(t, rev, rev2)

	_, err = s.SetObject(ctx, "", obj)
	assert.True(t, errors.Is(err, status.ErrInvalidID))
}

func testListObjects(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	for _, id := range []string{"system.adapter.bar.1", "system.adapter.bar.0", "system.adapter.bar", "system.adapter.baz.0", "system.host.h1"} {
		_, err := s.SetObject(ctx, id, model.NewObject(id, model.TypeInstance))
		require.NoError(t, err)
	}

	start, end := model.InstancesRange("bar")
	list, err := s.ListObjects(ctx, start, end)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID())
		assert.NotEmpty(t, o.Revision())
	}
	assert.Equal(t, []string{"system.adapter.bar.0", "system.adapter.bar.1"}, ids)

	list, err = s.ListObjects(ctx, "system.adapter.", "system.adapter."+model.RangeEnd)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func testAttachments(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	_, err := s.WriteAttachment(ctx, "foo", "index.html", []byte("x"), "text/html", "")
	require.True(t, errors.Is(err, status.ErrNotFound), "container must exist")

	rev, err := s.SetObject(ctx, "foo", model.NewObject("foo", model.TypeMeta))
	require.NoError(t, err)

	rev1, err := s.WriteAttachment(ctx, "foo", "/index.html", []byte("<html/>"), "text/html", rev)
	require.NoError(t, err)
	require.NotEqual(t, rev, rev1)

	_, err = s.WriteAttachment(ctx, "foo", "css/site.css", []byte("body{}"), "text/css", rev)
	require.Error(t, err)
	require.True(t, errors.Is(err, status.ErrRevisionConflict))
	var conflict *status.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, rev, conflict.ExpectedRevision)
	assert.Equal(t, rev1, conflict.CurrentRevision)

	rev2, err := s.WriteAttachment(ctx, "foo", "css/site.css", []byte("body{}"), "text/css", rev1)
	require.NoError(t, err)

	container, err := s.GetObject(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, rev2, container.Revision())

	att, err := s.ReadAttachment(ctx, "foo", "index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("<html/>"), att.Data)
	assert.Equal(t, "text/html", att.ContentType)

	require.NoError(t, s.Unlink(ctx, "foo", "index.html"))
	_, err = s.ReadAttachment(ctx, "foo", "index.html")
	assert.True(t, errors.Is(err, status.ErrNotFound))
	assert.True(t, errors.Is(s.Unlink(ctx, "foo", "index.html"), status.ErrNotFound))

	container, err = s.GetObject(ctx, "foo")
	require.NoError(t, err)
	assert.NotEqual(t, rev2, container.Revision(), "unlink moves the container revision")
}

func testReadDir(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	_, err := s.ReadDir(ctx, "foo", "")
	require.True(t, errors.Is(err, status.ErrNotFound))

	rev, err := s.SetObject(ctx, "foo", model.NewObject("foo", model.TypeMeta))
	require.NoError(t, err)

	entries, err := s.ReadDir(ctx, "foo", "")
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, p := range []string{"index.html", "js/app.js", "js/lib/x.js"} {
		rev, err = s.WriteAttachment(ctx, "foo", p, []byte("data"), "", rev)
		require.NoError(t, err)
	}

	entries, err = s.ReadDir(ctx, "foo", "/")
	require.NoError(t, err)
	assert.Equal(t, []model.DirEntry{
		{Name: "index.html", Size: 4},
		{Name: "js", IsDir: true},
	}, entries)

	entries, err = s.ReadDir(ctx, "foo", "js")
	require.NoError(t, err)
	assert.Equal(t, []model.DirEntry{
		{Name: "app.js", Size: 4},
		{Name: "lib", IsDir: true},
	}, entries)

	_, err = s.ReadDir(ctx, "foo", "missing")
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func testStates(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	_, err := s.GetState(ctx, "system.adapter.foo.upload")
	require.True(t, errors.Is(err, status.ErrNotFound))

	require.NoError(t, s.SetState(ctx, "system.adapter.foo.upload", model.State{Val: 42.5, Ack: true}))
	st, err := s.GetState(ctx, "system.adapter.foo.upload")
	require.NoError(t, err)
	assert.Equal(t, 42.5, st.Val)
	assert.True(t, st.Ack)
}

func testBinaryAttachments(t *testing.T, s store.Store) {
	ctx := context.Background()
	defer func() { _ = s.Close() }()

	container := rand.LetterString(12)
	rev, err := s.SetObject(ctx, container, model.NewObject(container, model.TypeMeta))
	require.NoError(t, err)

	payloads := make(map[string][]byte, 5)
	for i := 0; i < 5; i++ {
		p := rand.LetterString(8) + "/" + rand.LetterString(8) + ".bin"
		payloads[p] = rand.Bytes(64*1024 + i)
		rev, err = s.WriteAttachment(ctx, container, p, payloads[p], "application/octet-stream", rev)
		require.NoError(t, err)
	}

	for p, data := range payloads {
		att, err := s.ReadAttachment(ctx, container, p)
		require.NoError(t, err)
		assert.Equal(t, data, att.Data)
		assert.Equal(t, "application/octet-stream", att.ContentType)
	}
}
