package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oneconcern/pkgsync/pkg/core/status"
	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/oneconcern/pkgsync/pkg/fetch"
	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	for _, toPin := range []struct {
		source, target string
		expected       model.FileRecord
	}{
		{source: "/tmp/app.js", target: "/vis/js/app.js", expected: model.FileRecord{Namespace: "vis", Path: "js/app.js"}},
		{source: "C:\\tmp\\app.js", target: "vis\\js\\", expected: model.FileRecord{Namespace: "vis", Path: "js/app.js"}},
		{source: "http://example.com/lib/x.css?v=2", target: "vis/css/", expected: model.FileRecord{Namespace: "vis", Path: "css/x.css"}},
		{source: "http://example.com/page", target: "/vis/", expected: model.FileRecord{Namespace: "vis", Path: "index.html"}},
	} {
		fixture := toPin
		t.Run(fixture.target, func(t *testing.T) {
			rec, err := ResolveTarget(fixture.source, fixture.target)
			require.NoError(t, err)
			assert.Equal(t, fixture.expected, rec)
		})
	}

	_, err := ResolveTarget("/tmp/a.js", "vis")
	assert.True(t, errors.Is(err, status.ErrInvalidTarget))
}

func TestUploadLocalFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	writeFiles(t, f.fs, map[string]string{"/tmp/app.js": "alert(1)"})

	location, err := f.u.UploadFile(ctx, "/tmp/app.js", "/vis/js/")
	require.NoError(t, err)
	assert.Equal(t, "vis/js/app.js", location)

	container, err := f.store.Store.GetObject(ctx, "vis")
	require.NoError(t, err)
	assert.Equal(t, model.TypeMeta, container.Type())
	assert.Equal(t, "www", container.Common()["type"])

	att, err := f.store.ReadAttachment(ctx, "vis", "js/app.js")
	require.NoError(t, err)
	assert.Equal(t, "alert(1)", string(att.Data))

	// the container exists now: its current revision is used
	location, err = f.u.UploadFile(ctx, "/tmp/app.js", "vis/js/other.js")
	require.NoError(t, err)
	assert.Equal(t, "vis/js/other.js", location)
}

func TestUploadMissingLocalFile(t *testing.T) {
	f := newFixture(t)
	location, err := f.u.UploadFile(context.Background(), "/tmp/missing.js", "vis/js/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrFilesystemIO))
	assert.Equal(t, "vis/js/missing.js", location)
	assert.Empty(t, f.store.ops("WriteAttachment"))
}

func TestUploadRemoteFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/lib/x.css" {
			_, _ = w.Write([]byte("body{}"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFixture(t, WithFetcher(fetch.New(fetch.Client(srv.Client()))))
	ctx := context.Background()

	location, err := f.u.UploadFile(ctx, srv.URL+"/lib/x.css?v=1", "vis/css/")
	require.NoError(t, err)
	assert.Equal(t, "vis/css/x.css", location)

	att, err := f.store.ReadAttachment(ctx, "vis", "css/x.css")
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(att.Data))
	assert.Contains(t, att.ContentType, "text/css")

	_, err = f.u.UploadFile(ctx, srv.URL+"/broken.css", "vis/css/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrRemoteFetch))
	assert.True(t, errors.Is(err, fetch.ErrUnexpectedStatus))
}
