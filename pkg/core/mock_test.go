package core

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/oneconcern/pkgsync/pkg/store"
	"github.com/oneconcern/pkgsync/pkg/store/memory"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testHost     = "h1"
	testPackages = "/opt/iobroker/node_modules"
)

// call recorded by the recording store
type call struct {
	Op       string
	ID       string
	Path     string
	Revision string
	Object   model.Object
	State    model.State
}

// recordingStore decorates a store, recording calls and injecting failures
type recordingStore struct {
	store.Store

	mx    sync.Mutex
	calls []call
	fail  func(call) error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: memory.New()}
}

func (r *recordingStore) record(c call) error {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.calls = append(r.calls, c)
	if r.fail != nil {
		return r.fail(c)
	}
	return nil
}

func (r *recordingStore) failWith(fail func(call) error) {
	r.mx.Lock()
	r.fail = fail
	r.mx.Unlock()
}

func (r *recordingStore) reset() {
	r.mx.Lock()
	r.calls = nil
	r.mx.Unlock()
}

// ops returns the recorded calls of some kinds
func (r *recordingStore) ops(kinds ...string) []call {
	r.mx.Lock()
	defer r.mx.Unlock()
	result := make([]call, 0, len(r.calls))
	for _, c := range r.calls {
		for _, k := range kinds {
			if c.Op == k {
				result = append(result, c)
				break
			}
		}
	}
	return result
}

func (r *recordingStore) GetObject(ctx context.Context, id string) (model.Object, error) {
	if err := r.record(call{Op: "GetObject", ID: id}); err != nil {
		return nil, err
	}
	return r.Store.GetObject(ctx, id)
}

func (r *recordingStore) SetObject(ctx context.Context, id string, obj model.Object) (string, error) {
	if err := r.record(call{Op: "SetObject", ID: id, Object: obj.Clone()}); err != nil {
		return "", err
	}
	return r.Store.SetObject(ctx, id, obj)
}

func (r *recordingStore) ListObjects(ctx context.Context, start, end string) ([]model.Object, error) {
	if err := r.record(call{Op: "ListObjects", ID: start}); err != nil {
		return nil, err
	}
	return r.Store.ListObjects(ctx, start, end)
}

func (r *recordingStore) ReadDir(ctx context.Context, namespace, dir string) ([]model.DirEntry, error) {
	if err := r.record(call{Op: "ReadDir", ID: namespace, Path: dir}); err != nil {
		return nil, err
	}
	return r.Store.ReadDir(ctx, namespace, dir)
}

func (r *recordingStore) Unlink(ctx context.Context, namespace, p string) error {
	if err := r.record(call{Op: "Unlink", ID: namespace, Path: p}); err != nil {
		return err
	}
	return r.Store.Unlink(ctx, namespace, p)
}

func (r *recordingStore) WriteAttachment(ctx context.Context, containerID, p string, data []byte, contentType, revision string) (string, error) {
	if err := r.record(call{Op: "WriteAttachment", ID: containerID, Path: p, Revision: revision}); err != nil {
		return "", err
	}
	return r.Store.WriteAttachment(ctx, containerID, p, data, contentType, revision)
}

func (r *recordingStore) GetState(ctx context.Context, id string) (model.State, error) {
	if err := r.record(call{Op: "GetState", ID: id}); err != nil {
		return model.State{}, err
	}
	return r.Store.GetState(ctx, id)
}

func (r *recordingStore) SetState(ctx context.Context, id string, st model.State) error {
	if err := r.record(call{Op: "SetState", ID: id, State: st}); err != nil {
		return err
	}
	return r.Store.SetState(ctx, id, st)
}

// fixedClock yields a clock advancing by some step on each reading
func fixedClock(step time.Duration) func() time.Time {
	var mx sync.Mutex
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mx.Lock()
		defer mx.Unlock()
		now = now.Add(step)
		return now
	}
}

func testLogger() *zap.Logger {
	if os.Getenv("DEBUG_TEST") != "" {
		l, _ := zap.NewDevelopment()
		return l
	}
	return zap.NewNop()
}

type fixture struct {
	store *recordingStore
	fs    afero.Fs
	u     *Uploader
}

func newFixture(t testing.TB, opts ...Option) *fixture {
	f := &fixture{
		store: newRecordingStore(),
		fs:    afero.NewMemMapFs(),
	}
	all := append([]Option{
		Fs(f.fs),
		Logger(testLogger()),
		PackagesRoot(testPackages),
		Hostname(testHost),
		Clock(fixedClock(10 * time.Millisecond)),
		Concurrency(4),
	}, opts...)
	f.u = New(f.store, all...)
	t.Cleanup(func() { _ = f.store.Close() })
	return f
}

func (f *fixture) packageDir(name string) string {
	return filepath.Join(testPackages, "iobroker."+name)
}

// installPackage writes a package descriptor and some files in the package directory
func (f *fixture) installPackage(t testing.TB, name, descriptor string, files map[string]string) {
	dir := f.packageDir(name)
	all := map[string]string{filepath.Join(dir, model.DescriptorFile): descriptor}
	for p, content := range files {
		all[filepath.Join(dir, filepath.FromSlash(p))] = content
	}
	writeFiles(t, f.fs, all)
}

// seed an object in the store without recording the call
func (f *fixture) seed(t testing.TB, obj model.Object) {
	_, err := f.store.Store.SetObject(context.Background(), obj.ID(), obj)
	require.NoError(t, err)
}

func instance(id string, enabled bool, host string) model.Object {
	obj := model.NewObject(id, model.TypeInstance)
	obj.Common()["enabled"] = enabled
	obj.Common()["host"] = host
	return obj
}
