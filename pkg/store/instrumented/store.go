// Package instrumented decorates a store with tracing spans and debug logs
package instrumented

import (
	"context"
	"strings"

	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/oneconcern/pkgsync/pkg/store"
	opentracing "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// New instrumented store
func New(tr opentracing.Tracer, l *zap.Logger, s store.Store) store.Store {
	if tr == nil {
		tr = opentracing.NoopTracer{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &instrumentedStore{
		tr: tr,
		w:  s,
		l:  l.With(zap.String("store", s.String())),
	}
}

type instrumentedStore struct {
	tr opentracing.Tracer
	w  store.Store
	l  *zap.Logger
}

func (i *instrumentedStore) String() string { return i.w.String() }
func (i *instrumentedStore) Close() error   { return i.w.Close() }

func (i *instrumentedStore) GetObject(ctx context.Context, id string) (obj model.Object, err error) {
	i.traced(ctx, "GetObject", func(ctx context.Context) { obj, err = i.w.GetObject(ctx, id) }, zap.String("id", id))
	return
}

func (i *instrumentedStore) SetObject(ctx context.Context, id string, obj model.Object) (rev string, err error) {
	i.traced(ctx, "SetObject", func(ctx context.Context) { rev, err = i.w.SetObject(ctx, id, obj) }, zap.String("id", id))
	return
}

func (i *instrumentedStore) ListObjects(ctx context.Context, startKey, endKey string) (objs []model.Object, err error) {
	i.traced(ctx, "ListObjects", func(ctx context.Context) { objs, err = i.w.ListObjects(ctx, startKey, endKey) },
		zap.String("start", startKey), zap.String("end", endKey))
	return
}

func (i *instrumentedStore) ReadDir(ctx context.Context, namespace, dir string) (entries []model.DirEntry, err error) {
	i.traced(ctx, "ReadDir", func(ctx context.Context) { entries, err = i.w.ReadDir(ctx, namespace, dir) },
		zap.String("namespace", namespace), zap.String("dir", dir))
	return
}

func (i *instrumentedStore) Unlink(ctx context.Context, namespace, path string) (err error) {
	i.traced(ctx, "Unlink", func(ctx context.Context) { err = i.w.Unlink(ctx, namespace, path) },
		zap.String("namespace", namespace), zap.String("path", path))
	return
}

func (i *instrumentedStore) WriteAttachment(ctx context.Context, containerID, path string, data []byte, contentType, revision string) (rev string, err error) {
	i.traced(ctx, "WriteAttachment", func(ctx context.Context) {
		rev, err = i.w.WriteAttachment(ctx, containerID, path, data, contentType, revision)
	}, zap.String("container", containerID), zap.String("path", path), zap.Int("size", len(data)))
	return
}

func (i *instrumentedStore) ReadAttachment(ctx context.Context, containerID, path string) (att model.Attachment, err error) {
	i.traced(ctx, "ReadAttachment", func(ctx context.Context) { att, err = i.w.ReadAttachment(ctx, containerID, path) },
		zap.String("container", containerID), zap.String("path", path))
	return
}

func (i *instrumentedStore) GetState(ctx context.Context, id string) (st model.State, err error) {
	i.traced(ctx, "GetState", func(ctx context.Context) { st, err = i.w.GetState(ctx, id) }, zap.String("id", id))
	return
}

func (i *instrumentedStore) SetState(ctx context.Context, id string, state model.State) (err error) {
	i.traced(ctx, "SetState", func(ctx context.Context) { err = i.w.SetState(ctx, id, state) }, zap.String("id", id))
	return
}

func (i *instrumentedStore) opName(name string) string {
	return strings.Join([]string{"store", i.w.String(), name}, ".")
}

func (i *instrumentedStore) traced(ctx context.Context, name string, action func(context.Context), fields ...zap.Field) {
	parent := opentracing.SpanFromContext(ctx)
	var opts []opentracing.StartSpanOption
	if parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}
	span := i.tr.StartSpan(i.opName(name), opts...)
	defer span.Finish()

	i.l.Debug("store "+name, fields...)
	action(opentracing.ContextWithSpan(ctx, span))
}
