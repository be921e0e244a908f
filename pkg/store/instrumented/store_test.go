package instrumented

import (
	"context"
	"testing"

	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/oneconcern/pkgsync/pkg/store"
	"github.com/oneconcern/pkgsync/pkg/store/memory"
	"github.com/oneconcern/pkgsync/pkg/store/storetest"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInstrumentedStore(t *testing.T) {
	storetest.Run(t, func(_ testing.TB) store.Store {
		return New(nil, nil, memory.New())
	})
}

func TestInstrumentedSpans(t *testing.T) {
	tr := mocktracer.New()
	core, logs := observer.New(zap.DebugLevel)
	s := New(tr, zap.New(core), memory.New())
	assert.Equal(t, "memory", s.String())

	parent := tr.StartSpan("upload")
	ctx := opentracing.ContextWithSpan(context.Background(), parent)

	_, err := s.SetObject(ctx, "foo", model.NewObject("foo", model.TypeMeta))
	require.NoError(t, err)
	_, err = s.GetObject(ctx, "foo")
	require.NoError(t, err)
	parent.Finish()

	spans := tr.FinishedSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "store.memory.SetObject", spans[0].OperationName)
	assert.Equal(t, "store.memory.GetObject", spans[1].OperationName)
	assert.Equal(t, parent.Context().(mocktracer.MockSpanContext).SpanID, spans[0].ParentID)

	entries := logs.FilterMessage("store GetObject").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "foo", entries[0].ContextMap()["id"])
	assert.Equal(t, "memory", entries[0].ContextMap()["store"])
}
