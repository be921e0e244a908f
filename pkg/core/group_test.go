package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/oneconcern/pkgsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// the opencensus view worker runs for the lifetime of the process
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func TestGroup(t *testing.T) {
	var done int32
	g := newGroup(3)
	for i := 0; i < 20; i++ {
		i := i
		g.Go(context.Background(), func(context.Context) error {
			atomic.AddInt32(&done, 1)
			if i%5 == 0 {
				return fmt.Errorf("task %d failed", i)
			}
			return nil
		})
	}

	err := g.Wait()
	require.Error(t, err)
	assert.Equal(t, int32(20), atomic.LoadInt32(&done), "a failed task does not cancel its siblings")
	assert.Len(t, errors.Errors(err), 4)
}

func TestGroupEmpty(t *testing.T) {
	assert.NoError(t, newGroup(0).Wait())
}

func TestGroupCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	g := newGroup(1)
	g.Go(ctx, func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	err := g.Wait()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&ran))
}
