package core

import (
	"context"
	"sync"

	"github.com/oneconcern/pkgsync/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// group runs independent tasks concurrently and joins them once.
//
// A failing task never cancels its siblings: failures are collected and
// reported as one aggregated error by Wait.
type group struct {
	eg  errgroup.Group
	mx  sync.Mutex
	err error
}

func newGroup(limit int) *group {
	g := &group{}
	if limit > 0 {
		g.eg.SetLimit(limit)
	}
	return g
}

// Go schedules a task. It blocks while the concurrency limit is reached.
func (g *group) Go(ctx context.Context, task func(context.Context) error) {
	g.eg.Go(func() error {
		if err := ctx.Err(); err != nil {
			g.fail(err)
			return nil
		}
		if err := task(ctx); err != nil {
			g.fail(err)
		}
		return nil
	})
}

func (g *group) fail(err error) {
	g.mx.Lock()
	g.err = errors.Append(g.err, err)
	g.mx.Unlock()
}

// Wait for all scheduled tasks, and return their aggregated failures
func (g *group) Wait() error {
	_ = g.eg.Wait()
	g.mx.Lock()
	defer g.mx.Unlock()
	return g.err
}
