package core

import (
	"context"
	"math"
	"time"

	"github.com/oneconcern/pkgsync/pkg/model"
	"github.com/oneconcern/pkgsync/pkg/store"
	"go.uber.org/zap"
)

const progressInterval = time.Second

// progress reports the advancement of the upload of a package, at most once per interval.
//
// Each run owns its tracker: concurrent runs for different packages never throttle each other.
type progress struct {
	states   store.States
	id       string
	total    int
	interval time.Duration
	now      func() time.Time
	last     time.Time
	l        *zap.Logger
}

// newProgress yields nil for admin trees, which carry no progress indicator
func (u *Uploader) newProgress(name string, admin bool, total int) *progress {
	if admin {
		return nil
	}
	return &progress{
		states:   u.store,
		id:       model.UploadStateID(name),
		total:    total,
		interval: progressInterval,
		now:      u.now,
		last:     u.now(),
		l:        u.l,
	}
}

// percent of files processed, rounded to one decimal
func percent(processed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(1000*float64(processed)/float64(total)) / 10
}

// Update the indicator, unless it was already updated less than an interval ago
func (p *progress) Update(ctx context.Context, processed int) {
	if p == nil {
		return
	}
	now := p.now()
	if now.Sub(p.last) <= p.interval {
		return
	}
	p.last = now
	if err := p.states.SetState(ctx, p.id, model.State{Val: percent(processed, p.total), Ack: true}); err != nil {
		p.l.Warn("cannot update upload progress", zap.String("id", p.id), logError(err))
	}
}

// Done resets the indicator: no work remains
func (p *progress) Done(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.states.SetState(ctx, p.id, model.State{Val: 0, Ack: true})
}
