package usecase

import (
	"time"

	"github.com/viney-shih/goroutines"

	bCtx "github.com/musicnft/goapi/base/ctx"
	"github.com/musicnft/goapi/base/log"
	"github.com/musicnft/goapi/domain/ledger"
	"github.com/musicnft/goapi/domain/song"
)

// projector keeps the song read model in step with the ledger. It receives
// committed mutation events and schedules per-token refreshes on a worker
// pool so publishing never blocks the ledger's callers.
type projector struct {
	songUsecase song.Usecase
	songRepo    song.Repo
	workerPool  *goroutines.Pool
	// sync makes Publish refresh inline, used by tests
	sync bool
}

type ProjectorOption func(*projector)

// WithSynchronousApply disables the worker pool so events are fully applied
// before Publish returns
func WithSynchronousApply() ProjectorOption {
	return func(p *projector) {
		p.sync = true
	}
}

func NewProjector(songUsecase song.Usecase, songRepo song.Repo, opts ...ProjectorOption) ledger.EventSink {
	p := &projector{
		songUsecase: songUsecase,
		songRepo:    songRepo,
		workerPool:  goroutines.NewPool(8, goroutines.WithTaskQueueLength(1024)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *projector) Publish(c bCtx.Ctx, ev *ledger.Event) {
	if p.sync {
		p.apply(c, ev)
		return
	}

	err := p.workerPool.ScheduleWithTimeout(3*time.Second, func() {
		p.apply(c, ev)
	})
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"event": ev.Kind,
		}).Error("failed to ScheduleWithTimeout")
	}
}

func (p *projector) apply(c bCtx.Ctx, ev *ledger.Event) {
	if ev.Kind == ledger.EventSold {
		for _, id := range ev.TokenIds {
			if err := p.songRepo.IncreaseSoldCount(c, id); err != nil {
				c.WithFields(log.Fields{
					"tokenId": id,
					"err":     err,
				}).Warn("songRepo.IncreaseSoldCount failed")
			}
		}
	}

	for _, id := range ev.TokenIds {
		if _, err := p.songUsecase.Refresh(c, id); err != nil {
			c.WithFields(log.Fields{
				"tokenId": id,
				"event":   ev.Kind,
				"err":     err,
			}).Error("songUsecase.Refresh failed")
		}
	}
}
