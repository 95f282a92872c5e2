// Package poller runs scans on a timer with support for manual triggers
// and graceful shutdown.
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Poller invokes run once immediately and then on every interval tick or
// manual trigger. Stopping is cooperative: an in-flight run finishes
// before Run returns.
type Poller struct {
	interval time.Duration
	run      func(ctx context.Context)
	trigger  chan struct{}
	log      *zap.Logger
}

func New(interval time.Duration, run func(ctx context.Context), log *zap.Logger) *Poller {
	return &Poller{
		interval: interval,
		run:      run,
		trigger:  make(chan struct{}, 1),
		log:      log,
	}
}

// Trigger requests an immediate cycle. Coalesces when one is already queued.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("poller started", zap.Duration("interval", p.interval))
	p.run(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped")
			return
		case <-time.After(p.interval):
		case <-p.trigger:
			p.log.Info("manual trigger")
		}

		if ctx.Err() != nil {
			p.log.Info("poller stopped")
			return
		}
		p.run(ctx)
	}
}
