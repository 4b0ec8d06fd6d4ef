package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
)

// DefaultPollInterval is the refresh period of a Poller.
const DefaultPollInterval = 5 * time.Second

// Poller refreshes a Reconciler on a fixed interval while an identity is established.
type Poller struct {
	r        *Reconciler
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	ticks  uint64
}

// NewPoller creates a stopped poller. A non-positive interval means DefaultPollInterval.
func NewPoller(r *Reconciler, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{r: r, interval: interval, logger: r.logger}
}

// Interval returns the refresh period.
func (p *Poller) Interval() time.Duration { return p.interval }

// Start begins polling. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	lifecycle.Go(runCtx, p.loop, lifecycle.WithErrorHandler(func(err error) {
		p.logger.Error("poller stopped", "error", err)
	}))
}

// Stop ends polling. A refresh already running is allowed to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Running reports whether the poller is scheduled.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Ticks returns how many refreshes the poller has run.
func (p *Poller) Ticks() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticks
}

func (p *Poller) loop(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, ok := p.r.session.Identity(); !ok {
				continue
			}
			p.mu.Lock()
			p.ticks++
			p.mu.Unlock()
			_ = p.r.Refresh(context.WithoutCancel(ctx), true)
		}
	}
}
