package watch

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultPollConcurrency = 8

// Poller refreshes every open session on a fixed interval.
type Poller struct {
	registry    *Registry
	interval    time.Duration
	concurrency int
	logger      *zap.SugaredLogger
}

func NewPoller(registry *Registry, interval time.Duration, logger *zap.SugaredLogger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		registry:    registry,
		interval:    interval,
		concurrency: defaultPollConcurrency,
		logger:      logger,
	}
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.RefreshAll(ctx)
		}
	}
}

// RefreshAll refreshes the open sessions concurrently. Failures are logged;
// the failing session keeps its last snapshot.
func (p *Poller) RefreshAll(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, s := range p.registry.Sessions() {
		s := s
		g.Go(func() error {
			if err := p.registry.Refresh(gctx, s); err != nil {
				p.logger.Warnf("refresh order %s for %s: %v", s.key.OrderID, s.key.ViewerID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
