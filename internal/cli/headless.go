package cli

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stigoleg/activity-sim/internal/config"
	"github.com/stigoleg/activity-sim/internal/keepalive"
)

// statsInterval is how often a headless run logs its counters.
var statsInterval = time.Minute

// Headless runs one session without the TUI until it ends or ctx is
// cancelled, logging counters periodically.
func Headless(ctx context.Context, keeper *keepalive.Keeper, cfg *config.Config, log *zap.Logger) error {
	var err error
	switch {
	case !cfg.Until.IsZero():
		err = keeper.StartUntil(cfg.Until)
	case cfg.Duration > 0:
		err = keeper.StartTimed(cfg.Duration)
	default:
		err = keeper.StartIndefinite()
	}
	if err != nil {
		return err
	}
	done := keeper.Done()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-done:
			return keeper.Err()
		case <-gctx.Done():
			log.Info("interrupted, stopping session")
			return keeper.Stop()
		}
	})
	g.Go(func() error {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s := keeper.Stats()
				log.Info("progress",
					zap.Int64("events", s.Events()),
					zap.Int64("cycles", s.Cycles),
					zap.Int64("switches", s.Switches),
					zap.Int64("held", s.Held),
					zap.Int64("failures", s.Failures),
					zap.String("input", s.Input),
					zap.String("window", s.Window),
					zap.Float64("activity", s.Level),
					zap.Duration("remaining", keeper.TimeRemaining()),
					zap.Stringer("health", keeper.GetSimulationHealth()))
			}
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s := keeper.Stats()
	log.Info("session summary",
		zap.String("session", keeper.SessionID()),
		zap.Int64("events", s.Events()),
		zap.Int64("snippets", s.Snippets),
		zap.Int64("breaks", s.Breaks),
		zap.Int64("failures", s.Failures))
	return nil
}
