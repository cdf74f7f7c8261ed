package tick

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/zeusync/worldpos/internal/core/observability/log"
)

// Stepper advances a simulation by one fixed tick.
type Stepper interface {
	Step(ctx context.Context, frameTime float64) error
}

// LoopConfig configures a Loop
type LoopConfig struct {
	Rate        float64
	MaxFPS      int
	FPSInterval time.Duration
	// MaxCatchUp bounds the ticks run in one frame; the rest are dropped.
	MaxCatchUp int
}

// Loop drives a Stepper at a fixed tick rate from a frame ticker.
type Loop struct {
	config  LoopConfig
	stepper Stepper
	logger  log.Log

	fps     atomic.Int64
	dropped atomic.Uint64
}

// NewLoop creates a loop. It does not start it.
func NewLoop(config LoopConfig, stepper Stepper, logger log.Log) (*Loop, error) {
	if config.Rate <= 0 {
		return nil, ErrInvalidRate
	}
	if config.MaxCatchUp <= 0 {
		return nil, errors.New("max catch-up must be positive")
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Loop{
		config:  config,
		stepper: stepper,
		logger:  logger.With(log.String("component", "loop")),
	}, nil
}

// Run ticks until ctx is cancelled or a step fails. Cancellation is not
// an error.
func (l *Loop) Run(ctx context.Context) error {
	clock, err := NewClock(time.Now(), l.config.Rate, l.config.FPSInterval)
	if err != nil {
		return err
	}
	frameTime := 1 / l.config.Rate

	interval := FrameInterval(l.config.MaxFPS)
	if interval == 0 {
		interval = clock.TickDuration()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.logger.Info("Loop started",
		log.Float64("rate", l.config.Rate),
		log.Duration("frame_interval", interval))

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Loop stopped", log.Tick(clock.Total()))
			return nil
		case now := <-ticker.C:
			owed := clock.Ticks(now)
			if limit := uint64(l.config.MaxCatchUp); owed > limit {
				l.dropped.Add(owed - limit)
				l.logger.Warn("Dropping ticks", log.Uint64("owed", owed), log.Uint64("run", limit))
				owed = limit
			}
			for i := uint64(0); i < owed; i++ {
				if err := l.stepper.Step(ctx, frameTime); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
			}
			if fps, ok := clock.FPS(now); ok {
				l.fps.Store(int64(fps))
			}
		}
	}
}

// FPS returns the last measured frame rate.
func (l *Loop) FPS() int { return int(l.fps.Load()) }

// Dropped returns the number of ticks skipped after stalls.
func (l *Loop) Dropped() uint64 { return l.dropped.Load() }
