package movement

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/core/systems"
)

// BodySource lists the bodies to advance on a tick.
type BodySource interface {
	Bodies() []*Body
}

// System steps every body of a source once per tick. Bodies own disjoint
// state, so they are advanced concurrently.
type System struct {
	source  BodySource
	workers int
	logger  log.Log
}

var _ systems.System = (*System)(nil)

// NewSystem creates a movement system. A non-positive workers value leaves
// the parallelism unbounded.
func NewSystem(source BodySource, workers int, logger log.Log) *System {
	if logger == nil {
		logger = log.Nop()
	}
	return &System{
		source:  source,
		workers: workers,
		logger:  logger.With(log.String("system", "movement")),
	}
}

func (s *System) Name() string { return "movement" }

func (s *System) Priority() systems.Priority { return systems.PriorityHigh }

// Update advances every body by deltaTime seconds.
func (s *System) Update(ctx context.Context, deltaTime float64) error {
	g, ctx := errgroup.WithContext(ctx)
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}

	for i, body := range s.source.Bodies() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := body.Tick(deltaTime); err != nil {
				s.logger.Warn("Body step failed", log.Int("body", i), log.Error(err))
				return fmt.Errorf("body %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}
