// Package tick paces a fixed-rate simulation against wall-clock time.
// Every method takes the current time explicitly, so nothing here sleeps.
package tick

import (
	"errors"
	"fmt"
	"time"
)

// DefaultFPSInterval is how often FPS reports a measurement.
const DefaultFPSInterval = 100 * time.Millisecond

var (
	ErrInvalidRate = errors.New("tick rate must be positive")
)

// Clock counts the fixed-rate ticks owed since a start time and measures
// the frame rate of the loop driving it. A Clock is not safe for
// concurrent use.
type Clock struct {
	start time.Time
	rate  float64
	ticks uint64

	fpsInterval time.Duration
	fpsStart    time.Time
	frames      int
}

// NewClock creates a clock producing rate ticks per second from now.
func NewClock(now time.Time, rate float64, fpsInterval time.Duration) (*Clock, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("rate %v: %w", rate, ErrInvalidRate)
	}
	if fpsInterval <= 0 {
		fpsInterval = DefaultFPSInterval
	}
	return &Clock{
		start:       now,
		rate:        rate,
		fpsInterval: fpsInterval,
		fpsStart:    now,
		frames:      1,
	}, nil
}

// Ticks returns how many ticks became due since the previous call.
// Time moving backwards yields zero.
func (c *Clock) Ticks(now time.Time) uint64 {
	elapsed := now.Sub(c.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	total := uint64(elapsed * c.rate)
	if total <= c.ticks {
		return 0
	}
	owed := total - c.ticks
	c.ticks = total
	return owed
}

// FPS counts one frame. Once per interval it returns the measured frame
// rate and true; other calls return false.
func (c *Clock) FPS(now time.Time) (int, bool) {
	elapsed := now.Sub(c.fpsStart)
	if elapsed < c.fpsInterval {
		c.frames++
		return 0, false
	}
	fps := float64(c.frames) / elapsed.Seconds()
	c.fpsStart = now
	c.frames = 1
	return int(fps), true
}

// Reset restarts tick counting from now at a new rate.
func (c *Clock) Reset(now time.Time, rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("rate %v: %w", rate, ErrInvalidRate)
	}
	c.start = now
	c.rate = rate
	c.ticks = 0
	return nil
}

// Total returns the number of ticks handed out since the last reset.
func (c *Clock) Total() uint64 { return c.ticks }

// Rate returns the ticks per second.
func (c *Clock) Rate() float64 { return c.rate }

// TickDuration is the simulated time covered by one tick.
func (c *Clock) TickDuration() time.Duration {
	return time.Duration(float64(time.Second) / c.rate)
}

// FrameInterval returns the minimum time between frames for maxFPS.
// Zero or negative means unlimited.
func FrameInterval(maxFPS int) time.Duration {
	if maxFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(maxFPS)
}
