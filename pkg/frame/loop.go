// Package frame paces a render loop to a fixed per-frame time budget.
package frame

import (
	"context"
	"errors"
	"time"
)

// DefaultBudget is the frame budget of the handheld target, about 30 FPS.
const DefaultBudget = 33 * time.Millisecond

// ErrStop can be returned by a step function to end the loop without error.
var ErrStop = errors.New("stop")

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration)
}

// SystemClock is the wall clock. time.Now carries a monotonic reading, so
// durations between two Now calls are unaffected by clock changes.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Loop runs a step function once per frame.
type Loop struct {
	// Budget is the target frame duration. Zero means DefaultBudget.
	Budget time.Duration
	// MaxFrames stops the loop after that many frames. Zero runs until
	// cancelled.
	MaxFrames uint64
	// Clock defaults to SystemClock.
	Clock Clock

	// Overruns counts frames whose step took longer than Budget.
	Overruns uint64
}

// Run calls step with frame numbers 0, 1, 2, ... and sleeps whatever is left
// of the budget after each call. It returns nil when ctx is cancelled, step
// returns ErrStop or MaxFrames is reached, and step's error otherwise.
func (l *Loop) Run(ctx context.Context, step func(frame uint64) error) error {
	budget := l.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	clock := l.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	for n := uint64(0); l.MaxFrames == 0 || n < l.MaxFrames; n++ {
		if ctx.Err() != nil {
			return nil
		}

		start := clock.Now()
		if err := step(n); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}

		elapsed := clock.Now().Sub(start)
		if elapsed >= budget {
			l.Overruns++
			continue
		}
		clock.Sleep(ctx, budget-elapsed)
	}
	return nil
}

// Rate measures frames per second over one-second windows.
type Rate struct {
	clock  Clock
	start  time.Time
	frames int
	fps    float64
}

// NewRate creates a rate meter. A nil clock uses SystemClock.
func NewRate(clock Clock) *Rate {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Rate{clock: clock, start: clock.Now()}
}

// Tick records a frame. It reports true when a new one-second window has
// completed and FPS was updated.
func (r *Rate) Tick() bool {
	r.frames++
	elapsed := r.clock.Now().Sub(r.start)
	if elapsed < time.Second {
		return false
	}
	r.fps = float64(r.frames) / elapsed.Seconds()
	r.frames = 0
	r.start = r.clock.Now()
	return true
}

// FPS returns the rate of the last completed window.
func (r *Rate) FPS() float64 {
	return r.fps
}
