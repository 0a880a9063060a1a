package quiz

import (
	"context"
	"math"
	"time"
)

// CounterDuration is how long the results counter takes to reach its target.
const CounterDuration = 1500 * time.Millisecond

// EaseOut is the cubic ease-out curve 1-(1-p)^3 for p in [0,1].
func EaseOut(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return 1 - math.Pow(1-p, 3)
}

// Counter animates the percentage readout from 0 to Target.
type Counter struct {
	Target   int
	Duration time.Duration
}

// NewCounter returns a counter for target using CounterDuration.
func NewCounter(target int) Counter {
	return Counter{Target: target, Duration: CounterDuration}
}

// Frame is one displayed value of the counter.
type Frame struct {
	Elapsed time.Duration
	Value   int
}

// At returns the value displayed after elapsed time.
func (c Counter) At(elapsed time.Duration) int {
	return int(math.Floor(EaseOut(c.progress(elapsed)) * float64(c.Target)))
}

// Done reports whether the animation has reached its target at elapsed.
func (c Counter) Done(elapsed time.Duration) bool {
	return c.progress(elapsed) >= 1
}

func (c Counter) progress(elapsed time.Duration) float64 {
	if c.Duration <= 0 {
		return 1
	}
	return math.Min(float64(elapsed)/float64(c.Duration), 1)
}

// Frames samples the animation every interval. The last frame is always the
// target value.
func (c Counter) Frames(interval time.Duration) []Frame {
	if interval <= 0 {
		interval = c.Duration
	}
	var frames []Frame
	for elapsed := time.Duration(0); !c.Done(elapsed); elapsed += interval {
		frames = append(frames, Frame{Elapsed: elapsed, Value: c.At(elapsed)})
	}
	return append(frames, Frame{Elapsed: c.Duration, Value: c.Target})
}

// Play calls emit with each frame value in real time, stopping early when ctx
// is done or emit fails. A non-positive interval plays the frames of
// Frames(0).
func (c Counter) Play(ctx context.Context, interval time.Duration, emit func(Frame) error) error {
	if interval <= 0 {
		interval = c.Duration
	}
	if interval <= 0 {
		interval = CounterDuration
	}
	frames := c.Frames(interval)
	if len(frames) == 0 {
		return nil
	}
	if err := emit(frames[0]); err != nil {
		return err
	}
	if len(frames) == 1 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, f := range frames[1:] {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := emit(f); err != nil {
			return err
		}
	}
	return nil
}
